// Package base58 implements Monero's flavor of Base58: 8-byte input blocks
// encode to fixed 11-character output blocks (unlike Bitcoin's Base58,
// which treats the whole payload as one big integer). This block structure
// is load-bearing for Monero addresses; a generic big-integer Base58
// encoder produces different output for anything longer than one block.
package base58

import (
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/hash"
	"github.com/study/monero-wallet-core/pkg/xmrerrors"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const fullBlockSize = 8
const fullEncodedBlockSize = 11

// encodedBlockSizes[n] is the encoded character count for an n-byte tail
// block, n in [0,8].
var encodedBlockSizes = [9]int{0, 2, 3, 5, 6, 7, 9, 10, 11}

var alphabetIndex = func() map[byte]int {
	m := make(map[byte]int, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = i
	}
	return m
}()

// Encode encodes data using Monero's block Base58 variant.
func Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	fullBlocks := len(data) / fullBlockSize
	tailSize := len(data) % fullBlockSize

	out := make([]byte, 0, fullBlocks*fullEncodedBlockSize+encodedBlockSizes[tailSize])

	for i := 0; i < fullBlocks; i++ {
		out = append(out, encodeBlock(data[i*fullBlockSize:(i+1)*fullBlockSize], fullEncodedBlockSize)...)
	}
	if tailSize > 0 {
		out = append(out, encodeBlock(data[fullBlocks*fullBlockSize:], encodedBlockSizes[tailSize])...)
	}

	return string(out)
}

// CheckEncode encodes payload with a 4-byte Keccak-256 checksum appended,
// the form used by Monero addresses: Base58Encode(payload || first4(keccak256(payload))).
func CheckEncode(payload []byte) string {
	sum := hash.Sum256(payload)
	full := make([]byte, 0, len(payload)+4)
	full = append(full, payload...)
	full = append(full, sum[:4]...)
	return Encode(full)
}

// Decode decodes a Monero Base58 string back to bytes. It fails with
// xmrerrors.ErrInvalidCharacter on an out-of-alphabet byte and
// xmrerrors.ErrInvalidLength on a malformed trailing block.
func Decode(s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, nil
	}

	fullBlocks := len(s) / fullEncodedBlockSize
	tailSize := len(s) % fullEncodedBlockSize

	tailDecodedSize, ok := decodedSizeForEncoded(tailSize)
	if !ok {
		return nil, xmrerrors.ErrInvalidLength
	}

	out := make([]byte, 0, fullBlocks*fullBlockSize+tailDecodedSize)

	for i := 0; i < fullBlocks; i++ {
		block, err := decodeBlock(s[i*fullEncodedBlockSize:(i+1)*fullEncodedBlockSize], fullBlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	if tailSize > 0 {
		block, err := decodeBlock(s[fullBlocks*fullEncodedBlockSize:], tailDecodedSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}

	return out, nil
}

// CheckDecode decodes a checksummed Monero Base58 string and verifies the
// trailing 4-byte Keccak-256 checksum, returning the payload without it.
func CheckDecode(s string) ([]byte, error) {
	full, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(full) < 4 {
		return nil, xmrerrors.ErrInvalidLength
	}

	payload := full[:len(full)-4]
	checksum := full[len(full)-4:]
	sum := hash.Sum256(payload)
	for i := 0; i < 4; i++ {
		if checksum[i] != sum[i] {
			return nil, xmrerrors.ErrInvalidChecksum
		}
	}
	return payload, nil
}

// encodeBlock encodes up to 8 bytes, left-padded with the Base58 zero
// character ('1') to encodedSize characters.
func encodeBlock(block []byte, encodedSize int) []byte {
	var num uint64
	for _, b := range block {
		num = num*256 + uint64(b)
	}

	buf := make([]byte, encodedSize)
	for i := encodedSize - 1; i >= 0; i-- {
		buf[i] = alphabet[num%58]
		num /= 58
	}
	return buf
}

// decodeBlock decodes an encoded block back to decodedSize bytes.
func decodeBlock(block string, decodedSize int) ([]byte, error) {
	var num uint64
	for i := 0; i < len(block); i++ {
		idx, ok := alphabetIndex[block[i]]
		if !ok {
			return nil, xmrerrors.ErrInvalidCharacter
		}
		num = num*58 + uint64(idx)
	}

	out := make([]byte, decodedSize)
	for i := decodedSize - 1; i >= 0; i-- {
		out[i] = byte(num & 0xFF)
		num >>= 8
	}
	return out, nil
}

// decodedSizeForEncoded returns the decoded byte count for an encoded tail
// block of the given character length, and whether that length is valid.
func decodedSizeForEncoded(encodedSize int) (int, bool) {
	for decoded, enc := range encodedBlockSizes {
		if enc == encodedSize {
			return decoded, true
		}
	}
	return 0, false
}
