// Package mnemonic implements the Monero 25-word mnemonic encoding: a
// 32-byte secret is split into eight little-endian 4-byte groups, each
// encoded as three words, followed by one checksum word computed over the
// first 24.
package mnemonic

import (
	"encoding/binary"
	"hash/crc32"
	"strings"

	"github.com/study/monero-wallet-core/pkg/xmrerrors"
)

// EntropyToMnemonic encodes a 32-byte secret into a 25-word mnemonic using
// the default word list.
func EntropyToMnemonic(entropy [32]byte) (string, error) {
	return EntropyToMnemonicWithWordList(entropy, DefaultWordList)
}

// EntropyToMnemonicWithWordList encodes entropy using the given word list.
func EntropyToMnemonicWithWordList(entropy [32]byte, wl WordList) (string, error) {
	if wl.Size() <= 0 {
		return "", xmrerrors.ErrInvalidLength
	}
	n := uint64(wl.Size())

	words := make([]string, 0, WordCount+1)
	for g := 0; g < 8; g++ {
		w := uint64(binary.LittleEndian.Uint32(entropy[g*4 : g*4+4]))

		q1 := w / n
		r1 := w % n
		idx2 := (q1 + r1) % n
		q2 := q1 / n
		idx3 := (q2 + q1 + r1) % n

		words = append(words, wl.WordAt(int(r1)), wl.WordAt(int(idx2)), wl.WordAt(int(idx3)))
	}

	words = append(words, checksumWord(words))
	return strings.Join(words, " "), nil
}

// MnemonicToEntropy decodes a 25-word mnemonic back into its 32-byte
// secret using the default word list, verifying the checksum word.
func MnemonicToEntropy(mnemonic string) ([32]byte, error) {
	return MnemonicToEntropyWithWordList(mnemonic, DefaultWordList)
}

// MnemonicToEntropyWithWordList decodes mnemonic using the given word
// list.
func MnemonicToEntropyWithWordList(mnemonic string, wl WordList) ([32]byte, error) {
	var entropy [32]byte

	words := strings.Fields(mnemonic)
	if len(words) != WordCount+1 {
		return entropy, xmrerrors.ErrInvalidLength
	}

	dataWords := words[:WordCount]
	givenChecksum := words[WordCount]

	indices := make([]int, WordCount)
	for i, w := range dataWords {
		idx := wl.WordIndex(w)
		if idx == -1 {
			return entropy, xmrerrors.ErrUnknownWord
		}
		indices[i] = idx
	}

	if checksumWord(dataWords) != givenChecksum {
		return entropy, xmrerrors.ErrChecksumMismatch
	}

	n := int64(wl.Size())
	for g := 0; g < 8; g++ {
		i1 := int64(indices[g*3])
		i2 := int64(indices[g*3+1])
		i3 := int64(indices[g*3+2])

		x2 := floorMod(i2-i1, n)
		x3 := floorMod(i3-i2, n)

		w := uint64(i1) + uint64(n)*uint64(x2) + uint64(n)*uint64(n)*uint64(x3)
		binary.LittleEndian.PutUint32(entropy[g*4:g*4+4], uint32(w))
	}

	return entropy, nil
}

// ValidateMnemonic reports whether mnemonic decodes cleanly under the
// default word list.
func ValidateMnemonic(mnemonic string) bool {
	_, err := MnemonicToEntropy(mnemonic)
	return err == nil
}

// checksumWord computes the 25th (checksum) word for a 24-word slice: the
// word at index crc32(concat(first prefixLen chars of each word)) mod 24.
func checksumWord(dataWords []string) string {
	var sb strings.Builder
	for _, w := range dataWords {
		sb.WriteString(wordPrefix(w))
	}
	idx := crc32.ChecksumIEEE([]byte(sb.String())) % uint32(len(dataWords))
	return dataWords[idx]
}

func wordPrefix(w string) string {
	if len(w) <= prefixLen {
		return w
	}
	return w[:prefixLen]
}

// floorMod returns a mod n with a result in [0, n), matching the
// mathematical mod rather than Go's truncating %.
func floorMod(a, n int64) int64 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
