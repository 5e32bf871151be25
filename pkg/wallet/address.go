package wallet

import (
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/base58"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/curve"
	"github.com/study/monero-wallet-core/pkg/xmrerrors"
)

// PaymentID is the 8-byte short payment id embedded in an integrated
// address.
type PaymentID [8]byte

// StandardAddress builds the main account's standard address:
// Base58Check(prefix || B || A).
func (k *Keys) StandardAddress(net *Network) string {
	return buildAddress(net.StandardPrefix, k.publicSpend, k.publicView, nil)
}

// IntegratedAddress builds a main-account integrated address:
// Base58Check(prefix_int || B || A || paymentID).
func (k *Keys) IntegratedAddress(net *Network, paymentID PaymentID) string {
	return buildAddress(net.IntegratedPrefix, k.publicSpend, k.publicView, paymentID[:])
}

// SubaddressAddress builds the address for a subaddress index. Index
// (0,0) returns the standard address rather than a subaddress-prefixed
// one, per §4.5.
func (k *Keys) SubaddressAddress(net *Network, index SubaddressIndex) string {
	if index.IsMain() {
		return k.StandardAddress(net)
	}
	sub := k.DeriveSubaddress(index)
	return buildAddress(net.SubaddressPrefix, sub.PublicSpend, sub.PublicView, nil)
}

func buildAddress(prefix byte, spend, view curve.Point, extra []byte) string {
	spendBytes := spend.Bytes()
	viewBytes := view.Bytes()

	payload := make([]byte, 0, 1+32+32+len(extra))
	payload = append(payload, prefix)
	payload = append(payload, spendBytes[:]...)
	payload = append(payload, viewBytes[:]...)
	payload = append(payload, extra...)

	return base58.CheckEncode(payload)
}

// AddressInfo is the result of parsing an arbitrary Monero address back
// into its component network, kind, and keys.
type AddressInfo struct {
	Network     *Network
	Kind        AddressKind
	PublicSpend curve.Point
	PublicView  curve.Point
	PaymentID   *PaymentID // non-nil only for KindIntegrated
}

// ParseAddress decodes and validates a Base58Check-encoded Monero address,
// recovering the network, address kind, and embedded keys.
func ParseAddress(addr string) (*AddressInfo, error) {
	payload, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, err
	}
	if len(payload) < 1+32+32 {
		return nil, xmrerrors.ErrInvalidLength
	}

	prefix := payload[0]
	net, kind, ok := NetworkFromPrefix(prefix)
	if !ok {
		return nil, xmrerrors.ErrInvalidKey
	}

	wantLen := 1 + 32 + 32
	if kind == KindIntegrated {
		wantLen += 8
	}
	if len(payload) != wantLen {
		return nil, xmrerrors.ErrInvalidLength
	}

	var spendBytes, viewBytes [32]byte
	copy(spendBytes[:], payload[1:33])
	copy(viewBytes[:], payload[33:65])

	spend, err := curve.PointFromBytes(spendBytes)
	if err != nil {
		return nil, err
	}
	view, err := curve.PointFromBytes(viewBytes)
	if err != nil {
		return nil, err
	}

	info := &AddressInfo{
		Network:     net,
		Kind:        kind,
		PublicSpend: spend,
		PublicView:  view,
	}

	if kind == KindIntegrated {
		var pid PaymentID
		copy(pid[:], payload[65:73])
		info.PaymentID = &pid
	}

	return info, nil
}
