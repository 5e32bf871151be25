// Package wallet implements the Monero key hierarchy: private/public
// spend and view keys derived from a 32-byte seed, subaddress derivation,
// and standard/subaddress/integrated address construction.
package wallet

// Network carries the three address-prefix bytes for a Monero network,
// mirroring how bip32.Network carries a chain's extended-key version
// bytes — one small value object per network instead of a pile of
// package-level constants switched on by a bool.
type Network struct {
	Name             string
	StandardPrefix   byte
	SubaddressPrefix byte
	IntegratedPrefix byte
}

// Predefined networks.
var (
	Mainnet = &Network{
		Name:             "mainnet",
		StandardPrefix:   18,
		SubaddressPrefix: 42,
		IntegratedPrefix: 19,
	}

	Testnet = &Network{
		Name:             "testnet",
		StandardPrefix:   53,
		SubaddressPrefix: 63,
		IntegratedPrefix: 54,
	}

	Stagenet = &Network{
		Name:             "stagenet",
		StandardPrefix:   24,
		SubaddressPrefix: 36,
		IntegratedPrefix: 25,
	}

	// DefaultNetwork is Mainnet. Every constructor in this package takes
	// its network explicitly; none reads this value.
	DefaultNetwork = Mainnet
)

// allNetworks is used by NetworkFromPrefix to recognize any of the three
// prefix bytes a network defines.
var allNetworks = []*Network{Mainnet, Testnet, Stagenet}

// AddressKind distinguishes the three address shapes a prefix byte can
// select.
type AddressKind int

const (
	KindStandard AddressKind = iota
	KindSubaddress
	KindIntegrated
)

// NetworkFromPrefix returns the network and address kind that own the
// given address-prefix byte, or ok=false if no network claims it.
func NetworkFromPrefix(prefix byte) (*Network, AddressKind, bool) {
	for _, n := range allNetworks {
		switch prefix {
		case n.StandardPrefix:
			return n, KindStandard, true
		case n.SubaddressPrefix:
			return n, KindSubaddress, true
		case n.IntegratedPrefix:
			return n, KindIntegrated, true
		}
	}
	return nil, 0, false
}
