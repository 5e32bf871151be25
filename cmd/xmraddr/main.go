// Command xmraddr is a CLI for deriving Monero wallet key material:
// generating keys from a seed or mnemonic, deriving subaddresses and
// integrated addresses, and parsing an address back into its components.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/study/monero-wallet-core/pkg/wallet"
	"github.com/study/monero-wallet-core/pkg/xmrcrypto/mnemonic"
)

const usage = `xmraddr - Monero wallet key/address CLI

Usage:
  xmraddr <command> [options]

Commands:
  generate    Generate a new seed, mnemonic, and standard address
  derive      Derive keys and an address from a seed or mnemonic
  subaddress  Derive a subaddress at a given (major, minor) index
  integrated  Build an integrated address with an 8-byte payment id
  parse       Parse an address into its network, kind, and public keys

Examples:
  xmraddr generate --net mainnet
  xmraddr derive --seed b0ef6bd527b9b23b9ceef70dc8b4cd1ee83ca14541964e764ad23f5151204f0f
  xmraddr derive --mnemonic "<25 words printed by generate>"
  xmraddr subaddress --seed <hex> --major 0 --minor 1
  xmraddr integrated --seed <hex> --payment-id 0102030405060708
  xmraddr parse --address 4<...>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		cmdGenerate(os.Args[2:])
	case "derive":
		cmdDerive(os.Args[2:])
	case "subaddress":
		cmdSubaddress(os.Args[2:])
	case "integrated":
		cmdIntegrated(os.Args[2:])
	case "parse":
		cmdParse(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(1)
	}
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	net := fs.String("net", "mainnet", "Network (mainnet, testnet, stagenet)")
	fs.Parse(args)

	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	words, err := mnemonic.EntropyToMnemonic(seed)
	if err != nil {
		fmt.Printf("Error encoding mnemonic: %v\n", err)
		os.Exit(1)
	}

	printKeys(seed, words, networkFromFlag(*net))
}

func cmdDerive(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	seedHex := fs.String("seed", "", "32-byte seed in hex")
	words := fs.String("mnemonic", "", "25-word mnemonic")
	net := fs.String("net", "mainnet", "Network (mainnet, testnet, stagenet)")
	fs.Parse(args)

	seed, words2, err := resolveSeed(*seedHex, *words)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printKeys(seed, words2, networkFromFlag(*net))
}

func cmdSubaddress(args []string) {
	fs := flag.NewFlagSet("subaddress", flag.ExitOnError)
	seedHex := fs.String("seed", "", "32-byte seed in hex")
	words := fs.String("mnemonic", "", "25-word mnemonic")
	major := fs.Uint("major", 0, "Major (account) index")
	minor := fs.Uint("minor", 0, "Minor index")
	net := fs.String("net", "mainnet", "Network (mainnet, testnet, stagenet)")
	fs.Parse(args)

	seed, _, err := resolveSeed(*seedHex, *words)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	k := wallet.NewKeysFromSeed(seed)
	index := wallet.SubaddressIndex{Major: uint32(*major), Minor: uint32(*minor)}
	addr := k.SubaddressAddress(networkFromFlag(*net), index)

	fmt.Printf("Index:   (%d, %d)\n", index.Major, index.Minor)
	fmt.Printf("Address: %s\n", addr)
}

func cmdIntegrated(args []string) {
	fs := flag.NewFlagSet("integrated", flag.ExitOnError)
	seedHex := fs.String("seed", "", "32-byte seed in hex")
	words := fs.String("mnemonic", "", "25-word mnemonic")
	paymentIDHex := fs.String("payment-id", "", "8-byte payment id in hex")
	net := fs.String("net", "mainnet", "Network (mainnet, testnet, stagenet)")
	fs.Parse(args)

	seed, _, err := resolveSeed(*seedHex, *words)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	pidBytes, err := hex.DecodeString(*paymentIDHex)
	if err != nil || len(pidBytes) != 8 {
		fmt.Println("Error: --payment-id must be 8 bytes of hex")
		os.Exit(1)
	}
	var pid wallet.PaymentID
	copy(pid[:], pidBytes)

	k := wallet.NewKeysFromSeed(seed)
	addr := k.IntegratedAddress(networkFromFlag(*net), pid)
	fmt.Printf("Payment ID: %s\n", *paymentIDHex)
	fmt.Printf("Address:    %s\n", addr)
}

func cmdParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	addr := fs.String("address", "", "Address to parse")
	fs.Parse(args)

	if *addr == "" {
		fmt.Println("Error: --address is required")
		os.Exit(1)
	}

	info, err := wallet.ParseAddress(*addr)
	if err != nil {
		fmt.Printf("Error: invalid address: %v\n", err)
		os.Exit(1)
	}

	spend := info.PublicSpend.Bytes()
	view := info.PublicView.Bytes()

	fmt.Printf("Network:          %s\n", info.Network.Name)
	fmt.Printf("Kind:             %s\n", addressKindName(info.Kind))
	fmt.Printf("Public Spend Key: %s\n", hex.EncodeToString(spend[:]))
	fmt.Printf("Public View Key:  %s\n", hex.EncodeToString(view[:]))
	if info.PaymentID != nil {
		fmt.Printf("Payment ID:       %s\n", hex.EncodeToString(info.PaymentID[:]))
	}
}

func printKeys(seed [32]byte, words string, net *wallet.Network) {
	k := wallet.NewKeysFromSeed(seed)
	defer k.Zero()

	spendPriv := k.PrivateSpendKey().Bytes()
	viewPriv := k.PrivateViewKey().Bytes()
	spendPub := k.PublicSpendKey().Bytes()
	viewPub := k.PublicViewKey().Bytes()

	fmt.Printf("Seed:              %s\n", hex.EncodeToString(seed[:]))
	if words != "" {
		fmt.Printf("Mnemonic:          %s\n", words)
	}
	fmt.Printf("Private Spend Key: %s\n", hex.EncodeToString(spendPriv[:]))
	fmt.Printf("Private View Key:  %s\n", hex.EncodeToString(viewPriv[:]))
	fmt.Printf("Public Spend Key:  %s\n", hex.EncodeToString(spendPub[:]))
	fmt.Printf("Public View Key:   %s\n", hex.EncodeToString(viewPub[:]))
	fmt.Printf("Address (%s): %s\n", net.Name, k.StandardAddress(net))
}

// resolveSeed picks the seed from either an explicit hex seed or a
// mnemonic, preferring the hex seed if both are given.
func resolveSeed(seedHex, words string) (seed [32]byte, mnemonicOut string, err error) {
	if seedHex != "" {
		b, err := hex.DecodeString(seedHex)
		if err != nil || len(b) != 32 {
			return seed, "", fmt.Errorf("--seed must be 32 bytes of hex")
		}
		copy(seed[:], b)
		return seed, "", nil
	}
	if words != "" {
		seed, err = mnemonic.MnemonicToEntropy(words)
		if err != nil {
			return seed, "", fmt.Errorf("invalid mnemonic: %w", err)
		}
		return seed, words, nil
	}
	return seed, "", fmt.Errorf("--seed or --mnemonic is required")
}

func networkFromFlag(name string) *wallet.Network {
	switch strings.ToLower(name) {
	case "testnet":
		return wallet.Testnet
	case "stagenet":
		return wallet.Stagenet
	default:
		return wallet.Mainnet
	}
}

func addressKindName(k wallet.AddressKind) string {
	switch k {
	case wallet.KindStandard:
		return "standard"
	case wallet.KindSubaddress:
		return "subaddress"
	case wallet.KindIntegrated:
		return "integrated"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}
