package shared

import (
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var characters = []rune("abcdefghijklmnopqrstuvwxyz1234567890")

const base58 = "[1-9A-HJ-NP-Za-km-z]"

var (
	evmAddress     = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
	solanaAddress  = regexp.MustCompile(`^` + base58 + `{32,44}$`)
	tezosAddress   = regexp.MustCompile(`^(tz1|tz2|tz3|KT1)` + base58 + `{33}$`)
	bitcoinAddress = regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{11,71}|[13]` + base58 + `{25,34})$`)
)

func GenRandomString(n int) string {
	randStr := GenRandomArray(n, characters)
	return string(randStr)
}

func GenRandomArray(n int, runes []rune) []rune {
	source := rand.NewSource(time.Now().UnixNano())
	r := rand.New(source)

	b := make([]rune, n)
	for i := range b {
		b[i] = runes[r.Intn(len(runes))]
	}

	return b
}

// IsValidNetwork checks the network string against the list of networks that
// artifacts can be cataloged from
func IsValidNetwork(network Network) bool {
	for _, n := range Networks {
		if n == network {
			return true
		}
	}

	return false
}

// IsEVMNetwork returns true for networks that share Ethereum-style addresses
func IsEVMNetwork(network Network) bool {
	return network == NetworkEthereum ||
		network == NetworkPolygon ||
		network == NetworkBase
}

// NormalizeAddress trims the address and lower-cases EVM addresses, which are
// case-insensitive (checksum casing is presentation only).
func NormalizeAddress(network Network, address string) string {
	address = strings.TrimSpace(address)
	if IsEVMNetwork(network) {
		return strings.ToLower(address)
	} else if network == NetworkBitcoin && strings.HasPrefix(strings.ToLower(address), "bc1") {
		// Bech32 addresses may be written in either case but never mixed
		return strings.ToLower(address)
	}

	return address
}

// IsValidAddress checks a normalized address against the format used by its
// network family
func IsValidAddress(network Network, address string) bool {
	switch {
	case IsEVMNetwork(network):
		return evmAddress.MatchString(address)
	case network == NetworkSolana:
		return solanaAddress.MatchString(address)
	case network == NetworkTezos:
		return tezosAddress.MatchString(address)
	case network == NetworkBitcoin:
		return bitcoinAddress.MatchString(address)
	}

	return false
}
