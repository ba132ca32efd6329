package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Network describes a supported EVM network. The marketplace currently runs
// on ApeChain only, but keeping a registry makes the chain id and native
// currency decimals a lookup instead of scattered constants.
type Network struct {
	Name           string
	ChainID        int64
	NativeSymbol   string
	NativeDecimals int
	RPCURL         string
	ExplorerURL    string
}

var ApeChain = Network{
	Name:           "ApeChain Mainnet",
	ChainID:        33139,
	NativeSymbol:   "APE",
	NativeDecimals: 18,
	RPCURL:         "https://rpc.apechain.com",
	ExplorerURL:    "https://apescan.io",
}

var networks = map[int64]Network{
	ApeChain.ChainID: ApeChain,
}

func ByChainID(chainID int64) (Network, bool) {
	network, exists := networks[chainID]
	return network, exists
}

// FormatUnits converts a raw integer amount to a human-readable decimal
// string at the given number of decimal places.
func FormatUnits(amount *big.Int, decimals int) string {
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	wholePart := new(big.Int).Div(amount, divisor)
	remainder := new(big.Int).Mod(amount, divisor)

	if remainder.Cmp(big.NewInt(0)) == 0 {
		return wholePart.String()
	}

	// Pad remainder with leading zeros to match decimal places
	remainderStr := remainder.String()
	for len(remainderStr) < decimals {
		remainderStr = "0" + remainderStr
	}
	// Remove trailing zeros
	remainderStr = strings.TrimRight(remainderStr, "0")
	if remainderStr == "" {
		return wholePart.String()
	}
	return wholePart.String() + "." + remainderStr
}

// ParseUnits converts a decimal string to a raw integer amount at the given
// number of decimal places, truncating any excess precision.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amountFloat, ok := new(big.Float).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid decimal format: %s", amount)
	}

	multiplier := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	scaled := new(big.Float).Mul(amountFloat, multiplier)

	scaledInt, _ := scaled.Int(nil)
	return scaledInt, nil
}
