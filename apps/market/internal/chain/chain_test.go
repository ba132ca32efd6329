package chain

import (
	"math/big"
	"testing"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
	}{
		{name: "Whole", amount: "1000000000000000000", decimals: 18, expected: "1"},
		{name: "Fractional", amount: "1500000000000000000", decimals: 18, expected: "1.5"},
		{name: "SubUnit", amount: "5", decimals: 18, expected: "0.000000000000000005"},
		{name: "Zero", amount: "0", decimals: 18, expected: "0"},
		{name: "TrailingZerosTrimmed", amount: "1230000000000000000", decimals: 18, expected: "1.23"},
		{name: "EightDecimals", amount: "150000000", decimals: 8, expected: "1.5"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			amount, ok := new(big.Int).SetString(test.amount, 10)
			if !ok {
				t.Fatalf("Invalid test amount %s", test.amount)
			}
			if got := FormatUnits(amount, test.decimals); got != test.expected {
				t.Errorf("FormatUnits(%s, %d) = %s, want %s", test.amount, test.decimals, got, test.expected)
			}
		})
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
	}{
		{name: "Whole", amount: "1", decimals: 18, expected: "1000000000000000000"},
		{name: "Fractional", amount: "1.5", decimals: 18, expected: "1500000000000000000"},
		{name: "Zero", amount: "0", decimals: 18, expected: "0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseUnits(test.amount, test.decimals)
			if err != nil {
				t.Fatalf("ParseUnits failed: %v", err)
			}
			if got.String() != test.expected {
				t.Errorf("ParseUnits(%s, %d) = %s, want %s", test.amount, test.decimals, got, test.expected)
			}
		})
	}

	if _, err := ParseUnits("not-a-number", 18); err == nil {
		t.Error("Expected error for invalid amount")
	}
}

func TestRoundTrip(t *testing.T) {
	wei, err := ParseUnits("3.75", 18)
	if err != nil {
		t.Fatalf("ParseUnits failed: %v", err)
	}
	if got := FormatUnits(wei, 18); got != "3.75" {
		t.Errorf("Round trip changed the value: %s", got)
	}
}

func TestByChainID(t *testing.T) {
	network, ok := ByChainID(33139)
	if !ok {
		t.Fatal("Expected ApeChain to be registered")
	}
	if network.NativeSymbol != "APE" || network.NativeDecimals != 18 {
		t.Errorf("Unexpected network: %+v", network)
	}

	if _, ok := ByChainID(1); ok {
		t.Error("Expected unknown chain id to miss")
	}
}
