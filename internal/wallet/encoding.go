package wallet

import (
	"fmt"
	"math/big"
	"strings"
)

// balanceOfSelector is the first four bytes of keccak256("balanceOf(address)").
const balanceOfSelector = "0x70a08231"

// balanceOfData builds the eth_call data for an ERC-20 balanceOf query:
// selector followed by the address left-padded to 32 bytes.
func balanceOfData(address string) string {
	addr := strings.TrimPrefix(strings.ToLower(address), "0x")
	return balanceOfSelector + strings.Repeat("0", 64-len(addr)) + addr
}

// weiToDecimal converts a hex-encoded wei quantity to a decimal string in
// whole-token units with four fractional digits.
func weiToDecimal(hexWei string) (string, error) {
	s := strings.TrimPrefix(strings.ToLower(hexWei), "0x")
	if s == "" {
		return "0.0000", nil
	}
	wei, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return "", fmt.Errorf("bad hex quantity %q", hexWei)
	}

	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	return f.Text('f', 4), nil
}
