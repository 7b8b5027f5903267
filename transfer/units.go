package transfer

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// EtherDecimals is the number of decimals between ether and wei.
const EtherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)

var errInvalidAmount = errors.New("invalid ether amount")

// ParseEther converts a decimal ether string to wei without rounding.
// Only plain decimal notation is accepted; signs, exponents and more than
// 18 fractional digits are rejected.
func ParseEther(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" || s == "." || strings.Count(s, ".") > 1 || strings.Trim(s, "0123456789.") != "" {
		return nil, fmt.Errorf("%w: %q", errInvalidAmount, amount)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errInvalidAmount, amount)
	}

	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", errInvalidAmount, amount, EtherDecimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FormatEther renders wei as a decimal ether string with trailing zeros
// trimmed, e.g. 1500000000000000000 -> "1.5".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	neg := wei.Sign() < 0
	q, r := new(big.Int).QuoRem(new(big.Int).Abs(wei), weiPerEther, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		frac := fmt.Sprintf("%0*s", EtherDecimals, r.String())
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

// WeiToEther divides wei by 10^18 for display.
func WeiToEther(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(wei, weiPerEther).Float64()
	return f
}
