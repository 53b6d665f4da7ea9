package utils

import (
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func BigIntToFloat(num *big.Int, tokenDecimal int64) float64 {
	v, _ := decimal.NewFromString(num.String())
	decimalBase := decimal.NewFromFloat(math.Pow(10, float64(tokenDecimal)))
	return v.Div(decimalBase).Round(6).InexactFloat64()
}

// ParseUnits scales a human readable amount into its integer representation,
// e.g. ParseUnits("100000", 6) == 100000000000. Only plain decimal notation is
// accepted, "1e5" is rejected.
func ParseUnits(value string, decimals int32) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if strings.ContainsAny(value, "eE") {
		return nil, errors.Errorf("invalid amount %q: exponent notation is not supported", value)
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", value)
	}
	scaled := v.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, errors.Errorf("fractional component of %q exceeds %d decimals", value, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatUnits is the inverse of ParseUnits. The result always carries a
// fractional part so whole amounts print as "100000.0".
func FormatUnits(num *big.Int, decimals int32) string {
	if num == nil {
		return "0.0"
	}
	s := decimal.NewFromBigInt(num, -decimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
