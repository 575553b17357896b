// Package decimals converts raw ledger amounts into human readable decimal values.
package decimals

import (
	"math"
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

const (
	DefaultDivPrecision = 36
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal shifts a raw amount by decimals places. Unsupported value types convert to zero.
func ToDecimal[T constraints.Integer](ivalue any, decimals T) decimal.Decimal {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		value.SetString(v, 10)
	case *big.Int:
		value = v
	case uint64:
		value.SetUint64(v)
	case uint32:
		value.SetUint64(uint64(v))
	case uint8:
		value.SetUint64(uint64(v))
	case int64:
		value.SetInt64(v)
	case int:
		value.SetInt64(int64(v))
	case uint128.Uint128:
		value = v.Big()
	}

	switch {
	case int64(decimals) > math.MaxInt32:
		logger.Panic("ToDecimal: decimals is too big, should be equal less than 2^31-1", slogx.Any("decimals", decimals))
	case int64(decimals) < math.MinInt32+1:
		logger.Panic("ToDecimal: decimals is too small, should be greater than -2^31", slogx.Any("decimals", decimals))
	}

	return decimal.NewFromBigInt(value, -int32(decimals))
}

// ToUint128 converts a display amount back into raw ledger units.
// The amount must be non-negative, have at most decimals fractional digits and fit in 128 bits.
func ToUint128(amount decimal.Decimal, decimals uint8) (uint128.Uint128, error) {
	if amount.IsNegative() {
		return uint128.Zero, errors.Wrap(errs.InvalidArgument, "amount must not be negative")
	}
	raw := amount.Mul(PowerOfTen(decimals))
	if !raw.Equal(raw.Truncate(0)) {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "amount has more than %d fractional digits", decimals)
	}
	result, err := uint128.FromBig(raw.BigInt())
	if err != nil {
		return uint128.Zero, errors.Wrap(errs.InvalidArgument, "amount overflows 128 bits")
	}
	return result, nil
}
