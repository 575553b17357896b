package decimals

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	t.Run("overflow_decimals", func(t *testing.T) {
		assert.NotPanics(t, func() { ToDecimal(1, math.MaxInt32-1) }, "in-range decimals shouldn't panic")
		assert.Panics(t, func() { ToDecimal(1, math.MaxInt32+1) }, "out of range decimals should panic")
		assert.Panics(t, func() { ToDecimal(1, math.MinInt32) }, "out of range decimals should panic")
	})
	t.Run("check_supported_types", func(t *testing.T) {
		typesConv := []func(uint64) any{
			func(i uint64) any { return int(i) },
			func(i uint64) any { return int64(i) },
			func(i uint64) any { return uint8(i) },
			func(i uint64) any { return uint32(i) },
			func(i uint64) any { return i },
			func(i uint64) any { return fmt.Sprint(i) },
			func(i uint64) any { return new(big.Int).SetUint64(i) },
			func(i uint64) any { return uint128.From64(i) },
		}
		for _, decimals := range []uint8{0, 2, 8, 18} {
			expected := PowerOfTen(-int64(decimals)).Mul(PowerOfTen(1)).String()
			for _, conv := range typesConv {
				input := conv(10)
				t.Run(fmt.Sprintf("%d_%T", decimals, input), func(t *testing.T) {
					assert.Equal(t, expected, ToDecimal(input, decimals).String())
				})
			}
		}
	})

	testcases := []struct {
		decimals uint8
		value    any
		expected string
	}{
		{0, uint64(math.MaxUint64), "18446744073709551615"},
		{8, uint64(100_000_000), "1"},
		{8, uint64(150_000_000), "1.5"},
		{18, uint128.Max, "340282366920938463463.374607431768211455"},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%d_%v", tc.decimals, tc.value), func(t *testing.T) {
			assert.Equal(t, tc.expected, ToDecimal(tc.value, tc.decimals).String())
		})
	}
}

func TestToUint128(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		actual, err := ToUint128(MustFromString("1.5"), 8)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(150_000_000), actual)

		actual, err = ToUint128(MustFromString("340282366920938463463.374607431768211455"), 18)
		require.NoError(t, err)
		assert.Equal(t, uint128.Max, actual)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, input := range []struct {
			amount   string
			decimals uint8
		}{
			{"-1", 0},
			{"0.001", 2},
			{"340282366920938463463374607431768211456", 0},
		} {
			_, err := ToUint128(MustFromString(input.amount), input.decimals)
			assert.ErrorIs(t, err, errs.InvalidArgument, input.amount)
		}
	})
}
