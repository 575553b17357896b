package decimals

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPowerOfTen(t *testing.T) {
	testCases := []struct {
		n    int64
		want string
	}{
		{0, "1"},
		{1, "10"},
		{8, "100000000"},
		{-1, "0.1"},
		{-8, "0.00000001"},
		{18, "1" + strings.Repeat("0", 18)},
		{40, "1" + strings.Repeat("0", 40)},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, PowerOfTen(tc.n).String(), "10^%d", tc.n)
	}
}

func TestPowerOfTenTable(t *testing.T) {
	assert.Len(t, powerOfTen, maxPowerOfTen-minPowerOfTen+1)
	for n, p := range powerOfTen {
		assert.True(t, p.Equal(decimal.New(1, int32(n))), "10^%d", n)
	}
	assert.True(t, PowerOfTen(uint8(8)).Equal(PowerOfTen(int64(8))))
}
