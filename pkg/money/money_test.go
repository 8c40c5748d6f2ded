package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "KES 0.00"},
		{5, "KES 0.05"},
		{123450, "KES 1,234.50"},
		{100000000, "KES 1,000,000.00"},
		{-2550, "KES -25.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.cents))
	}
}

func TestConversions(t *testing.T) {
	assert.Equal(t, int64(1999), FromDecimal(19.99))
	assert.Equal(t, int64(1000), FromDecimal(10))
	assert.InDelta(t, 12.34, ToDecimal(1234), 1e-9)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(1000), Percent(10000, 10))
	assert.Equal(t, int64(1500), Percent(10000, 15))
	// 333 * 12.5% = 41.625 rounds half away from zero
	assert.Equal(t, int64(42), Percent(333, 12.5))
}
