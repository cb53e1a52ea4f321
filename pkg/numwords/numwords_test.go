package numwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "Zero"},
		{1, "One"},
		{10, "Ten"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{21, "Twenty One"},
		{100, "One Hundred"},
		{105, "One Hundred Five"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{2750, "Two Thousand Seven Hundred Fifty"},
		{1000000, "One Million"},
		{1000001, "One Million One"},
		{2205, "Two Thousand Two Hundred Five"},
		{123456789, "One Hundred Twenty Three Million Four Hundred Fifty Six Thousand Seven Hundred Eighty Nine"},
	}

	for _, tt := range tests {
		got, err := ToWords(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ToWords(%d)", tt.n)
	}
}

func TestToWordsNegative(t *testing.T) {
	_, err := ToWords(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestAmount(t *testing.T) {
	got, err := Amount(2205.00, "Dirhams", "Fils")
	require.NoError(t, err)
	assert.Equal(t, "Two Thousand Two Hundred Five Dirhams And 00 Fils Only", got)

	got, err = Amount(1234.75, "Dirhams", "Fils")
	require.NoError(t, err)
	assert.Equal(t, "One Thousand Two Hundred Thirty Four Dirhams And 75 Fils Only", got)

	got, err = Amount(0, "Dirhams", "Fils")
	require.NoError(t, err)
	assert.Equal(t, "Zero Dirhams And 00 Fils Only", got)

	// Fractional carry: 99.999 rounds up into the next major unit.
	got, err = Amount(99.999, "Dirhams", "Fils")
	require.NoError(t, err)
	assert.Equal(t, "One Hundred Dirhams And 00 Fils Only", got)

	_, err = Amount(-0.01, "Dirhams", "Fils")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}
