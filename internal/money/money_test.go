package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr error
	}{
		{name: "whole number", in: "500", want: 50000},
		{name: "two decimals", in: "500.25", want: 50025},
		{name: "one decimal", in: "0.5", want: 50},
		{name: "zero", in: "0", want: 0},
		{name: "large", in: "10000.00", want: 1000000},
		{name: "trailing zeros beyond exponent", in: "1.2300", want: 123},
		{name: "too precise", in: "10.005", wantErr: ErrTooPrecise},
		{name: "negative", in: "-1.00", wantErr: ErrNegativeAmount},
		{name: "garbage", in: "ten", wantErr: ErrMalformedAmount},
		{name: "empty", in: "", wantErr: ErrMalformedAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "500.00", Format(50000))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "12345.67", Format(1234567))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, minor := range []int64{0, 1, 99, 100, 50000, 1000000} {
		got, err := Parse(Format(minor))
		require.NoError(t, err)
		assert.Equal(t, minor, got)
	}
}

func TestFromFloat(t *testing.T) {
	got, err := FromFloat(500.25)
	require.NoError(t, err)
	assert.Equal(t, int64(50025), got)

	_, err = FromFloat(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}
