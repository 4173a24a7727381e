package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"plain int", 10, "10", true},
		{"plain float", 12.5, "12.5", true},
		{"currency string", "$1,234.50", "1234.50", true},
		{"percent string", "12.5%", "12.5", true},
		{"negative percent", "-3.2%", "-3.2", true},
		{"euro currency", "€99,000.25", "99000.25", true},
		{"whitespace only", " ", "", false},
		{"empty string", "", "", false},
		{"garbage", "abc", "", false},
		{"nil", nil, "", false},
		{"bool unsupported", true, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDecimal(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				want, err := decimal.NewFromString(tc.want)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "got %s want %s", got, want)
			}
		})
	}
}

func TestPercentToRatio(t *testing.T) {
	d, ok := ParseDecimal("1%")
	require.True(t, ok)
	assert.True(t, PercentToRatio(d).Equal(decimal.RequireFromString("0.01")))

	d, ok = ParseDecimal("250%")
	require.True(t, ok)
	assert.True(t, PercentToRatio(d).Equal(decimal.RequireFromString("2.5")))
}

func TestFormatEpochDate(t *testing.T) {
	assert.Equal(t, "2021-01-01", FormatEpochDate(1609459200))
	assert.Equal(t, "2021-01-02", FormatEpochDate(1609545600.0))
	assert.Equal(t, "2021-01-01", FormatEpochDate("1609459200"))
	// 无法整数化的输入原样透传
	assert.Equal(t, "not-a-number", FormatEpochDate("not-a-number"))
}

func TestFormatISODate(t *testing.T) {
	assert.Equal(t, "2021-01-01", FormatISODate("2021-01-01T00:00:00Z"))
	assert.Equal(t, "2021-01-05", FormatISODate("2021-01-05T12:30:00+02:00"))
	assert.Equal(t, "2021-01-03", FormatISODate("2021-01-03"))
	assert.Equal(t, "garbage", FormatISODate("garbage"))
	assert.Equal(t, "", FormatISODate(""))
}
