package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"iso", "2024-03-15", "2024-03-15"},
		{"day first slash", "15/03/2024", "2024-03-15"},
		{"month first slash", "03/25/2024", "2024-03-25"},
		{"day first dash", "15-03-2024", "2024-03-15"},
		{"iso slash", "2024/03/15", "2024-03-15"},
		{"dotted", "15.03.2024", "2024-03-15"},
		{"iso with time", "2024-03-15 10:30:00", "2024-03-15"},
		{"slash with time", "03/15/2024 10:30", "2024-03-15"},
		{"surrounding spaces", "  2024-03-15  ", "2024-03-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDate(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
		})
	}

	t.Run("garbage returns nil", func(t *testing.T) {
		for _, in := range []string{"", "  ", "not a date", "15/25/2024", "2024-13-40"} {
			assert.Nil(t, ParseDate(in), "input %q", in)
		}
	})

	t.Run("ambiguous day month prefers day first", func(t *testing.T) {
		got := ParseDate("03/04/2024")
		require.NotNil(t, got)
		assert.Equal(t, time.April, got.Month())
		assert.Equal(t, 3, got.Day())
	})
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "1234.50", "1234.5"},
		{"thousands separator", "1,234.50", "1234.5"},
		{"embedded spaces", "1 234.50", "1234.5"},
		{"percent suffix", "16%", "16"},
		{"negative", "-42.75", "-42.75"},
		{"zero", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDecimal(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.String())
		})
	}

	t.Run("garbage returns nil", func(t *testing.T) {
		for _, in := range []string{"", "  ", "abc", "12.3.4", "N/A"} {
			assert.Nil(t, ParseDecimal(in), "input %q", in)
		}
	})
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"plain", "42", 42},
		{"float truncates", "12.0", 12},
		{"float with fraction truncates", "12.9", 12},
		{"negative", "-7", -7},
		{"scientific", "1e3", 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInt(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}

	t.Run("garbage returns nil", func(t *testing.T) {
		for _, in := range []string{"", "  ", "abc", "1,200", "NaN", "nan", "Inf", "+Inf"} {
			assert.Nil(t, ParseInt(in), "input %q", in)
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Run("trims and keeps short values", func(t *testing.T) {
		got := TruncateString("  hello  ", 100)
		require.NotNil(t, got)
		assert.Equal(t, "hello", *got)
	})

	t.Run("cuts to max runes", func(t *testing.T) {
		got := TruncateString("abcdef", 4)
		require.NotNil(t, got)
		assert.Equal(t, "abcd", *got)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		got := TruncateString("héllo wörld", 5)
		require.NotNil(t, got)
		assert.Equal(t, "héllo", *got)
	})

	t.Run("blank returns nil", func(t *testing.T) {
		assert.Nil(t, TruncateString("", 10))
		assert.Nil(t, TruncateString("   ", 10))
	})
}
