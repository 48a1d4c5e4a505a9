package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanizedSprintf(t *testing.T) {
	assert.Equal(t, "1,234,567 cash", HumanizedSprintf("%d cash", 1234567))
	assert.Equal(t, "12,500.50", HumanizedSprintf("%.2f", 12500.5))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "Mon 6 Jan 2025", FormatTime(time.Date(2025, 1, 6, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "<t:0:R>", RelativeTimestamp(time.Unix(0, 0)))
}

func TestParseGroupedFloat(t *testing.T) {
	cases := map[string]float64{
		"1,234.56":  1234.56,
		" $12,000 ": 12000,
		"1_000":     1000,
		"0":         0,
	}

	for in, want := range cases {
		got, err := ParseGroupedFloat(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	for _, bad := range []string{"", "  ", "lots", "1.2.3"} {
		_, err := ParseGroupedFloat(bad)
		assert.Error(t, err, bad)
	}

	n, err := ParseGroupedInt("2,500.9")
	assert.NoError(t, err)
	assert.Equal(t, 2500, n)
}
