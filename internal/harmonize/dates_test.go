package harmonize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// reference date used throughout: Sunday 2024-12-29
var ref = time.Date(2024, 12, 29, 15, 4, 5, 0, time.UTC)

func normalize(t *testing.T, in string) (string, bool) {
	t.Helper()
	return NewDateNormalizer(ref).Normalize(in)
}

func TestNormalize_RelativeKeywords(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"today":       "2024-12-29",
		"Today":       "2024-12-29",
		"just now":    "2024-12-29",
		"yesterday":   "2024-12-28",
		"2 days ago":  "2024-12-27",
		"1 day ago":   "2024-12-28",
		"1 week ago":  "2024-12-22",
		"3 weeks ago": "2024-12-08",
		"5 hours ago": "2024-12-29",
		"1 month ago": "2024-11-29",
	}
	for in, want := range cases {
		got, ok := normalize(t, in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestNormalize_Shorthand(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"0d":   "2024-12-29",
		"2d":   "2024-12-27",
		"15D":  "2024-12-14",
		"1w":   "2024-12-22",
		"2MO":  "2024-10-29",
		"1mo":  "2024-11-29",
		"2m":   "2024-10-29",
		"1y":   "2023-12-29",
		"1yr":  "2023-12-29",
		"12h":  "2024-12-29",
		"3 d":  "2024-12-26",
	}
	for in, want := range cases {
		got, ok := normalize(t, in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestNormalize_FixedFormats(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Dec 17":        "2024-12-17",
		"December 17":   "2024-12-17",
		"Dec 17, 2023":  "2023-12-17",
		"12/05":         "2024-12-05",
		"12/05/24":      "2024-12-05",
		"12/05/2024":    "2024-12-05",
		"2024-12-01":    "2024-12-01",
	}
	for in, want := range cases {
		got, ok := normalize(t, in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestNormalize_YearRollover(t *testing.T) {
	t.Parallel()

	// early January: a "Dec 28" entry belongs to the year that just ended
	jan := NewDateNormalizer(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	got, ok := jan.Normalize("Dec 28")
	assert.True(t, ok)
	assert.Equal(t, "2024-12-28", got)

	// a date within the next 30 days keeps the reference year
	got, ok = jan.Normalize("Jan 20")
	assert.True(t, ok)
	assert.Equal(t, "2025-01-20", got)
}

func TestNormalize_NoResult(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "not a date", "soon", "Q3 2024"} {
		_, ok := normalize(t, in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestNormalize_ZeroReferenceDefaultsToNow(t *testing.T) {
	t.Parallel()

	n := NewDateNormalizer(time.Time{})
	got, ok := n.Normalize("today")
	assert.True(t, ok)
	assert.Equal(t, time.Now().Format("2006-01-02"), got)
}
