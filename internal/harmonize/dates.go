package harmonize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// DateNormalizer rewrites human date expressions as ISO calendar dates
// relative to a fixed reference time. Immutable after construction; share
// one instance across goroutines freely.
type DateNormalizer struct {
	ref time.Time
}

// NewDateNormalizer pins the reference date. A zero ref means "now".
func NewDateNormalizer(ref time.Time) DateNormalizer {
	if ref.IsZero() {
		ref = time.Now()
	}
	return DateNormalizer{ref: ref}
}

var (
	agoRe       = regexp.MustCompile(`^(\d+)\s*(hour|hr|day|week|month|year)s?\s+ago$`)
	shorthandRe = regexp.MustCompile(`^(\d+)\s*(mo|yr|[dwmyh])$`)
)

// year-carrying layouts, tried in order
var datedLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/06",
	"01/02/2006",
	isoDate,
}

// year-less layouts get the rollover rule: these boards stay current, so a
// date that lands well in the future really belongs to the previous year.
var yearlessLayouts = []string{
	"Jan 2",
	"January 2",
	"01/02",
}

// Normalize converts text to a yyyy-MM-dd string. The second return is false
// when the expression is empty or unrecognized; callers keep the original
// text in that case.
func (n DateNormalizer) Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	low := strings.ToLower(s)

	switch low {
	case "today", "just now":
		return n.ref.Format(isoDate), true
	case "yesterday":
		return n.ref.AddDate(0, 0, -1).Format(isoDate), true
	}

	if m := agoRe.FindStringSubmatch(low); m != nil {
		qty, _ := strconv.Atoi(m[1])
		return n.minus(m[2], qty), true
	}
	if m := shorthandRe.FindStringSubmatch(low); m != nil {
		qty, _ := strconv.Atoi(m[1])
		return n.minus(m[2], qty), true
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = time.Date(n.ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if t.After(n.ref.AddDate(0, 0, 30)) {
			t = t.AddDate(-1, 0, 0)
		}
		return t.Format(isoDate), true
	}
	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}

	return "", false
}

func (n DateNormalizer) minus(unit string, qty int) string {
	switch unit {
	case "hour", "hr", "h":
		// hours round down to today
		return n.ref.Format(isoDate)
	case "day", "d":
		return n.ref.AddDate(0, 0, -qty).Format(isoDate)
	case "week", "w":
		return n.ref.AddDate(0, 0, -7*qty).Format(isoDate)
	case "month", "mo", "m":
		return n.ref.AddDate(0, -qty, 0).Format(isoDate)
	case "year", "yr", "y":
		return n.ref.AddDate(-qty, 0, 0).Format(isoDate)
	}
	return n.ref.Format(isoDate)
}
