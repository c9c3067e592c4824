package harmonize

import "strings"

// ColumnMapping holds the header index for each semantic field, -1 when the
// header row has no matching column. Built once per table; never mutated.
type ColumnMapping struct {
	Employer int
	Role     int
	Link     int
	Date     int
	Notes    int
	Location int
}

// Field keyword lists, in evaluation order. The order is behaviorally
// significant: employer and role keywords false-positive the least, so they
// claim their columns before the looser fields get a chance.
var columnFields = []struct {
	field string
	keys  []string
}{
	{"employer", []string{"company", "employer", "organization", "org"}},
	{"role", []string{"role", "position", "title", "job"}},
	{"link", []string{"apply", "link", "application", "url"}},
	{"date", []string{"date", "posted", "added", "age", "when"}},
	{"notes", []string{"note", "info", "requirement", "sponsor", "status"}},
	{"location", []string{"location", "city", "office", "where", "place"}},
}

// MapColumns fuzzy-matches semantic fields to header indexes. For each field
// the first header containing any of its keywords wins; a header can satisfy
// at most one field.
func MapColumns(headers []string) ColumnMapping {
	m := ColumnMapping{Employer: -1, Role: -1, Link: -1, Date: -1, Notes: -1, Location: -1}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}

	used := make(map[int]bool, len(headers))
	for _, f := range columnFields {
		idx := firstMatch(lowered, used, f.keys)
		if idx == -1 {
			continue
		}
		used[idx] = true
		switch f.field {
		case "employer":
			m.Employer = idx
		case "role":
			m.Role = idx
		case "link":
			m.Link = idx
		case "date":
			m.Date = idx
		case "notes":
			m.Notes = idx
		case "location":
			m.Location = idx
		}
	}
	return m
}

func firstMatch(headers []string, used map[int]bool, keys []string) int {
	for i, h := range headers {
		if used[i] {
			continue
		}
		for _, k := range keys {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}
