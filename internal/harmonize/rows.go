package harmonize

import (
	"regexp"
	"strings"
)

// Candidate is one table row lifted into posting shape, before the
// harmonization pass normalizes dates, links and categories.
type Candidate struct {
	Employer       string
	Role           string
	Location       string
	CompanyLink    string
	AggregatorLink string
	DatePosted     string
	Notes          string
	Category       string
	Flagged        bool
	Internship     bool
}

// prevRow threads "ditto" state between consecutive rows of one table.
type prevRow struct {
	employer string
	flagged  bool
}

// continuationMark means "same employer as the previous row".
const continuationMark = "↳"

// simplifyToken identifies the simplify.jobs aggregator whose links these
// boards habitually pair with the real application link.
const simplifyToken = "simplify"

var (
	linkMarkerRe = regexp.MustCompile(`\[\[LINK:([^\]]+)\]\]`)
	fireTokenRe  = regexp.MustCompile(`(?i):fire:|alt="fire"|🔥`)
)

// ExtractTableRows walks a table strictly in document order, threading the
// ditto state forward, and returns the accepted candidates plus the number
// of rows rejected along the way.
func ExtractTableRows(t ParsedTable) ([]Candidate, int) {
	m := MapColumns(t.Headers)

	var out []Candidate
	var prev *prevRow
	skipped := 0

	for _, row := range t.Rows {
		c, ok := ExtractRow(row, m, prev)
		if !ok {
			skipped++
			continue
		}
		c.Category = t.Category
		out = append(out, c)
		prev = &prevRow{employer: c.Employer, flagged: c.Flagged}
	}
	return out, skipped
}

// ExtractRow converts one table row into a candidate record. A false return
// means the row is unusable (missing employer/role, duplicated header row,
// ditto row with nothing to inherit); that is expected input, not an error.
func ExtractRow(cells []string, m ColumnMapping, prev *prevRow) (Candidate, bool) {
	if m.Employer < 0 || m.Role < 0 || m.Employer >= len(cells) || m.Role >= len(cells) {
		return Candidate{}, false
	}

	rawEmployer := cells[m.Employer]
	role := stripLinkMarkers(cells[m.Role])

	flagged := fireTokenRe.MatchString(rawEmployer)
	employer := stripLinkMarkers(fireTokenRe.ReplaceAllString(rawEmployer, ""))

	if strings.HasPrefix(employer, continuationMark) {
		// ditto row: inherit the previous accepted row's employer and flag.
		// As the first row of a table there is nothing to inherit; reject.
		if prev == nil || prev.employer == "" {
			return Candidate{}, false
		}
		employer = prev.employer
		flagged = prev.flagged
	}

	if employer == "" || role == "" {
		return Candidate{}, false
	}
	// hand-edited boards repeat the header row mid-table
	if strings.EqualFold(employer, "company") || strings.EqualFold(role, "role") {
		return Candidate{}, false
	}

	c := Candidate{
		Employer:   employer,
		Role:       role,
		Flagged:    flagged,
		Internship: strings.Contains(strings.ToLower(role), "intern"),
	}

	if m.Link >= 0 && m.Link < len(cells) {
		c.CompanyLink, c.AggregatorLink = splitLinks(extractLinks(cells[m.Link]))
	}
	if c.CompanyLink == "" {
		// fall back to whatever the employer cell itself links to
		fallback, _ := splitLinks(extractLinks(rawEmployer))
		c.CompanyLink = fallback
	}

	if m.Location >= 0 && m.Location < len(cells) {
		c.Location = stripLinkMarkers(cells[m.Location])
	}
	if m.Date >= 0 && m.Date < len(cells) {
		c.DatePosted = stripLinkMarkers(cells[m.Date])
	}
	if m.Notes >= 0 && m.Notes < len(cells) {
		c.Notes = stripLinkMarkers(cells[m.Notes])
	}

	return c, true
}

func extractLinks(cell string) []string {
	ms := linkMarkerRe.FindAllStringSubmatch(cell, -1)
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		if u := strings.TrimSpace(m[1]); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// splitLinks picks the first non-aggregator URL as the company link and
// captures a simplify link separately when one rides along.
func splitLinks(urls []string) (company, aggregator string) {
	for _, u := range urls {
		if strings.Contains(strings.ToLower(u), simplifyToken) {
			if aggregator == "" {
				aggregator = u
			}
			continue
		}
		if company == "" {
			company = u
		}
	}
	return company, aggregator
}

func stripLinkMarkers(s string) string {
	return strings.TrimSpace(linkMarkerRe.ReplaceAllString(s, " "))
}
