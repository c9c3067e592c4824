package harmonize

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LinkKind says whether a URL points at a third-party intermediary or at an
// employer's own page.
type LinkKind int

const (
	LinkCompany LinkKind = iota
	LinkAggregator
)

// Aggregator is one known third-party domain and its display name. Config
// can supply extra entries on top of the built-in table.
type Aggregator struct {
	Domain string
	Name   string
}

// Known job-board aggregators and ATS vendors. Ordered: the first domain
// substring found in the URL wins.
var aggregators = []Aggregator{
	{"simplify", "Simplify"},
	{"linkedin.com", "LinkedIn"},
	{"indeed.com", "Indeed"},
	{"glassdoor.com", "Glassdoor"},
	{"ziprecruiter.com", "ZipRecruiter"},
	{"wellfound.com", "Wellfound"},
	{"angel.co", "Wellfound"},
	{"joinhandshake.com", "Handshake"},
	{"monster.com", "Monster"},
	{"dice.com", "Dice"},
	{"greenhouse.io", "Greenhouse"},
	{"lever.co", "Lever"},
	{"myworkdayjobs.com", "Workday"},
	{"smartrecruiters.com", "SmartRecruiters"},
	{"ashbyhq.com", "Ashby"},
	{"jobvite.com", "Jobvite"},
	{"icims.com", "iCIMS"},
	{"taleo.net", "Taleo"},
	{"bamboohr.com", "BambooHR"},
	{"workable.com", "Workable"},
	{"rippling.com", "Rippling"},
}

// ClassifyLink decides whether a URL is a known aggregator and, if so, gives
// its display name. Total function: malformed input classifies as company.
func ClassifyLink(raw string) (LinkKind, string) {
	return classifyAgainst(raw, nil)
}

func classifyAgainst(raw string, extra []Aggregator) (LinkKind, string) {
	low := strings.ToLower(raw)
	for _, a := range extra {
		if a.Domain != "" && strings.Contains(low, strings.ToLower(a.Domain)) {
			return LinkAggregator, a.Name
		}
	}
	for _, a := range aggregators {
		if strings.Contains(low, a.Domain) {
			return LinkAggregator, a.Name
		}
	}
	return LinkCompany, ""
}

var titleCaser = cases.Title(language.English)

// DomainName extracts the second-level label of a URL's host, title-cased.
// Display fallback for company links with no better name; "" when the URL
// has no usable host.
func DomainName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	parts := strings.Split(host, ".")
	label := parts[0]
	if len(parts) >= 2 {
		label = parts[len(parts)-2]
	}
	if label == "" {
		return ""
	}
	return titleCaser.String(label)
}
