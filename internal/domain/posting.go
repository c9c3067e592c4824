package domain

import "strings"

// Posting is the canonical, harmonized form of one job listing row.
// Immutable once built; the store assigns the durable numeric ID.
type Posting struct {
	Employer       string `json:"employer"`
	Role           string `json:"role"`
	Location       string `json:"location"`
	Country        string `json:"country"`
	Category       string `json:"category"`
	CompanyLink    string `json:"companyLink,omitempty"`
	AggregatorLink string `json:"aggregatorLink,omitempty"`
	AggregatorName string `json:"aggregatorName,omitempty"`
	DatePosted     string `json:"datePosted,omitempty"` // yyyy-MM-dd when normalization succeeded
	Notes          string `json:"notes,omitempty"`
	Flagged        bool   `json:"flagged"`    // notable employer marked in source markup
	Internship     bool   `json:"internship"` // role text mentions "intern"
}

// Key is the in-batch identity tuple callers deduplicate on.
func (p Posting) Key() string {
	return strings.Join([]string{p.Employer, p.Role, p.Location, p.CompanyLink, p.DatePosted}, "\x1f")
}

// Link is the durable identity the store keys its upsert on: the company
// page when known, else the aggregator page. Empty means the row cannot
// be persisted, only displayed.
func (p Posting) Link() string {
	if p.CompanyLink != "" {
		return p.CompanyLink
	}
	return p.AggregatorLink
}
