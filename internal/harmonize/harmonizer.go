package harmonize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobradar-engine/internal/domain"
)

// PageMeta carries source-page context into a harmonization run.
type PageMeta struct {
	Title string
	URL   string
}

// Result is one harmonization run's output: postings in document order plus
// advisory warnings. Warnings never abort a batch.
type Result struct {
	Postings []domain.Posting
	Warnings []string
}

// Harmonizer reconciles dates, links, categories and countries on extracted
// candidates. Immutable after construction; safe for concurrent use.
type Harmonizer struct {
	Dates DateNormalizer

	// Extra aggregator domains from config, checked before the built-ins.
	Extra []Aggregator

	// KeepUnlinked emits rows with no discoverable link. The store will
	// refuse them, but the UI can still show them.
	KeepUnlinked bool
}

// ErrEmptyDocument marks a contract violation: callers must not hand the
// pipeline an empty document.
var ErrEmptyDocument = errors.New("harmonize: empty document")

// Purely structural section labels that say nothing about the role.
var genericCategoryRe = regexp.MustCompile(`(?i)^(daily( job)? list|new (jobs|grads?|grad positions)|jobs?|job board|listings?|openings?|positions?|roles?|back to top|⬆️ back to top|other)$`)

func genericCategory(s string) bool {
	return genericCategoryRe.MatchString(strings.TrimSpace(s))
}

// HarmonizeDocument runs the whole pipeline: detect, parse, map, extract,
// then harmonize. Tables are independent of each other and run in parallel;
// rows inside a table stay strictly in document order because ditto rows
// inherit from their predecessor.
func (h Harmonizer) HarmonizeDocument(text string, meta PageMeta) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyDocument
	}

	tables := ParseTables(text)
	if len(tables) == 0 {
		return Result{Warnings: []string{"no tables detected in document"}}, nil
	}

	results := make([]Result, len(tables))
	rejected := make([]int, len(tables))

	var g errgroup.Group
	for i, t := range tables {
		i, t := i, t
		g.Go(func() error {
			cands, skipped := ExtractTableRows(t)
			results[i] = h.Harmonize(cands, meta)
			rejected[i] = skipped
			return nil
		})
	}
	_ = g.Wait()

	var out Result
	totalRejected := 0
	for i := range results {
		out.Postings = append(out.Postings, results[i].Postings...)
		out.Warnings = append(out.Warnings, results[i].Warnings...)
		totalRejected += rejected[i]
	}
	if totalRejected > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d rows rejected during extraction", totalRejected))
	}
	return out, nil
}

// Harmonize runs the per-record normalization pass over one batch of
// candidates. Feeding already-normalized records through again is a no-op.
func (h Harmonizer) Harmonize(cands []Candidate, _ PageMeta) Result {
	var res Result
	skippedNoLink := 0

	for _, c := range cands {
		p := domain.Posting{
			Employer:       strings.TrimSpace(c.Employer),
			Role:           strings.TrimSpace(c.Role),
			Location:       strings.TrimSpace(c.Location),
			Category:       c.Category,
			CompanyLink:    c.CompanyLink,
			AggregatorLink: c.AggregatorLink,
			DatePosted:     strings.TrimSpace(c.DatePosted),
			Notes:          strings.TrimSpace(c.Notes),
			Flagged:        c.Flagged,
			Internship:     c.Internship,
		}

		if iso, ok := h.Dates.Normalize(p.DatePosted); ok {
			p.DatePosted = iso
		}

		h.reclassifyLinks(&p)
		p.Country = InferCountry(p.Location)
		if genericCategory(p.Category) {
			p.Category = InferCategory(p.Role)
		}

		if p.Link() == "" && !h.KeepUnlinked {
			skippedNoLink++
			continue
		}
		res.Postings = append(res.Postings, p)
	}

	if skippedNoLink > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d rows skipped: no identifying link", skippedNoLink))
	}
	return res
}

func (h Harmonizer) classify(raw string) (LinkKind, string) {
	return classifyAgainst(raw, h.Extra)
}

// reclassifyLinks re-checks both links. A company link that turns out to be
// an aggregator moves over, never the other way; a URL is never both.
func (h Harmonizer) reclassifyLinks(p *domain.Posting) {
	if p.AggregatorLink != "" && p.AggregatorName == "" {
		if kind, name := h.classify(p.AggregatorLink); kind == LinkAggregator {
			p.AggregatorName = name
		} else {
			p.AggregatorName = DomainName(p.AggregatorLink)
		}
	}
	if p.CompanyLink == "" {
		return
	}
	if kind, name := h.classify(p.CompanyLink); kind == LinkAggregator {
		if p.AggregatorLink == "" {
			p.AggregatorLink = p.CompanyLink
			p.AggregatorName = name
		}
		p.CompanyLink = ""
	}
}
