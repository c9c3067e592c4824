package harmonize

import (
	"regexp"
	"sort"
	"strings"
)

// ParsedTable is one logical table lifted out of a source document.
// Rows may be ragged relative to Headers; consumers index defensively.
type ParsedTable struct {
	Headers  []string
	Rows     [][]string
	Format   Format
	Category string // nearest preceding section heading
}

// DefaultCategory labels tables that appear under no heading at all.
const DefaultCategory = "Jobs"

var (
	inlineLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)[^)]*\)`)
	boldRe       = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	headingRe    = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*)$`)
)

// tableSpan pairs a parsed table with its byte offset in the source so
// markdown and HTML tables from a mixed document merge in document order.
type tableSpan struct {
	table  ParsedTable
	offset int
}

// ParseTables extracts every table in the document, in document order.
// Unparseable regions are skipped, never fatal.
func ParseTables(text string) []ParsedTable {
	var spans []tableSpan
	switch DetectFormat(text) {
	case FormatMarkdown:
		spans = parseMarkdownTables(text)
	case FormatHTML:
		spans = parseHTMLSegments(text)
	case FormatMixed:
		// parse HTML tables in place, then blank them out so the markdown
		// scan cannot trip on pipe characters inside table cells
		spans = parseHTMLSegments(text)
		spans = append(spans, parseMarkdownTables(blankHTMLSegments(text))...)
		sort.SliceStable(spans, func(i, j int) bool { return spans[i].offset < spans[j].offset })
	default:
		return nil
	}

	out := make([]ParsedTable, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.table)
	}
	return out
}

func parseMarkdownTables(text string) []tableSpan {
	lines := strings.Split(text, "\n")

	// byte offset of each line start, for document-order merging
	offsets := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		offsets[i] = pos
		pos += len(l) + 1
	}

	var out []tableSpan
	category := ""

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := headingRe.FindStringSubmatch(line); m != nil {
			category = stripLinkMarkers(cleanInline(m[2]))
			continue
		}
		if !strings.Contains(line, "|") || i+1 >= len(lines) || !isSeparatorLine(lines[i+1]) {
			continue
		}

		t := ParsedTable{
			Headers:  splitMarkdownRow(line),
			Format:   FormatMarkdown,
			Category: orDefaultCategory(category),
		}

		j := i + 2
		for ; j < len(lines); j++ {
			row := lines[j]
			if strings.TrimSpace(row) == "" || !strings.Contains(row, "|") {
				break
			}
			t.Rows = append(t.Rows, splitMarkdownRow(row))
		}

		out = append(out, tableSpan{table: t, offset: offsets[i]})
		i = j - 1
	}
	return out
}

// splitMarkdownRow splits a pipe row into trimmed, cleaned cells. Only the
// empty edge cells produced by leading/trailing pipes are dropped; interior
// empty cells are real (placeholder link columns, for one).
func splitMarkdownRow(line string) []string {
	cells := splitUnescapedPipes(line)
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, cleanInline(c))
	}
	return out
}

func splitUnescapedPipes(line string) []string {
	var cells []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			if r != '|' {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	cells = append(cells, b.String())
	return cells
}

// cleanInline rewrites [text](url) as "text [[LINK:url]]" and strips bold
// markers. The visible text stays available for display while the URL
// survives for the link stages.
func cleanInline(s string) string {
	s = inlineLinkRe.ReplaceAllString(s, "$1 [[LINK:$2]]")
	s = boldRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func orDefaultCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory
	}
	return category
}
