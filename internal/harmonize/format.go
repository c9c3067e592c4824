package harmonize

import (
	"regexp"
	"strings"
)

// Format classifies what kind of table markup a source document carries.
type Format int

const (
	FormatUnknown Format = iota
	FormatMarkdown
	FormatHTML
	FormatMixed
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	case FormatMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

var htmlTableRe = regexp.MustCompile(`(?i)<table[\s>]`)

// DetectFormat inspects raw document text and classifies its table markup.
// Pure function; always returns a value.
func DetectFormat(text string) Format {
	html := htmlTableRe.MatchString(text)
	md := hasMarkdownTable(text)
	switch {
	case html && md:
		return FormatMixed
	case html:
		return FormatHTML
	case md:
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

func hasMarkdownTable(text string) bool {
	lines := strings.Split(text, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if strings.Contains(lines[i], "|") && isSeparatorLine(lines[i+1]) {
			return true
		}
	}
	return false
}

// isSeparatorLine reports whether a line is a markdown header separator:
// cells made only of dashes, colons and whitespace, any dash count.
func isSeparatorLine(line string) bool {
	if !strings.Contains(line, "-") || !strings.Contains(line, "|") {
		return false
	}
	for _, r := range line {
		switch r {
		case '|', '-', ':', ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}
