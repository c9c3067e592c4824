package harmonize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTableSegRe = regexp.MustCompile(`(?is)<table[^>]*>.*?</table>`)
	htmlHeadingRe  = regexp.MustCompile(`(?is)<h([1-4])[^>]*>(.*?)</h[1-4]\s*>`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
)

// parseHTMLSegments locates each <table> element in the raw text and parses
// it independently. Working on regex-located segments keeps byte offsets
// available, which both document-order merging and heading lookup need.
func parseHTMLSegments(text string) []tableSpan {
	var out []tableSpan
	for _, loc := range htmlTableSegRe.FindAllStringIndex(text, -1) {
		t, ok := parseHTMLTable(text[loc[0]:loc[1]])
		if !ok {
			continue
		}
		t.Category = orDefaultCategory(precedingHeading(text[:loc[0]]))
		out = append(out, tableSpan{table: t, offset: loc[0]})
	}
	return out
}

// blankHTMLSegments overwrites every <table> segment with spaces so a later
// markdown scan of the same text sees nothing inside them. Newlines are kept
// so line offsets stay comparable.
func blankHTMLSegments(text string) string {
	b := []byte(text)
	for _, loc := range htmlTableSegRe.FindAllStringIndex(text, -1) {
		for i := loc[0]; i < loc[1]; i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}

// precedingHeading finds the closest heading above a table: either an
// <h1>..<h4> or, in mixed documents, a markdown heading line.
func precedingHeading(before string) string {
	best := -1
	heading := ""

	if locs := htmlHeadingRe.FindAllStringSubmatchIndex(before, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		best = last[0]
		heading = collapseHTMLText(before[last[4]:last[5]])
	}

	pos := 0
	for _, line := range strings.Split(before, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil && pos > best {
			best = pos
			heading = stripLinkMarkers(cleanInline(m[2]))
		}
		pos += len(line) + 1
	}
	return heading
}

func parseHTMLTable(seg string) (ParsedTable, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(seg))
	if err != nil {
		return ParsedTable{}, false
	}

	rows := doc.Find("tr")
	if rows.Length() == 0 {
		return ParsedTable{}, false
	}

	// header row: first <tr> that carries <th> cells, else the first <tr>
	headerIdx := -1
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if tr.Find("th").Length() > 0 {
			headerIdx = i
			return false
		}
		return true
	})
	if headerIdx == -1 {
		headerIdx = 0
	}

	t := ParsedTable{Format: FormatHTML}
	rows.Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, htmlCellText(td))
		})
		if i == headerIdx {
			t.Headers = cells
			return
		}
		if len(cells) > 0 {
			t.Rows = append(t.Rows, cells)
		}
	})

	return t, len(t.Headers) > 0
}

// htmlCellText renders a cell as whitespace-collapsed inner text with one
// [[LINK:url]] marker appended per anchor. Image alt text is folded back in
// as a :token: so glyph conventions (alt="fire") survive the flattening.
func htmlCellText(td *goquery.Selection) string {
	var b strings.Builder
	b.WriteString(td.Text())

	td.Find("img[alt]").Each(func(_ int, img *goquery.Selection) {
		alt, _ := img.Attr("alt")
		alt = strings.Trim(strings.TrimSpace(alt), ":")
		if alt != "" {
			b.WriteString(" :" + alt + ":")
		}
	})
	td.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href != "" {
			b.WriteString(" [[LINK:" + href + "]]")
		}
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

func collapseHTMLText(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
