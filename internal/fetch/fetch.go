package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent = "jobradar/1.0 (+local)"
	maxBody   = 8 << 20
)

// Document is a fetched job-board page ready for harmonization.
type Document struct {
	URL   string
	Title string
	Body  string
}

type Client struct {
	http    *http.Client
	limiter *HostLimiter
	token   string
}

// New builds a fetch client. token, when non-empty, is sent as a bearer
// credential to GitHub hosts only.
func New(reqPerSec float64, burst int, token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 45 * time.Second},
		limiter: NewHostLimiter(reqPerSec, burst),
		token:   token,
	}
}

// Fetch pulls the document at rawURL, honoring the per-host limit.
func (c *Client) Fetch(ctx context.Context, rawURL string) (Document, error) {
	var doc Document

	u, err := url.Parse(rawURL)
	if err != nil {
		return doc, fmt.Errorf("parse url: %w", err)
	}

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return doc, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return doc, err
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" && isGitHubHost(u.Host) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return doc, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return doc, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return doc, err
	}

	doc.URL = rawURL
	doc.Body = string(body)
	doc.Title = pageTitle(doc.Body)
	return doc, nil
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "raw.githubusercontent.com" ||
		host == "api.github.com" || strings.HasSuffix(host, ".github.com")
}

var mdHeadingRe = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+(.+)$`)

// pageTitle pulls a human name for the document: the HTML <title> when one
// exists, otherwise the first markdown heading.
func pageTitle(body string) string {
	if strings.Contains(body, "<title") {
		if q, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
			if t := strings.TrimSpace(q.Find("title").First().Text()); t != "" {
				return t
			}
		}
	}
	if m := mdHeadingRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
