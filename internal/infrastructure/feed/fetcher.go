// Package feed adapts RSS endpoints to the pipeline's FeedSource port.
package feed

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"NewsHerald/internal/ports"
)

// UserAgent identifies the bot to feed servers.
const UserAgent = "NewsHerald/1.0 (+https://t.me/CtrlAltBG)"

var whitespaceExpr = regexp.MustCompile(`\s+`)

// Fetcher downloads and parses one RSS document per call.
type Fetcher struct {
	parser    *gofeed.Parser
	sanitizer *bluemonday.Policy
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher builds a fetcher with a request timeout; gofeed sends the
// configured user agent with every request.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	parser := gofeed.NewParser()
	parser.UserAgent = UserAgent
	parser.Client = &http.Client{Timeout: timeout}

	return &Fetcher{
		parser:    parser,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Fetch returns at most limit entries from the feed at url. Summaries are
// stripped of markup so downstream scoring and prompting see plain text.
func (f *Fetcher) Fetch(ctx context.Context, url string, limit int) ([]ports.FeedEntry, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	items := parsed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]ports.FeedEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, ports.FeedEntry{
			Title:   strings.TrimSpace(item.Title),
			Summary: f.cleanSummary(item),
			Link:    strings.TrimSpace(item.Link),
			GUID:    strings.TrimSpace(item.GUID),
		})
	}
	return entries, nil
}

// cleanSummary prefers the description field, falls back to content, and
// returns it with tags stripped, entities unescaped and whitespace collapsed.
func (f *Fetcher) cleanSummary(item *gofeed.Item) string {
	raw := item.Description
	if raw == "" {
		raw = item.Content
	}
	text := f.sanitizer.Sanitize(raw)
	text = html.UnescapeString(text)
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}
