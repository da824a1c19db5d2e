// Package images resolves a usable preview image for an article URL via a
// prioritized chain of HTML heuristics.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsHerald/internal/ports"
)

// MaxImageBytes caps image downloads; exceeding it mid-stream aborts.
const MaxImageBytes = 12_000_000

// blockedFragments mark site chrome rather than article art.
var blockedFragments = []string{"logo", "icon", "favicon", "placeholder", "sprite", "badge", "default"}

var structuredImageExpr = regexp.MustCompile(`["']image["']\s*:\s*["']([^"']+)["']`)

// Strategy is one extraction heuristic. Strategies run in fixed priority
// order; the first hit wins and later ones are never consulted.
type Strategy interface {
	Extract(doc *goquery.Document) (string, bool)
}

// Resolver fetches article pages and runs the strategy chain.
type Resolver struct {
	client     *http.Client
	strategies []Strategy
	logger     *slog.Logger
	userAgent  string
}

var _ ports.ImageResolver = (*Resolver)(nil)

// NewResolver builds the default chain: meta tags, structured data, first
// inline image.
func NewResolver(client *http.Client, userAgent string, logger *slog.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Resolver{
		client:    client,
		logger:    logger,
		userAgent: userAgent,
		strategies: []Strategy{
			metaTagStrategy{},
			structuredDataStrategy{},
			inlineImageStrategy{},
		},
	}
}

// Resolve returns a usable image URL for the article, or "" when none is
// found. Network and parse failures degrade to "no image".
func (r *Resolver) Resolve(ctx context.Context, articleURL string) string {
	articleURL = strings.TrimSpace(articleURL)
	if articleURL == "" {
		return ""
	}

	doc, err := r.fetchDocument(ctx, articleURL)
	if err != nil {
		r.logger.Debug("image page fetch failed", "url", articleURL, "error", err)
		return ""
	}

	for _, strategy := range r.strategies {
		candidate, ok := strategy.Extract(doc)
		if !ok {
			continue
		}
		resolved := resolveReference(articleURL, candidate)
		if resolved == "" || !Usable(resolved) {
			continue
		}
		return resolved
	}
	return ""
}

func (r *Resolver) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// Usable rejects near-certain site chrome: blocklisted fragments and vector
// extensions.
func Usable(imageURL string) bool {
	u := strings.ToLower(strings.TrimSpace(imageURL))
	if u == "" {
		return false
	}
	for _, fragment := range blockedFragments {
		if strings.Contains(u, fragment) {
			return false
		}
	}
	return !strings.HasSuffix(u, ".svg")
}

func resolveReference(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}

// metaTagStrategy reads Open-Graph and Twitter meta-image tags.
type metaTagStrategy struct{}

func (metaTagStrategy) Extract(doc *goquery.Document) (string, bool) {
	selector := `meta[property="og:image"], meta[name="og:image"],` +
		` meta[property="twitter:image"], meta[name="twitter:image"],` +
		` meta[property="twitter:image:src"], meta[name="twitter:image:src"]`

	var found string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			found = strings.TrimSpace(content)
			return false
		}
		return true
	})
	return found, found != ""
}

// structuredDataStrategy scans script bodies for "image": "..." fields, as
// emitted by JSON-LD blocks.
type structuredDataStrategy struct{}

func (structuredDataStrategy) Extract(doc *goquery.Document) (string, bool) {
	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, match := range structuredImageExpr.FindAllStringSubmatch(s.Text(), -1) {
			if Usable(match[1]) {
				found = match[1]
				return false
			}
		}
		return true
	})
	return found, found != ""
}

// inlineImageStrategy takes the first <img src> as a last resort.
type inlineImageStrategy struct{}

func (inlineImageStrategy) Extract(doc *goquery.Document) (string, bool) {
	src, ok := doc.Find("img[src]").First().Attr("src")
	src = strings.TrimSpace(src)
	return src, ok && src != ""
}
