// Package collector gathers scored candidates from the configured sources.
package collector

import (
	"context"
	"log/slog"
	"strings"

	"NewsHerald/internal/config"
	"NewsHerald/internal/domain"
	"NewsHerald/internal/ports"
	"NewsHerald/internal/relevance"
)

// Collector iterates sources, filters seen and near-duplicate entries and
// scores the survivors. A single source failing must not abort the others.
type Collector struct {
	source   ports.FeedSource
	dedup    ports.DedupStore
	failures ports.FailureLog
	scorer   *relevance.Scorer
	sources  []config.SourceConfig
	cap      int
	minScore int
	logger   *slog.Logger
}

// Deps wires the collector's collaborators.
type Deps struct {
	Source     ports.FeedSource
	Dedup      ports.DedupStore
	Failures   ports.FailureLog
	Scorer     *relevance.Scorer
	Sources    []config.SourceConfig
	PerFeedCap int
	MinScore   int
	Logger     *slog.Logger
}

// New constructs a collector.
func New(deps Deps) *Collector {
	return &Collector{
		source:   deps.Source,
		dedup:    deps.Dedup,
		failures: deps.Failures,
		scorer:   deps.Scorer,
		sources:  deps.Sources,
		cap:      deps.PerFeedCap,
		minScore: deps.MinScore,
		logger:   deps.Logger,
	}
}

// Collect walks every configured source in order and returns the pooled
// candidates in discovery order. Storage errors abort the run; fetch errors
// only cost the failing source.
func (c *Collector) Collect(ctx context.Context) ([]domain.Candidate, error) {
	var pooled []domain.Candidate

	for _, src := range c.sources {
		entries, err := c.source.Fetch(ctx, src.URL, c.cap)
		if err != nil {
			c.logger.Warn("source fetch failed", "source", src.Name, "error", err)
			c.failures.RecordFailure(ctx, src.Name, "", "fetch", err)
			continue
		}

		found := 0
		for _, entry := range entries {
			cand, keep, err := c.evaluate(ctx, src.Name, entry)
			if err != nil {
				return nil, err
			}
			if keep {
				pooled = append(pooled, cand)
				found++
			}
		}
		if found > 0 {
			c.logger.Info("new candidates found", "source", src.Name, "count", found)
		}
	}

	c.logger.Info("scan complete", "candidates", len(pooled))
	return pooled, nil
}

// evaluate applies the id ledger, the title-similarity dedup and the score
// threshold to one entry.
func (c *Collector) evaluate(ctx context.Context, sourceName string, entry ports.FeedEntry) (domain.Candidate, bool, error) {
	id := stableID(entry)
	if id == "" {
		return domain.Candidate{}, false, nil
	}

	seen, err := c.dedup.Seen(ctx, id)
	if err != nil {
		return domain.Candidate{}, false, err
	}
	if seen {
		return domain.Candidate{}, false, nil
	}

	dup, err := c.dedup.IsDuplicateTitle(ctx, entry.Title)
	if err != nil {
		return domain.Candidate{}, false, err
	}
	if dup {
		c.logger.Debug("near-duplicate title skipped", "source", sourceName, "title", entry.Title)
		return domain.Candidate{}, false, nil
	}

	score := c.scorer.Score(entry.Title, entry.Summary)
	if score < c.minScore {
		return domain.Candidate{}, false, nil
	}

	return domain.Candidate{
		Source:   sourceName,
		Title:    entry.Title,
		Summary:  entry.Summary,
		Link:     entry.Link,
		StableID: id,
		Score:    score,
	}, true, nil
}

// stableID derives the seen-ledger key: feed GUID, falling back to the link.
func stableID(entry ports.FeedEntry) string {
	if id := strings.TrimSpace(entry.GUID); id != "" {
		return id
	}
	return strings.TrimSpace(entry.Link)
}
