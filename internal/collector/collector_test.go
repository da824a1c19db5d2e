package collector

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHerald/internal/config"
	"NewsHerald/internal/ports"
	"NewsHerald/internal/relevance"
)

type fakeFeed struct {
	entries map[string][]ports.FeedEntry
	errs    map[string]error
	limits  []int
}

func (f *fakeFeed) Fetch(_ context.Context, url string, limit int) ([]ports.FeedEntry, error) {
	f.limits = append(f.limits, limit)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.entries[url], nil
}

type fakeDedup struct {
	seen      map[string]bool
	dupTitles map[string]bool
}

func (f *fakeDedup) Seen(_ context.Context, id string) (bool, error) {
	return f.seen[id], nil
}

func (f *fakeDedup) IsDuplicateTitle(_ context.Context, title string) (bool, error) {
	return f.dupTitles[title], nil
}

func (f *fakeDedup) MarkSeen(_ context.Context, id, _ string) error {
	f.seen[id] = true
	return nil
}

type fakeFailures struct {
	records []string
}

func (f *fakeFailures) RecordFailure(_ context.Context, source, itemID, stage string, _ error) {
	f.records = append(f.records, source+"/"+stage)
}

func newCollector(feed *fakeFeed, dedup *fakeDedup, failures *fakeFailures, sources []config.SourceConfig) *Collector {
	return New(Deps{
		Source:     feed,
		Dedup:      dedup,
		Failures:   failures,
		Scorer:     relevance.NewScorer(nil, nil, nil),
		Sources:    sources,
		PerFeedCap: 10,
		MinScore:   1,
		Logger:     slog.Default(),
	})
}

func TestCollectFiltersAndScores(t *testing.T) {
	t.Parallel()

	feed := &fakeFeed{entries: map[string][]ports.FeedEntry{
		"https://a.example/rss": {
			{Title: "Арест на министър заради корупция", Link: "https://a.example/1", GUID: "a-1"},
			{Title: "Котка спаси дърво", Link: "https://a.example/2", GUID: "a-2"},
			{Title: "Вече видян протест", Link: "https://a.example/3", GUID: "a-3"},
			{Title: "Дублиран протест в София", Link: "https://a.example/4", GUID: "a-4"},
		},
	}}
	dedup := &fakeDedup{
		seen:      map[string]bool{"a-3": true},
		dupTitles: map[string]bool{"Дублиран протест в София": true},
	}
	failures := &fakeFailures{}

	c := newCollector(feed, dedup, failures, []config.SourceConfig{{Name: "A", URL: "https://a.example/rss"}})

	got, err := c.Collect(context.Background())
	require.NoError(t, err)

	// Only the scoring title survives: a-2 scores zero, a-3 is seen, a-4 is a
	// near-duplicate title.
	require.Len(t, got, 1)
	assert.Equal(t, "a-1", got[0].StableID)
	assert.Equal(t, "A", got[0].Source)
	assert.GreaterOrEqual(t, got[0].Score, 16)
	assert.Equal(t, []int{10}, feed.limits)
	assert.Empty(t, failures.records)
}

func TestCollectSourceFailureDoesNotAbortOthers(t *testing.T) {
	t.Parallel()

	feed := &fakeFeed{
		entries: map[string][]ports.FeedEntry{
			"https://b.example/rss": {
				{Title: "Протест пред парламента", Link: "https://b.example/1", GUID: "b-1"},
			},
		},
		errs: map[string]error{"https://a.example/rss": errors.New("connection refused")},
	}
	dedup := &fakeDedup{seen: map[string]bool{}, dupTitles: map[string]bool{}}
	failures := &fakeFailures{}

	c := newCollector(feed, dedup, failures, []config.SourceConfig{
		{Name: "A", URL: "https://a.example/rss"},
		{Name: "B", URL: "https://b.example/rss"},
	})

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b-1", got[0].StableID)
	assert.Equal(t, []string{"A/fetch"}, failures.records)
}

func TestStableIDFallsBackToLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "guid-1", stableID(ports.FeedEntry{GUID: " guid-1 ", Link: "https://x"}))
	assert.Equal(t, "https://x", stableID(ports.FeedEntry{Link: "https://x"}))
	assert.Equal(t, "", stableID(ports.FeedEntry{}))
}
