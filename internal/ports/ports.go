package ports

import (
	"context"
	"time"

	"NewsHerald/internal/domain"
)

// FeedEntry is one raw item exposed by a feed before scoring.
type FeedEntry struct {
	Title   string
	Summary string
	Link    string
	GUID    string
}

// FeedSource pulls a bounded list of entries from one feed URL.
type FeedSource interface {
	Fetch(ctx context.Context, url string, limit int) ([]FeedEntry, error)
}

// DedupStore is the persisted at-most-once ledger of handled items.
type DedupStore interface {
	Seen(ctx context.Context, itemID string) (bool, error)
	IsDuplicateTitle(ctx context.Context, title string) (bool, error)
	MarkSeen(ctx context.Context, itemID, title string) error
}

// DraftStore persists the pending/posted/skipped draft state machine.
type DraftStore interface {
	SaveDraft(ctx context.Context, text string, status domain.DraftStatus, imageURL string) (int64, error)
	PendingDraft(ctx context.Context, id int64) (*domain.Draft, error)
	Transition(ctx context.Context, id int64, to domain.DraftStatus) (bool, error)
}

// FailureLog records non-fatal pipeline failures for operational visibility.
type FailureLog interface {
	RecordFailure(ctx context.Context, source, itemID, stage string, cause error)
}

// Repository groups the persisted stores behind one storage-access abstraction.
type Repository interface {
	DedupStore
	DraftStore
	FailureLog
	Close() error
}

// Generator turns a prompt into free text (external generation service).
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageResolver extracts a usable preview image for an article URL.
type ImageResolver interface {
	Resolve(ctx context.Context, articleURL string) string
}

// Messenger delivers a formatted message, optionally with an image.
type Messenger interface {
	Send(ctx context.Context, chatID, text, imageURL string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
