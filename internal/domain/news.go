package domain

import "time"

// Candidate is a scored feed entry produced during a single pipeline run.
// It is never persisted; only its StableID survives as a seen-item marker.
type Candidate struct {
	Source   string
	Title    string
	Summary  string
	Link     string
	StableID string
	Score    int
}

// ArticleType hints the generation service about the kind of writing expected.
type ArticleType string

const (
	TypeNews     ArticleType = "news"
	TypeAnalysis ArticleType = "analysis"
)

// Post is the structured output of the generation contract.
type Post struct {
	Headline string
	Summary  string
	Details  string
	Hashtags []string
}

// DraftStatus enumerates the draft lifecycle states.
type DraftStatus string

const (
	DraftPending DraftStatus = "pending"
	DraftPosted  DraftStatus = "posted"
	DraftSkipped DraftStatus = "skipped"
)

// Draft is a rendered post awaiting an operator decision (or already published).
// Rows are append-only apart from the single pending -> posted/skipped transition.
type Draft struct {
	ID        int64
	CreatedAt time.Time
	Text      string
	Status    DraftStatus
	ImageURL  string
	Error     string
}

// FailureRecord is an append-only diagnostic row. The pipeline never reads it back.
type FailureRecord struct {
	CreatedAt time.Time
	Source    string
	ItemID    string
	Stage     string
	Error     string
}

// SeenItem marks a feed entry as handled. Once written it is never updated
// or deleted; it is the at-most-once-processing ledger.
type SeenItem struct {
	ItemID    string
	PostedAt  time.Time
	TitleNorm string
}
