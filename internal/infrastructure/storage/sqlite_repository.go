package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsHerald/internal/domain"
	"NewsHerald/internal/ports"
	"NewsHerald/internal/textutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    text       TEXT NOT NULL,
    status     TEXT NOT NULL,
    error      TEXT NOT NULL DEFAULT '',
    image_url  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS posted (
    item_id    TEXT PRIMARY KEY,
    posted_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS failures (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    source     TEXT NOT NULL,
    item_id    TEXT NOT NULL,
    stage      TEXT NOT NULL,
    error      TEXT NOT NULL
);
`

// SQLiteRepository persists drafts, seen items and failure diagnostics in a
// single SQLite file. Writes are serialized through one connection.
type SQLiteRepository struct {
	db        *sql.DB
	window    time.Duration
	threshold float64
	log       *slog.Logger
}

var _ ports.Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at path and
// applies the schema. window and threshold configure duplicate-title checks.
func NewSQLiteRepository(path string, window time.Duration, threshold float64, log *slog.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	// title_norm arrived after the first release; older databases miss it.
	if _, err := db.Exec(`ALTER TABLE posted ADD COLUMN title_norm TEXT NOT NULL DEFAULT ''`); err != nil {
		if !strings.Contains(err.Error(), "duplicate column") {
			_ = db.Close()
			return nil, fmt.Errorf("migrate posted: %w", err)
		}
	}

	return &SQLiteRepository{db: db, window: window, threshold: threshold, log: log}, nil
}

// Close releases the underlying connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Seen reports whether an item with the given stable ID was already recorded.
func (r *SQLiteRepository) Seen(ctx context.Context, itemID string) (bool, error) {
	query, args, err := sq.Select("1").From("posted").Where(sq.Eq{"item_id": itemID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build seen query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return true, nil
}

// IsDuplicateTitle compares the title against titles recorded inside the
// duplicate window and reports a match when similarity reaches the threshold.
func (r *SQLiteRepository) IsDuplicateTitle(ctx context.Context, title string) (bool, error) {
	cutoff := time.Now().UTC().Add(-r.window).Format(time.RFC3339)

	query, args, err := sq.Select("title_norm").From("posted").
		Where(sq.Gt{"posted_at": cutoff}).
		Where(sq.NotEq{"title_norm": ""}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build duplicate query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("query recent titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recorded string
		if err := rows.Scan(&recorded); err != nil {
			return false, fmt.Errorf("scan title: %w", err)
		}
		if textutil.Similarity(title, recorded) >= r.threshold {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("rows iteration: %w", err)
	}
	return false, nil
}

// MarkSeen records the item as seen. Re-marking refreshes the timestamp.
func (r *SQLiteRepository) MarkSeen(ctx context.Context, itemID, title string) error {
	query, args, err := sq.Insert("posted").
		Columns("item_id", "posted_at", "title_norm").
		Values(itemID, time.Now().UTC().Format(time.RFC3339), textutil.Normalize(title)).
		Suffix("ON CONFLICT(item_id) DO UPDATE SET posted_at = excluded.posted_at, title_norm = excluded.title_norm").
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark seen: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// SaveDraft stores a rendered post and returns its assigned ID.
func (r *SQLiteRepository) SaveDraft(ctx context.Context, text string, status domain.DraftStatus, imageURL string) (int64, error) {
	query, args, err := sq.Insert("drafts").
		Columns("created_at", "text", "status", "image_url").
		Values(time.Now().UTC().Format(time.RFC3339), text, string(status), imageURL).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build save draft: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save draft: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("draft id: %w", err)
	}
	return id, nil
}

// PendingDraft loads the draft with the given ID if it is still pending.
// A missing or already decided draft yields (nil, nil).
func (r *SQLiteRepository) PendingDraft(ctx context.Context, id int64) (*domain.Draft, error) {
	query, args, err := sq.Select("id", "created_at", "text", "status", "image_url").
		From("drafts").
		Where(sq.Eq{"id": id, "status": string(domain.DraftPending)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending query: %w", err)
	}

	var (
		draft   domain.Draft
		created string
		status  string
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&draft.ID, &created, &draft.Text, &status, &draft.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pending draft: %w", err)
	}

	draft.Status = domain.DraftStatus(status)
	if ts, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
		draft.CreatedAt = ts
	}
	return &draft, nil
}

// Transition moves a pending draft to the given status. It reports false
// when the draft does not exist or was already decided.
func (r *SQLiteRepository) Transition(ctx context.Context, id int64, to domain.DraftStatus) (bool, error) {
	query, args, err := sq.Update("drafts").
		Set("status", string(to)).
		Where(sq.Eq{"id": id, "status": string(domain.DraftPending)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build transition: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("transition draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition rows: %w", err)
	}
	return affected > 0, nil
}

// RecordFailure appends a diagnostic row. Failures here are logged only so
// that diagnostics never break the pipeline.
func (r *SQLiteRepository) RecordFailure(ctx context.Context, source, itemID, stage string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	query, args, err := sq.Insert("failures").
		Columns("created_at", "source", "item_id", "stage", "error").
		Values(time.Now().UTC().Format(time.RFC3339), source, itemID, stage, msg).
		ToSql()
	if err != nil {
		r.log.Warn("build failure insert", "error", err)
		return
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Warn("record failure", "error", err, "stage", stage)
	}
}
