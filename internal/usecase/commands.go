package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"NewsHerald/internal/domain"
	"NewsHerald/internal/ports"
)

// Commands implements the operator actions reachable from the editor chat.
// Actions on unknown or already decided drafts are silent no-ops.
type Commands struct {
	repo         ports.Repository
	messenger    ports.Messenger
	orchestrator *Orchestrator
	channelID    string
	editorChatID string
	log          *slog.Logger
}

// NewCommands wires the operator command surface.
func NewCommands(repo ports.Repository, messenger ports.Messenger, orchestrator *Orchestrator, channelID, editorChatID string, log *slog.Logger) *Commands {
	return &Commands{
		repo:         repo,
		messenger:    messenger,
		orchestrator: orchestrator,
		channelID:    channelID,
		editorChatID: editorChatID,
		log:          log,
	}
}

// Post publishes the pending draft to the channel and marks it posted.
func (c *Commands) Post(ctx context.Context, draftID int64) {
	draft, err := c.repo.PendingDraft(ctx, draftID)
	if err != nil {
		c.log.Error("load draft", "error", err, "draft", draftID)
		return
	}
	if draft == nil {
		return
	}

	if err := c.messenger.Send(ctx, c.channelID, draft.Text, draft.ImageURL); err != nil {
		c.log.Warn("publish draft failed", "error", err, "draft", draftID)
		c.repo.RecordFailure(ctx, "operator", strconv.FormatInt(draftID, 10), "publish", err)
		return
	}

	ok, err := c.repo.Transition(ctx, draftID, domain.DraftPosted)
	if err != nil {
		c.log.Error("transition draft", "error", err, "draft", draftID)
		return
	}
	if ok {
		c.ack(ctx, fmt.Sprintf("✅ Публикувано #%d", draftID))
	}
}

// Skip marks the pending draft skipped without publishing it.
func (c *Commands) Skip(ctx context.Context, draftID int64) {
	ok, err := c.repo.Transition(ctx, draftID, domain.DraftSkipped)
	if err != nil {
		c.log.Error("transition draft", "error", err, "draft", draftID)
		return
	}
	if ok {
		c.ack(ctx, fmt.Sprintf("🗑 Прескочено #%d", draftID))
	}
}

// Run triggers an on-demand selection pass.
func (c *Commands) Run(ctx context.Context) {
	if err := c.orchestrator.Run(ctx); err != nil {
		c.log.Error("on-demand run", "error", err)
	}
}

func (c *Commands) ack(ctx context.Context, text string) {
	if err := c.messenger.Send(ctx, c.editorChatID, text, ""); err != nil {
		c.log.Warn("editor ack failed", "error", err)
	}
}
