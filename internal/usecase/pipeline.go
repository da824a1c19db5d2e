package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"NewsHerald/internal/collector"
	"NewsHerald/internal/compose"
	"NewsHerald/internal/domain"
	"NewsHerald/internal/ports"
)

// OrchestratorDeps wires the selection loop's collaborators.
type OrchestratorDeps struct {
	Collector    *collector.Collector
	Transformer  *compose.Transformer
	Repository   ports.Repository
	Images       ports.ImageResolver
	Messenger    ports.Messenger
	ChannelID    string
	EditorChatID string
	Handle       string
	AutoPublish  bool
	MaxPerRun    int
	Lookahead    int
	Logger       *slog.Logger
}

// Orchestrator runs the collect-rank-publish loop. It is the sole writer of
// the seen ledger and the sole creator of drafts.
type Orchestrator struct {
	collector    *collector.Collector
	transformer  *compose.Transformer
	repo         ports.Repository
	images       ports.ImageResolver
	messenger    ports.Messenger
	channelID    string
	editorChatID string
	handle       string
	autoPublish  bool
	maxPerRun    int
	lookahead    int
	log          *slog.Logger

	mu sync.Mutex
}

// NewOrchestrator constructs the orchestration component.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		collector:    deps.Collector,
		transformer:  deps.Transformer,
		repo:         deps.Repository,
		images:       deps.Images,
		messenger:    deps.Messenger,
		channelID:    deps.ChannelID,
		editorChatID: deps.EditorChatID,
		handle:       deps.Handle,
		autoPublish:  deps.AutoPublish,
		maxPerRun:    deps.MaxPerRun,
		lookahead:    deps.Lookahead,
		log:          deps.Logger,
	}
}

// Run executes one full selection pass. Runs never overlap: a run requested
// while another is in flight waits its turn.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	candidates, err := o.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect candidates: %w", err)
	}
	o.log.Info("scan complete", "candidates", len(candidates))

	// Stable sort keeps discovery order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	limit := o.lookahead
	if limit > len(candidates) {
		limit = len(candidates)
	}

	published := 0
	for _, cand := range candidates[:limit] {
		if published >= o.maxPerRun {
			break
		}

		handled, err := o.process(ctx, cand)
		if err != nil {
			return err
		}
		if handled {
			published++
		}
	}

	return nil
}

// process pushes one candidate through generation and delivery. It reports
// whether the candidate consumed publication quota. Recoverable, per-candidate
// failures return (false, nil); storage errors propagate.
func (o *Orchestrator) process(ctx context.Context, cand domain.Candidate) (bool, error) {
	o.log.Info("processing candidate", "score", cand.Score, "source", cand.Source, "title", cand.Title)

	post, ok, err := o.transformer.Transform(ctx, cand)
	if err != nil {
		var vErr *compose.ValidationError
		if errors.As(err, &vErr) {
			o.repo.RecordFailure(ctx, cand.Source, cand.StableID, "generate", err)
			if err := o.repo.MarkSeen(ctx, cand.StableID, cand.Title); err != nil {
				return false, fmt.Errorf("mark seen: %w", err)
			}
			return false, nil
		}
		// Transient service failure; leave the item unseen so a later run retries.
		o.log.Warn("generation failed", "error", err, "title", cand.Title)
		o.repo.RecordFailure(ctx, cand.Source, cand.StableID, "generate", err)
		return false, nil
	}

	if !ok {
		// The generation service judged the item not newsworthy.
		if err := o.repo.MarkSeen(ctx, cand.StableID, cand.Title); err != nil {
			return false, fmt.Errorf("mark seen: %w", err)
		}
		return false, nil
	}

	imageURL := o.images.Resolve(ctx, cand.Link)
	text := compose.RenderHTML(post, cand.Source, cand.Link, o.handle)

	if o.autoPublish {
		if err := o.messenger.Send(ctx, o.channelID, text, imageURL); err != nil {
			o.log.Warn("channel delivery failed", "error", err)
			o.repo.RecordFailure(ctx, cand.Source, cand.StableID, "publish", err)
		}
		if _, err := o.repo.SaveDraft(ctx, text, domain.DraftPosted, imageURL); err != nil {
			return false, fmt.Errorf("save draft: %w", err)
		}
	} else {
		id, err := o.repo.SaveDraft(ctx, text, domain.DraftPending, imageURL)
		if err != nil {
			return false, fmt.Errorf("save draft: %w", err)
		}
		notice := fmt.Sprintf("<b>Нова чернова #%d</b>\n\n%s\n\n/post %d | /skip %d", id, text, id, id)
		if err := o.messenger.Send(ctx, o.editorChatID, notice, ""); err != nil {
			o.log.Warn("editor notification failed", "error", err, "draft", id)
			o.repo.RecordFailure(ctx, cand.Source, cand.StableID, "publish", err)
		}
	}

	if err := o.repo.MarkSeen(ctx, cand.StableID, cand.Title); err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	return true, nil
}
