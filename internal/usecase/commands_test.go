package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsHerald/internal/domain"
)

func newCommandsHarness(t *testing.T) (*Commands, *memRepo, *recordingMessenger) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemRepo()
	messenger := &recordingMessenger{}
	return NewCommands(repo, messenger, nil, "-100123", "777", log), repo, messenger
}

func TestPostPublishesPendingDraft(t *testing.T) {
	commands, repo, messenger := newCommandsHarness(t)
	ctx := context.Background()

	id, err := repo.SaveDraft(ctx, "<b>Новина</b>", domain.DraftPending, "https://img.example.bg/a.jpg")
	require.NoError(t, err)

	commands.Post(ctx, id)

	require.Len(t, messenger.sent, 2)
	assert.Equal(t, "-100123", messenger.sent[0].chatID)
	assert.Equal(t, "<b>Новина</b>", messenger.sent[0].text)
	assert.Equal(t, "https://img.example.bg/a.jpg", messenger.sent[0].imageURL)
	assert.Equal(t, "777", messenger.sent[1].chatID)
	assert.Equal(t, "✅ Публикувано #1", messenger.sent[1].text)

	assert.Equal(t, domain.DraftPosted, repo.drafts[id].Status)
}

func TestPostIsNoopOnUnknownDraft(t *testing.T) {
	commands, _, messenger := newCommandsHarness(t)

	commands.Post(context.Background(), 99)

	assert.Empty(t, messenger.sent)
}

func TestPostIsNoopOnDecidedDraft(t *testing.T) {
	commands, repo, messenger := newCommandsHarness(t)
	ctx := context.Background()

	id, err := repo.SaveDraft(ctx, "текст", domain.DraftPending, "")
	require.NoError(t, err)

	commands.Post(ctx, id)
	commands.Post(ctx, id)

	// The second approval publishes nothing and sends no second ack.
	assert.Len(t, messenger.sent, 2)
	assert.Equal(t, domain.DraftPosted, repo.drafts[id].Status)
}

func TestPostKeepsDraftPendingOnDeliveryFailure(t *testing.T) {
	commands, repo, messenger := newCommandsHarness(t)
	ctx := context.Background()
	messenger.err = errors.New("telegram error 502")

	id, err := repo.SaveDraft(ctx, "текст", domain.DraftPending, "")
	require.NoError(t, err)

	commands.Post(ctx, id)

	assert.Equal(t, domain.DraftPending, repo.drafts[id].Status)
	require.Len(t, repo.failures, 1)
	assert.Equal(t, "publish", repo.failures[0].Stage)
}

func TestSkipMarksDraftSkipped(t *testing.T) {
	commands, repo, messenger := newCommandsHarness(t)
	ctx := context.Background()

	id, err := repo.SaveDraft(ctx, "текст", domain.DraftPending, "")
	require.NoError(t, err)

	commands.Skip(ctx, id)

	assert.Equal(t, domain.DraftSkipped, repo.drafts[id].Status)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "🗑 Прескочено #1", messenger.sent[0].text)
}

func TestSkipIsNoopOnDecidedDraft(t *testing.T) {
	commands, repo, messenger := newCommandsHarness(t)
	ctx := context.Background()

	id, err := repo.SaveDraft(ctx, "текст", domain.DraftPosted, "")
	require.NoError(t, err)

	commands.Skip(ctx, id)

	assert.Equal(t, domain.DraftPosted, repo.drafts[id].Status)
	assert.Empty(t, messenger.sent)
}
