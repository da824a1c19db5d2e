package telegram

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedCommands struct {
	posted  []int64
	skipped []int64
	runs    int
}

func (r *recordedCommands) Post(_ context.Context, id int64) { r.posted = append(r.posted, id) }
func (r *recordedCommands) Skip(_ context.Context, id int64) { r.skipped = append(r.skipped, id) }
func (r *recordedCommands) Run(context.Context)              { r.runs++ }

func newTestListener(commands Commands) *Listener {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewListener(NewClient("token", nil, log), "1001", commands, log)
}

func editorUpdate(id int64, chatID int64, text string) update {
	upd := update{UpdateID: id, Message: &incomingMessage{Text: text}}
	upd.Message.Chat.ID = chatID
	return upd
}

func TestHandleDispatchesCommands(t *testing.T) {
	commands := &recordedCommands{}
	listener := newTestListener(commands)
	ctx := context.Background()

	listener.handle(ctx, editorUpdate(1, 1001, "/post 7"))
	listener.handle(ctx, editorUpdate(2, 1001, "/skip 9"))
	listener.handle(ctx, editorUpdate(3, 1001, "/run"))

	assert.Equal(t, []int64{7}, commands.posted)
	assert.Equal(t, []int64{9}, commands.skipped)
	assert.Equal(t, 1, commands.runs)
}

func TestHandleIgnoresForeignChats(t *testing.T) {
	commands := &recordedCommands{}
	listener := newTestListener(commands)

	listener.handle(context.Background(), editorUpdate(1, 555, "/post 7"))

	assert.Empty(t, commands.posted)
}

func TestHandleIgnoresMalformedArguments(t *testing.T) {
	commands := &recordedCommands{}
	listener := newTestListener(commands)
	ctx := context.Background()

	listener.handle(ctx, editorUpdate(1, 1001, "/post"))
	listener.handle(ctx, editorUpdate(2, 1001, "/post abc"))
	listener.handle(ctx, editorUpdate(3, 1001, "/post -4"))
	listener.handle(ctx, editorUpdate(4, 1001, "/delete 4"))

	assert.Empty(t, commands.posted)
	assert.Empty(t, commands.skipped)
	assert.Zero(t, commands.runs)
}
