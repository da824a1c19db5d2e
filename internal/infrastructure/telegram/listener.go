package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const pollTimeoutSeconds = 25

// Commands are the operator actions reachable from the editor chat.
type Commands interface {
	Post(ctx context.Context, draftID int64)
	Skip(ctx context.Context, draftID int64)
	Run(ctx context.Context)
}

// Listener long-polls the bot API for editor commands and dispatches them.
type Listener struct {
	client       *Client
	editorChatID string
	commands     Commands
	log          *slog.Logger
	offset       int64
}

// NewListener builds a listener restricted to the given editor chat.
func NewListener(client *Client, editorChatID string, commands Commands, log *slog.Logger) *Listener {
	return &Listener{
		client:       client,
		editorChatID: editorChatID,
		commands:     commands,
		log:          log,
	}
}

type incomingMessage struct {
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text string `json:"text"`
}

type update struct {
	UpdateID int64            `json:"update_id"`
	Message  *incomingMessage `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// Listen blocks polling for updates until the context is cancelled.
func (l *Listener) Listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := l.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn("poll updates", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= l.offset {
				l.offset = upd.UpdateID + 1
			}
			l.handle(ctx, upd)
		}
	}
}

func (l *Listener) handle(ctx context.Context, upd update) {
	if upd.Message == nil || strconv.FormatInt(upd.Message.Chat.ID, 10) != l.editorChatID {
		return
	}

	fields := strings.Fields(upd.Message.Text)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "/post":
		if id, ok := parseDraftID(fields); ok {
			l.commands.Post(ctx, id)
		}
	case "/skip":
		if id, ok := parseDraftID(fields); ok {
			l.commands.Skip(ctx, id)
		}
	case "/run":
		l.commands.Run(ctx)
	}
}

// parseDraftID extracts the draft number argument. Malformed input is a no-op.
func parseDraftID(fields []string) (int64, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (l *Listener) getUpdates(ctx context.Context) ([]update, error) {
	form := url.Values{}
	form.Set("timeout", strconv.Itoa(pollTimeoutSeconds))
	form.Set("offset", strconv.FormatInt(l.offset, 10))
	form.Set("allowed_updates", `["message"]`)

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates", l.client.apiBase, l.client.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := l.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram getUpdates not ok")
	}
	return parsed.Result, nil
}
