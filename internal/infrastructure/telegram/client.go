package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"NewsHerald/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	captionLimit   = 1024
	textHardCap    = 3900
)

// ImageDownloader fetches image bytes for multipart re-upload when the
// remote host refuses to serve Telegram directly.
type ImageDownloader interface {
	Download(ctx context.Context, imageURL string) ([]byte, string, error)
}

// Client delivers channel posts and editor notifications via the bot API.
type Client struct {
	botToken   string
	apiBase    string
	downloader ImageDownloader
	httpClient *http.Client
	log        *slog.Logger
}

var _ ports.Messenger = (*Client)(nil)

// NewClient registers the bot token and an optional image downloader.
func NewClient(botToken string, downloader ImageDownloader, log *slog.Logger) *Client {
	return &Client{
		botToken:   botToken,
		apiBase:    defaultAPIBase,
		downloader: downloader,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Send delivers text with an optional image. Short texts ride along as the
// photo caption; longer ones go as a separate message with previews off.
func (c *Client) Send(ctx context.Context, chatID, text, imageURL string) error {
	if c.botToken == "" || chatID == "" {
		return fmt.Errorf("telegram client misconfigured")
	}

	imageURL = strings.TrimSpace(imageURL)
	text = hardClip(text, textHardCap)

	if imageURL != "" && utf8.RuneCountInString(text) < captionLimit {
		err := c.sendPhoto(ctx, chatID, imageURL, text)
		if err == nil {
			return nil
		}
		c.log.Warn("photo with caption failed, sending separately", "error", err)
	}

	if imageURL != "" {
		if err := c.sendPhoto(ctx, chatID, imageURL, ""); err != nil {
			if upErr := c.uploadPhoto(ctx, chatID, imageURL); upErr != nil {
				c.log.Warn("photo delivery failed, posting text only", "error", upErr)
			}
		}
	}

	return c.sendMessage(ctx, chatID, text)
}

func (c *Client) sendMessage(ctx context.Context, chatID, text string) error {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")
	form.Set("disable_web_page_preview", "true")
	return c.call(ctx, "sendMessage", form)
}

func (c *Client) sendPhoto(ctx context.Context, chatID, photoURL, caption string) error {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("photo", photoURL)
	if caption != "" {
		form.Set("caption", caption)
		form.Set("parse_mode", "HTML")
	}
	return c.call(ctx, "sendPhoto", form)
}

// uploadPhoto downloads the image and re-sends it as a multipart upload.
func (c *Client) uploadPhoto(ctx context.Context, chatID, imageURL string) error {
	if c.downloader == nil {
		return fmt.Errorf("no image downloader configured")
	}

	data, filename, err := c.downloader.Download(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", chatID); err != nil {
		return fmt.Errorf("write chat_id: %w", err)
	}
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write photo bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendPhoto", c.apiBase, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *Client) call(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

func hardClip(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-20]) + "\n...(truncated)"
}
