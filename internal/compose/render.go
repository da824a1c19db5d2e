package compose

import (
	"fmt"
	"html"
	"strings"

	"NewsHerald/internal/domain"
)

// RenderHTML produces the Telegram HTML body for a post.
func RenderHTML(post domain.Post, source, link, handle string) string {
	tags := make([]string, 0, len(post.Hashtags))
	for _, tag := range post.Hashtags {
		tags = append(tags, "#"+strings.Trim(tag, "#"))
	}

	return fmt.Sprintf(
		"<b>%s</b>\n\n%s\n\n<blockquote>%s</blockquote>\n\n📌 <b>Източник:</b> %s\n🔗 <a href='%s'>Прочети повече</a>\n\n%s\n%s",
		html.EscapeString(strings.TrimSpace(post.Headline)),
		html.EscapeString(strings.TrimSpace(post.Summary)),
		html.EscapeString(strings.TrimSpace(post.Details)),
		html.EscapeString(strings.TrimSpace(source)),
		html.EscapeString(link),
		strings.Join(tags, " "),
		handle,
	)
}
