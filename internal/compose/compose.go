// Package compose owns the generation-service contract: the instruction
// prompt, the 4-block response parsing and the language-purity validation.
package compose

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"NewsHerald/internal/domain"
	"NewsHerald/internal/ports"
	"NewsHerald/internal/relevance"
)

// skipToken is the single sentinel the service returns for irrelevant items.
const skipToken = "SKIP"

// cyrillicShareMin guards against the service drifting out of Bulgarian.
const cyrillicShareMin = 0.7

// ValidationError signals the upstream contract was violated for one
// candidate. The candidate is skipped but the run continues.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "generation output invalid: " + e.Reason
}

var blockExprs = map[string]*regexp.Regexp{}

func init() {
	for _, label := range []string{"HEADLINE", "SUMMARY", "DETAILS", "HASHTAGS"} {
		blockExprs[label] = regexp.MustCompile(`(?si)` + label + `:\s*\n?(.*?)(?:\n[A-Z]+:|\z)`)
	}
}

// Transformer turns an accepted candidate into a structured post or a
// not-relevant verdict.
type Transformer struct {
	generator ports.Generator
	handle    string
}

// NewTransformer wires the external generation service.
func NewTransformer(generator ports.Generator, handle string) *Transformer {
	return &Transformer{generator: generator, handle: handle}
}

// Transform delegates to the generation service and validates the response.
// ok=false with a nil error means the service judged the item not relevant.
func (t *Transformer) Transform(ctx context.Context, cand domain.Candidate) (domain.Post, bool, error) {
	articleType := relevance.DetectArticleType(cand.Source, cand.Title, cand.Link)
	raw, err := t.generator.Generate(ctx, t.systemPrompt(), t.userPrompt(cand, articleType))
	if err != nil {
		return domain.Post{}, false, fmt.Errorf("generate post: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(raw), skipToken) {
		return domain.Post{}, false, nil
	}

	if !isBulgarianEnough(raw) {
		return domain.Post{}, false, &ValidationError{Reason: "output is not predominantly Bulgarian"}
	}

	post, err := parsePost(raw)
	if err != nil {
		return domain.Post{}, false, err
	}
	return post, true, nil
}

// parsePost extracts the four labeled blocks. Headline and summary are
// required; their absence is a contract violation, not a rejection.
func parsePost(raw string) (domain.Post, error) {
	post := domain.Post{
		Headline: extractBlock(raw, "HEADLINE"),
		Summary:  extractBlock(raw, "SUMMARY"),
		Details:  extractBlock(raw, "DETAILS"),
	}
	for _, tag := range strings.Fields(extractBlock(raw, "HASHTAGS")) {
		tag = strings.Trim(tag, "#, ")
		if tag != "" {
			post.Hashtags = append(post.Hashtags, tag)
		}
	}

	if post.Headline == "" || post.Summary == "" {
		return domain.Post{}, &ValidationError{Reason: "missing HEADLINE or SUMMARY block"}
	}
	return post, nil
}

func extractBlock(raw, label string) string {
	m := blockExprs[label].FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// isBulgarianEnough checks Cyrillic dominance over the alphabetic runes.
func isBulgarianEnough(text string) bool {
	letters, cyrillic := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillic++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(cyrillic)/float64(letters) > cyrillicShareMin
}

func (t *Transformer) systemPrompt() string {
	return "Ти си прецизен филтър и генератор на новини. Първо решаваш дали новината е за България, Русия, Украйна, Тръмп, Путин или Войната. Ако не е - връщаш SKIP. Ако е - генерираш пост в 4 блока."
}

func (t *Transformer) userPrompt(cand domain.Candidate, articleType domain.ArticleType) string {
	return fmt.Sprintf(`Ти си журналист за популярния български Telegram канал "%s".
Твоята задача е да създадеш сензационно, но вярно обобщение на новина.

ИНСТРУКЦИИ:
- Пиши само на български език.
- Използвай емотикони за заглавието.
- Направи новината да звучи важно и интересно (сензационно).

РЕЛАВАНТНОСТ (КРИТИЧНО):
1. Новината трябва да се отнася директно за БЪЛГАРИЯ (събития, политици, институции, икономика в България).
2. АКО НЕ Е за България, тя трябва да бъде за: ВОЙНАТА, РУСИЯ, УКРАЙНА, ДОНАЛД ТРЪМП или ПУТИН.
3. Ако новината НЕ Е за България и НЕ Е за някоя от тези 5 специфични теми, изобщо не генерирай пост и върни само думата: SKIP.

Ако новината е релевантна, ВИНАГИ връщай EXACTLY 4 блока с етикети: HEADLINE, SUMMARY, DETAILS, HASHTAGS. (Без други обяснения).

HEADLINE: 1 изречение, закачливо заглавие с емоджи.
SUMMARY: 2-3 изречения, основната същност.
DETAILS: 5-8 кратки детайла (булети), разкриващи повече факти.
HASHTAGS: 4-6 релевантни хештага.

ИЗТОЧНИК: %s
ЗАГЛАВИЕ: %s
ОПИСАНИЕ: %s
ЛИНК: %s
ТИП: %s`, t.handle, cand.Source, cand.Title, cand.Summary, cand.Link, articleType)
}
