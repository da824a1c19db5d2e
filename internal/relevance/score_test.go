package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"NewsHerald/internal/domain"
)

func TestScoreTitleSupersedesSummary(t *testing.T) {
	t.Parallel()

	s := NewScorer([]string{"арест"}, nil, nil)
	s.standard = nil
	s.hot = nil

	// Title hit counts 8, the summary occurrence of the same term adds nothing.
	assert.Equal(t, 8, s.Score("Арест в София", "извършен е арест"))
	// Summary only: 4.
	assert.Equal(t, 4, s.Score("Нещо друго", "извършен е арест"))
	assert.Equal(t, 0, s.Score("Нещо друго", "нищо"))
}

func TestScoreWeightsPerSet(t *testing.T) {
	t.Parallel()

	s := NewScorer([]string{"корупция"}, []string{"прокуратура"}, []string{"скандал"})

	assert.Equal(t, 8+5+3, s.Score("корупция прокуратура скандал", ""))
	assert.Equal(t, 4+2+1, s.Score("", "корупция прокуратура скандал"))
}

func TestScoreMonotonicity(t *testing.T) {
	t.Parallel()

	s := NewScorer(nil, nil, nil)

	base := s.Score("Среща на върха в Брюксел", "")
	boosted := s.Score("Среща на върха в Брюксел след протест", "")
	assert.GreaterOrEqual(t, boosted, base)
}

func TestScoreEndToEndHeadline(t *testing.T) {
	t.Parallel()

	s := NewScorer(nil, nil, nil)

	// "арест" and "корупция" are both priority terms: at least 16 from those
	// two title hits alone.
	got := s.Score("Арест на министър заради корупция", "")
	assert.GreaterOrEqual(t, got, 16)
}

func TestDetectArticleType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.TypeAnalysis, DetectArticleType("Капитал", "Коментар: какво следва", ""))
	assert.Equal(t, domain.TypeAnalysis, DetectArticleType("", "", "https://example.org/opinion/123"))
	assert.Equal(t, domain.TypeNews, DetectArticleType("Fakti.bg", "Катастрофа на магистрала", "https://fakti.bg/1"))
}
