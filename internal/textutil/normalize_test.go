package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \t\n  "))
	assert.Equal(t, "арест на министър", Normalize("  Арест   на\tМинистър \n"))
	assert.Equal(t, "цени, храна!", Normalize("Цени,   храна!"))
}

func TestNormalizeStrict(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", NormalizeStrict(""))
	assert.Equal(t, "цени храна", NormalizeStrict("Цени, храна!"))
	assert.Equal(t, "избори 2024 резултати", NormalizeStrict("Избори-2024: резултати?"))
}

func TestTitleTokens(t *testing.T) {
	t.Parallel()

	tokens := TitleTokens("На 9 май ЕС гласува closely")
	// Words of 2 runes or fewer are dropped ("на", "9", "ес", "май" stays: 3 runes).
	assert.NotContains(t, tokens, "на")
	assert.NotContains(t, tokens, "9")
	assert.NotContains(t, tokens, "ес")
	assert.Contains(t, tokens, "май")
	assert.Contains(t, tokens, "гласува")
	assert.Contains(t, tokens, "closely")
}

func TestSimilarityEmptySets(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Similarity("", "каквото и да е"))
	assert.Zero(t, Similarity("на и до", "на и до"))
}

func TestSimilarityExactTokenEquality(t *testing.T) {
	t.Parallel()

	// "избори" vs "изборите" differ by inflection and must not match; shared
	// exact tokens are {резултати, 2024} out of min(3, 4) = 3.
	got := Similarity("избори 2024 резултати", "резултати от изборите 2024")
	assert.InDelta(t, 2.0/3.0, got, 1e-9)
}

func TestSimilarityShortHeadlineBias(t *testing.T) {
	t.Parallel()

	// Every token of the short title appears in the long one.
	got := Similarity("протест пред парламента", "масов протест пред сградата на парламента тази вечер")
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestSimilarityThresholdBoundary(t *testing.T) {
	t.Parallel()

	// 3 shared tokens over min set size 5 = 0.6 exactly; the duplicate verdict
	// is inclusive at the boundary.
	a := "първи втори трети четвърти пети"
	b := "първи втори трети шести седми"
	got := Similarity(a, b)
	assert.InDelta(t, 0.6, got, 1e-9)
	assert.True(t, got >= 0.6)
}
