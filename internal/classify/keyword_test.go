package classify

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapsehq/lapse/internal/domain"
)

func TestScoreCategories(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		excerpt string
		want    domain.Category
	}{
		{"abort merge is meta", "", "how to abort merge", domain.CategoryMeta},
		{"color change is feature", "", "change the color of the static ball to fully black", domain.CategoryFeature},
		{"error report is debug", "", "why does the page throw a syntax error", domain.CategoryDebug},
		{"settings talk is config", "", "configure the input parameter for the loader", domain.CategoryConfig},
		{"no match defaults to codegen", "", "hello there", domain.CategoryCodegen},
		{"tie broken by priority order", "", "design and build", domain.CategoryPlan},
		{"title hits outweigh excerpt hits", "Design Approach", "fix the bug error problem", domain.CategoryPlan},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreCategories(tc.title, tc.excerpt))
		})
	}
}

func TestKeywordClassifier_Classify(t *testing.T) {
	k := NewKeywordClassifier()

	s := domain.Session{
		Title:   "Abort Merge",
		Excerpt: "how to abort merge when the rebase goes wrong",
	}
	c, err := k.Classify(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryMeta, c.Category)
	assert.Equal(t, "Abort Merge", c.Title)
	assert.Equal(t, domain.ConfidenceLow, c.Confidence)
	assert.Equal(t, domain.SourceKeyword, c.Source)
	assert.Empty(t, c.Model)
}

func TestKeywordClassifier_PreviewBounded(t *testing.T) {
	k := NewKeywordClassifier()

	s := domain.Session{
		Title:   "Refactor Scanner",
		Excerpt: strings.TrimSpace(strings.Repeat("refactor the scanner module ", 20)),
	}
	c, err := k.Classify(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryRefactor, c.Category)
	assert.LessOrEqual(t, utf8.RuneCountInString(c.Preview), domain.PreviewMaxLen)
	assert.True(t, strings.HasSuffix(c.Preview, "..."))
}

func TestKeywordClassifier_EmptyExcerptDefaults(t *testing.T) {
	k := NewKeywordClassifier()

	c, err := k.Classify(context.Background(), domain.Session{Title: "Untitled"})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultCategory, c.Category)
	assert.Equal(t, domain.ConfidenceLow, c.Confidence)
}
