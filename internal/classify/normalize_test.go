package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/lapsehq/lapse/internal/domain"
)

func TestNormalize_NoRepair(t *testing.T) {
	norm, repair := Normalize(Candidate{
		Category: "debug",
		Title:    "Fix Login Crash",
		Preview:  "User reports a 500 when submitting the login form.",
	})

	assert.Equal(t, RepairNone, repair)
	assert.Equal(t, domain.CategoryDebug, norm.Category)
	assert.Equal(t, "Fix Login Crash", norm.Title)
	assert.Equal(t, "User reports a 500 when submitting the login form.", norm.Preview)
}

func TestNormalize_SynonymRemap(t *testing.T) {
	norm, repair := Normalize(Candidate{Category: "bugfix", Title: "X", Preview: "Y"})

	assert.Equal(t, RepairCategory, repair)
	assert.Equal(t, domain.CategoryDebug, norm.Category)
}

func TestNormalize_UnknownCategoryForcedToDefault(t *testing.T) {
	norm, repair := Normalize(Candidate{Category: "shenanigans", Title: "X", Preview: "Y"})

	assert.Equal(t, RepairCategory, repair)
	assert.Equal(t, domain.DefaultCategory, norm.Category)
}

func TestNormalize_TitleTruncatedAtWordBoundary(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 30))
	norm, repair := Normalize(Candidate{Category: "plan", Title: long, Preview: "Y"})

	assert.Equal(t, RepairTruncated, repair)
	assert.LessOrEqual(t, utf8.RuneCountInString(norm.Title), domain.TitleMaxLen)
	assert.True(t, strings.HasSuffix(norm.Title, "..."))
	for _, w := range strings.Fields(strings.TrimSuffix(norm.Title, "...")) {
		assert.Equal(t, "word", w)
	}
}

func TestNormalize_PreviewTruncated(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("summary ", 40))
	norm, repair := Normalize(Candidate{Category: "plan", Title: "T", Preview: long})

	assert.Equal(t, RepairTruncated, repair)
	assert.LessOrEqual(t, utf8.RuneCountInString(norm.Preview), domain.PreviewMaxLen)
}

func TestNormalize_CategoryRepairOutranksTruncation(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 30))
	_, repair := Normalize(Candidate{Category: "bugfix", Title: long, Preview: "Y"})

	assert.Equal(t, RepairCategory, repair)
}

func TestNormalize_CollapsesWhitespaceWithoutRepair(t *testing.T) {
	norm, repair := Normalize(Candidate{
		Category: "review",
		Title:    "  Explain\nthe  Parser ",
		Preview:  "One\tline.",
	})

	assert.Equal(t, RepairNone, repair)
	assert.Equal(t, "Explain the Parser", norm.Title)
	assert.Equal(t, "One line.", norm.Preview)
}

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, domain.ConfidenceHigh, ConfidenceFor(RepairNone))
	assert.Equal(t, domain.ConfidenceMedium, ConfidenceFor(RepairTruncated))
	assert.Equal(t, domain.ConfidenceLow, ConfidenceFor(RepairCategory))
}
