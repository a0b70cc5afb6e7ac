package domain

import "strings"

type categoryInfo struct {
	color    string
	keywords []string
}

// taxonomy holds the matching keywords and display color for each category.
// Keyword scans walk CategoryOrder, so earlier categories win score ties.
var taxonomy = map[Category]categoryInfo{
	CategoryPlan: {
		color:    "#3B82F6",
		keywords: []string{"how to", "approach", "strategy", "plan", "design", "architecture", "finding"},
	},
	CategoryCodegen: {
		color:    "#10B981",
		keywords: []string{"create", "implement", "add", "build", "integrate", "generate", "construct"},
	},
	CategoryRefactor: {
		color:    "#8B5CF6",
		keywords: []string{"refactor", "improve", "clean", "organize", "reorganize", "rename", "move"},
	},
	CategoryDebug: {
		color:    "#F59E0B",
		keywords: []string{"error", "why", "issue", "fix", "fixing", "bug", "problem", "syntax error"},
	},
	CategoryFeature: {
		color:    "#EC4899",
		keywords: []string{"change", "update", "allow", "adjust", "selecting", "trigger", "show"},
	},
	CategoryReview: {
		color:    "#F97316",
		keywords: []string{"understanding", "what", "explain", "critique", "code review"},
	},
	CategoryMeta: {
		color:    "#6366F1",
		keywords: []string{"commit", "git", "merge", "abort", "branch"},
	},
	CategoryConfig: {
		color:    "#06B6D4",
		keywords: []string{"input", "parameter", "requirements", "settings", "configure"},
	},
}

// CategoryOrder lists the taxonomy in fixed priority order.
var CategoryOrder = []Category{
	CategoryPlan, CategoryCodegen, CategoryRefactor, CategoryDebug,
	CategoryFeature, CategoryReview, CategoryMeta, CategoryConfig,
}

// Categories returns a copy of the taxonomy in priority order.
func Categories() []Category {
	return append([]Category(nil), CategoryOrder...)
}

func (c Category) Valid() bool {
	_, ok := taxonomy[c]
	return ok
}

// Color returns the fixed display color for the category ("" if unknown).
func (c Category) Color() string {
	return taxonomy[c].color
}

// Keywords returns the match terms for the category.
func (c Category) Keywords() []string {
	return taxonomy[c].keywords
}

// categorySynonyms maps frequent off-taxonomy labels to canonical categories.
var categorySynonyms = map[string]Category{
	"bugfix":         CategoryDebug,
	"bug":            CategoryDebug,
	"fix":            CategoryDebug,
	"debugging":      CategoryDebug,
	"coding":         CategoryCodegen,
	"code":           CategoryCodegen,
	"implementation": CategoryCodegen,
	"codegeneration": CategoryCodegen,
	"cleanup":        CategoryRefactor,
	"refactoring":    CategoryRefactor,
	"planning":       CategoryPlan,
	"docs":           CategoryReview,
	"documentation":  CategoryReview,
	"question":       CategoryReview,
	"explanation":    CategoryReview,
	"setup":          CategoryConfig,
	"configuration":  CategoryConfig,
	"settings":       CategoryConfig,
	"git":            CategoryMeta,
	"tooling":        CategoryMeta,
}

// NormalizeCategory maps a raw label onto the taxonomy. The second return
// is true only for exact matches; synonym hits and the forced default both
// count as repairs.
func NormalizeCategory(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if ValidCategories[s] {
		return Category(s), true
	}
	if c, ok := categorySynonyms[s]; ok {
		return c, false
	}
	return DefaultCategory, false
}
