package domain

type Category string

const (
	CategoryPlan     Category = "plan"
	CategoryCodegen  Category = "codegen"
	CategoryRefactor Category = "refactor"
	CategoryDebug    Category = "debug"
	CategoryFeature  Category = "feature"
	CategoryReview   Category = "review"
	CategoryMeta     Category = "meta"
	CategoryConfig   Category = "config"
)

// DefaultCategory is assigned when neither strategy yields a usable label.
const DefaultCategory = CategoryCodegen

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Source string

const (
	SourceOpenAI  Source = "openai"
	SourceKeyword Source = "keyword"
)

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	"plan": true, "codegen": true, "refactor": true, "debug": true,
	"feature": true, "review": true, "meta": true, "config": true,
}
