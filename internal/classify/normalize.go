package classify

import "github.com/lapsehq/lapse/internal/domain"

// Candidate is a raw classification produced by a strategy before
// normalization. Field values are untrusted.
type Candidate struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
}

// Repair describes how much correction a candidate needed, ordered by
// severity.
type Repair int

const (
	RepairNone Repair = iota
	RepairTruncated
	RepairCategory
)

// Normalized is a candidate corrected onto the output contract.
type Normalized struct {
	Category domain.Category
	Title    string
	Preview  string
}

// Normalize forces a candidate onto the output contract: the category must
// be a taxonomy member (synonym remap first, then the forced default), and
// title and preview are held to their rune limits by word-boundary
// truncation. It never fails; the returned Repair records the most severe
// correction applied.
func Normalize(c Candidate) (Normalized, Repair) {
	repair := RepairNone

	category, exact := domain.NormalizeCategory(c.Category)
	if !exact {
		repair = RepairCategory
	}

	title := domain.CollapseSpace(c.Title)
	if t := domain.TruncateAtWord(title, domain.TitleMaxLen); t != title {
		title = t
		if repair < RepairTruncated {
			repair = RepairTruncated
		}
	}

	preview := domain.CollapseSpace(c.Preview)
	if p := domain.TruncateAtWord(preview, domain.PreviewMaxLen); p != preview {
		preview = p
		if repair < RepairTruncated {
			repair = RepairTruncated
		}
	}

	return Normalized{Category: category, Title: title, Preview: preview}, repair
}

// ConfidenceFor maps a repair level to the recorded confidence: untouched
// results stay high, truncation-only repairs drop to medium, and category
// rewrites drop to low.
func ConfidenceFor(r Repair) domain.Confidence {
	switch r {
	case RepairNone:
		return domain.ConfidenceHigh
	case RepairTruncated:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
