package classify

import (
	"fmt"
	"time"

	"github.com/lapsehq/lapse/internal/domain"
)

// classifySystemPrompt fixes the category taxonomy, decision rules, and
// strict-JSON output contract for the chat API.
const classifySystemPrompt = `You are an expert product analyst for software engineering sessions. Given the content of a single chat session (extracted from a markdown conversation), produce a structured summary.

Output STRICT JSON with keys: category, title, preview. No extra fields, comments, or prose.

Requirements:
- category: choose exactly one from {plan, codegen, refactor, debug, feature, review, meta, config}.
  - plan: questions about approach/strategy/design
  - codegen: requests to create/implement/add/build/integrate code
  - refactor: improvements/renames/reorg/cleanup
  - debug: errors/why/fix/bug/problem
  - feature: change/update/allow/adjust/show/trigger/selecting
  - review: explain/critique/understand/code review
  - meta: git/commit/merge/branch/CI
  - config: inputs/parameters/settings/configuration requirements
- title: Title Case, specific and action-oriented. If the user asks a question, convert to a clear, descriptive title.
- preview: One short sentence summarizing the user's ask or the task outcome. At most 120 characters. No markdown.

Return format:
{"category":"...","title":"...","preview":"..."}`

// repromptInstruction is appended after an unparseable response to demand
// bare JSON on the single retry.
const repromptInstruction = `Your previous response was not a single valid JSON object. Respond again with ONLY the JSON object {"category":"...","title":"...","preview":"..."} and nothing else.`

// buildClassifyUserPrompt carries the per-session facts the model needs.
func buildClassifyUserPrompt(s domain.Session) string {
	return fmt.Sprintf("Filename: %s\nTimestamp: %s\n\nUser request (excerpt):\n%s\n\nTask: Produce JSON with keys category, title, preview.",
		s.Filename, s.StartedAt.UTC().Format(time.RFC3339), s.Excerpt)
}
