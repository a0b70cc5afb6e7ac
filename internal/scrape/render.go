package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Cursor stores chat state as undocumented JSON blobs whose shapes
// drift across releases. Recognized shapes render as SpecStory-style
// user/assistant blocks; anything else is preserved as a fenced JSON
// dump instead of being dropped.

type chatData struct {
	Tabs []chatTab `json:"tabs"`
}

type chatTab struct {
	Title    string        `json:"title"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type promptEntry struct {
	Text string `json:"text"`
}

const (
	userMarker      = "_**User**_"
	assistantMarker = "_**Assistant**_"
)

// renderBody turns one ItemTable value into export markdown. An empty
// result means the value held no conversation content and no file
// should be written.
func renderBody(key string, value []byte) string {
	switch key {
	case keyChatData:
		if body, ok := chatBody(value); ok {
			return body
		}
	case keyPrompts:
		if body, ok := promptsBody(value); ok {
			return body
		}
	}
	return rawBody(value)
}

func chatBody(value []byte) (string, bool) {
	var data chatData
	if err := json.Unmarshal(value, &data); err != nil || data.Tabs == nil {
		return "", false
	}
	var b strings.Builder
	blocks := 0
	for _, tab := range data.Tabs {
		title := strings.TrimSpace(tab.Title)
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		for _, m := range tab.Messages {
			content := strings.TrimSpace(m.Content)
			if content == "" {
				continue
			}
			// Cursor omits the role on some user messages.
			marker := assistantMarker
			if m.Role == "" || m.Role == "user" {
				marker = userMarker
			}
			fmt.Fprintf(&b, "%s\n\n%s\n\n---\n\n", marker, content)
			blocks++
		}
	}
	if blocks == 0 {
		return "", true
	}
	return b.String(), true
}

func promptsBody(value []byte) (string, bool) {
	var prompts []promptEntry
	if err := json.Unmarshal(value, &prompts); err != nil {
		return "", false
	}
	var b strings.Builder
	n := 0
	for _, p := range prompts {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "%s\n\n%s\n\n---\n\n", userMarker, text)
		n++
	}
	if n == 0 {
		return "", true
	}
	return b.String(), true
}

func rawBody(value []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, value, "", "  "); err != nil {
		buf.Reset()
		buf.Write(value)
	}
	return "```json\n" + buf.String() + "\n```\n"
}

// slugify reduces a workspace directory name to the lowercase
// dash-separated form the export filename convention expects.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "workspace"
	}
	return s
}
