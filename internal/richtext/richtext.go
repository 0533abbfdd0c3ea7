// Package richtext flattens serialized editor documents into plain text
// suitable for indexing and word counting. The editor content format is a
// nested JSON document tree where leaf nodes carry a "text" field; anything
// that is not valid JSON is treated as already-plain text.
package richtext

import (
	"encoding/json"
	"strings"
)

type node struct {
	Text    string `json:"text"`
	Content []node `json:"content"`
}

// Flatten extracts the readable text of a serialized editor document.
// Block boundaries collapse to single spaces; surrounding whitespace is
// trimmed. Non-JSON input is returned trimmed, as-is.
func Flatten(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return trimmed
	}

	var root node
	if err := json.Unmarshal([]byte(trimmed), &root); err != nil {
		// Try a top-level array of nodes before giving up.
		var list []node
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return trimmed
		}
		root = node{Content: list}
	}

	var sb strings.Builder
	collect(&sb, root)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// WordCount returns the number of whitespace-separated words in the
// flattened document.
func WordCount(content string) int {
	return len(strings.Fields(Flatten(content)))
}

func collect(sb *strings.Builder, n node) {
	if n.Text != "" {
		sb.WriteString(n.Text)
		sb.WriteByte(' ')
	}
	for _, child := range n.Content {
		collect(sb, child)
	}
}
