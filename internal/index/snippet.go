package index

import "strings"

const (
	snippetWindow = 20
	ellipsis      = "..."
	markOpen      = "<b>"
	markClose     = "</b>"
)

// buildSnippet returns a bounded excerpt of content around the first window
// of snippetWindow words containing the most query terms. Matched words are
// wrapped in <b> tags for caller-side highlighting; a truncated boundary is
// marked with an ellipsis. Falls back to the leading window when no term
// occurs in content (e.g. the match was in the title).
func buildSnippet(content string, terms []string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return ""
	}

	termSet := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		termSet[t] = struct{}{}
	}

	// matched[i] reports whether word i contains any query term.
	matched := make([]bool, len(words))
	for i, w := range words {
		for _, tok := range Tokenize(w) {
			if _, ok := termSet[tok]; ok {
				matched[i] = true
				break
			}
		}
	}

	window := snippetWindow
	if window > len(words) {
		window = len(words)
	}

	// First window with the highest count of matched words wins.
	best, bestCount := 0, -1
	count := 0
	for i := 0; i < window; i++ {
		if matched[i] {
			count++
		}
	}
	best, bestCount = 0, count
	for start := 1; start+window <= len(words); start++ {
		if matched[start-1] {
			count--
		}
		if matched[start+window-1] {
			count++
		}
		if count > bestCount {
			best, bestCount = start, count
		}
	}

	var sb strings.Builder
	if best > 0 {
		sb.WriteString(ellipsis)
		sb.WriteByte(' ')
	}
	for i := best; i < best+window; i++ {
		if i > best {
			sb.WriteByte(' ')
		}
		if matched[i] {
			sb.WriteString(markOpen)
			sb.WriteString(words[i])
			sb.WriteString(markClose)
		} else {
			sb.WriteString(words[i])
		}
	}
	if best+window < len(words) {
		sb.WriteByte(' ')
		sb.WriteString(ellipsis)
	}
	return sb.String()
}
