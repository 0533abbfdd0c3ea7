package index

import (
	"strings"
	"testing"
)

func TestSnippetShortContentNoEllipsis(t *testing.T) {
	got := buildSnippet("just a needle here", []string{"needle"})
	want := "just a <b>needle</b> here"
	if got != want {
		t.Errorf("snippet = %q, want %q", got, want)
	}
}

func TestSnippetWindowAroundDensestMatch(t *testing.T) {
	content := strings.Repeat("pad ", 50) + "alpha beta " + strings.Repeat("pad ", 50)
	got := buildSnippet(content, []string{"alpha", "beta"})

	if !strings.Contains(got, "<b>alpha</b>") || !strings.Contains(got, "<b>beta</b>") {
		t.Errorf("snippet missing marked terms: %q", got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipses at both boundaries: %q", got)
	}
	if n := len(strings.Fields(got)); n > snippetWindow+2 {
		t.Errorf("snippet has %d words, want <= window+ellipses", n)
	}
}

func TestSnippetNoMatchFallsBackToLeadingWindow(t *testing.T) {
	content := strings.Repeat("word ", 40)
	got := buildSnippet(content, []string{"absent"})
	if !strings.HasPrefix(got, "word") {
		t.Errorf("snippet = %q, want leading window", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated tail should carry ellipsis: %q", got)
	}
}

func TestSnippetEmptyContent(t *testing.T) {
	if got := buildSnippet("", []string{"x"}); got != "" {
		t.Errorf("snippet = %q, want empty", got)
	}
}

func TestSnippetMatchesWordWithPunctuation(t *testing.T) {
	got := buildSnippet("find the needle, please", []string{"needle"})
	if !strings.Contains(got, "<b>needle,</b>") {
		t.Errorf("punctuated word should be marked whole: %q", got)
	}
}
