package index

import (
	"reflect"
	"testing"

	"github.com/starford/tavle/internal/models"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"foo_bar baz-qux", []string{"foo", "bar", "baz", "qux"}},
		{"  ", nil},
		{"123 abc123", []string{"123", "abc123"}},
	}
	for _, c := range cases {
		got := Tokenize(c.in)
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDocumentTitleWeighting(t *testing.T) {
	doc := NewDocument(Record{Type: models.EntityCard, ID: "c", Title: "apple", Content: "apple"})
	if got := doc.TermFreq("apple"); got != titleWeight+1 {
		t.Errorf("TermFreq = %d, want %d", got, titleWeight+1)
	}
}

func TestDocumentMatchesAll(t *testing.T) {
	doc := NewDocument(Record{Type: models.EntityCard, ID: "c", Content: "alpha beta"})
	if !doc.MatchesAll([]string{"alpha", "beta"}) {
		t.Error("expected match for both terms")
	}
	if doc.MatchesAll([]string{"alpha", "gamma"}) {
		t.Error("unexpected match for missing term")
	}
}

func TestTFIDFRareTermScoresHigher(t *testing.T) {
	common := NewDocument(Record{Type: models.EntityCard, ID: "a", Content: "common word"})
	rare := NewDocument(Record{Type: models.EntityCard, ID: "b", Content: "scarce word"})

	stats := CorpusStats{
		DocCount: 10,
		DocFreq:  map[string]int{"common": 9, "scarce": 1},
	}
	var s TFIDFScorer
	if s.Score([]string{"scarce"}, rare, stats) <= s.Score([]string{"common"}, common, stats) {
		t.Error("rare term should score higher than common term")
	}
}

func TestTFIDFEmptyDocument(t *testing.T) {
	var s TFIDFScorer
	doc := NewDocument(Record{Type: models.EntityCard, ID: "x"})
	if got := s.Score([]string{"term"}, doc, CorpusStats{DocCount: 1, DocFreq: map[string]int{}}); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}
