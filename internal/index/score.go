package index

import (
	"math"
	"strings"
	"unicode"
)

// Title terms count this many times when building a document, which is how
// title matches outrank body matches under plain TF-IDF.
const titleWeight = 3

// Tokenize lowercases s and splits it into tokens on any character that is
// not a letter or digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Document is the tokenized form of one record, prepared for matching and
// scoring.
type Document struct {
	Record Record
	freq   map[string]int
	length int
}

// NewDocument tokenizes a record over title (weighted), content, and tags.
func NewDocument(rec Record) *Document {
	d := &Document{Record: rec, freq: make(map[string]int)}
	d.add(Tokenize(rec.Title), titleWeight)
	d.add(Tokenize(rec.Content), 1)
	d.add(Tokenize(rec.joinedTags()), 1)
	return d
}

func (d *Document) add(tokens []string, weight int) {
	for _, t := range tokens {
		d.freq[t] += weight
		d.length += weight
	}
}

// TermFreq returns the weighted occurrence count of term in the document.
func (d *Document) TermFreq(term string) int { return d.freq[term] }

// Length returns the total weighted token count.
func (d *Document) Length() int { return d.length }

// MatchesAll reports whether every term occurs in the document.
func (d *Document) MatchesAll(terms []string) bool {
	for _, t := range terms {
		if d.freq[t] == 0 {
			return false
		}
	}
	return true
}

// CorpusStats carries the collection statistics a scorer needs.
type CorpusStats struct {
	DocCount int
	DocFreq  map[string]int // number of candidate documents containing each query term
}

// Scorer computes a relevance score for one matching document; higher is
// more relevant. The final rank exposed to callers is the negated score, so
// lower rank means a better match.
type Scorer interface {
	Score(terms []string, doc *Document, stats CorpusStats) float64
}

// TFIDFScorer is the default ranking function: the sum over query terms of
// term frequency times inverse document frequency.
type TFIDFScorer struct{}

// Score implements Scorer.
func (TFIDFScorer) Score(terms []string, doc *Document, stats CorpusStats) float64 {
	if doc.Length() == 0 {
		return 0
	}
	var score float64
	for _, t := range terms {
		tf := float64(doc.TermFreq(t)) / float64(doc.Length())
		idf := math.Log(1 + float64(stats.DocCount)/float64(1+stats.DocFreq[t]))
		score += tf * idf
	}
	return score
}
