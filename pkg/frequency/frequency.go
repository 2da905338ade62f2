// Package frequency counts word occurrences for bar charts, word clouds and
// corpus summaries.
package frequency

import (
	"sort"

	"github.com/dd0wney/cluso-textnet/pkg/tokens"
)

// WordCount is one row of a frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Summary describes the corpus a table was counted from.
type Summary struct {
	Documents   int `json:"documents"`
	TotalTokens int `json:"total_tokens"`
	UniqueWords int `json:"unique_words"`
}

// Table holds per-word occurrence counts in first-seen order.
type Table struct {
	rows      []WordCount
	index     map[string]int
	documents int
	total     int
}

// Count tallies every occurrence of every non-stopword in docs.
func Count(docs [][]string, stopwords tokens.StopwordSet) *Table {
	t := &Table{
		index:     make(map[string]int),
		documents: len(docs),
	}
	for _, doc := range docs {
		for _, w := range doc {
			if w == "" || stopwords.Contains(w) {
				continue
			}
			t.total++
			if i, ok := t.index[w]; ok {
				t.rows[i].Count++
				continue
			}
			t.index[w] = len(t.rows)
			t.rows = append(t.rows, WordCount{Word: w, Count: 1})
		}
	}
	return t
}

// Top returns the n most frequent words, ties in first-seen order.
// n <= 0 returns every word.
func (t *Table) Top(n int) []WordCount {
	sorted := append([]WordCount(nil), t.rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Stopwords derives a corpus-specific stopword list: the topN most frequent
// words followed by every word seen at most minFreq times, in first-seen
// order. Zero disables either part.
func (t *Table) Stopwords(topN, minFreq int) []string {
	var words []string
	seen := make(map[string]struct{})
	if topN > 0 {
		for _, wc := range t.Top(topN) {
			seen[wc.Word] = struct{}{}
			words = append(words, wc.Word)
		}
	}
	if minFreq > 0 {
		for _, wc := range t.rows {
			if _, dup := seen[wc.Word]; dup || wc.Count > minFreq {
				continue
			}
			words = append(words, wc.Word)
		}
	}
	return words
}

// Get returns the count of word.
func (t *Table) Get(word string) int {
	if i, ok := t.index[word]; ok {
		return t.rows[i].Count
	}
	return 0
}

func (t *Table) Summary() Summary {
	return Summary{
		Documents:   t.documents,
		TotalTokens: t.total,
		UniqueWords: len(t.rows),
	}
}
