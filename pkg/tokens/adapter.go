package tokens

import (
	"unicode/utf8"
)

// Predicate decides whether a token is kept.
type Predicate func(Token) bool

// Adapter turns analyzed documents into word lists.
type Adapter struct {
	keep     Predicate
	surface  bool
	minRunes int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPredicate replaces the default part-of-speech filter. A nil predicate
// keeps every token.
func WithPredicate(p Predicate) Option {
	return func(a *Adapter) {
		if p == nil {
			p = func(Token) bool { return true }
		}
		a.keep = p
	}
}

// WithSurfaceForm emits surface forms instead of base forms.
func WithSurfaceForm() Option {
	return func(a *Adapter) { a.surface = true }
}

// WithMinRunes drops words shorter than n runes.
func WithMinRunes(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.minRunes = n
		}
	}
}

// NewAdapter creates an adapter that keeps content words in base form.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{
		keep:     ContentWord,
		minRunes: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Words returns the kept words of doc in token order, duplicates included.
func (a *Adapter) Words(doc Document) []string {
	words := make([]string, 0, len(doc))
	for _, tok := range doc {
		if !a.keep(tok) {
			continue
		}
		w := tok.Word()
		if a.surface {
			w = tok.Surface
		}
		if w == "" || utf8.RuneCountInString(w) < a.minRunes {
			continue
		}
		words = append(words, w)
	}
	return words
}

// FilterWords drops empty words and words shorter than the adapter's
// minimum rune count from an already extracted word list. The input is
// not modified.
func (a *Adapter) FilterWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || utf8.RuneCountInString(w) < a.minRunes {
			continue
		}
		out = append(out, w)
	}
	return out
}

// FilterDocuments applies FilterWords to every document, preserving
// document positions.
func (a *Adapter) FilterDocuments(docs [][]string) [][]string {
	out := make([][]string, len(docs))
	for i, doc := range docs {
		out[i] = a.FilterWords(doc)
	}
	return out
}

// Normalize applies Words to every document. Document positions are
// preserved, so a document with no kept words becomes an empty list.
func (a *Adapter) Normalize(docs []Document) [][]string {
	out := make([][]string, len(docs))
	for i, doc := range docs {
		out[i] = a.Words(doc)
	}
	return out
}
