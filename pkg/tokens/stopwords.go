package tokens

// StopwordSet is a set of words excluded from graph construction.
// The zero value (nil) is an empty set.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from the given words, skipping empty strings.
func NewStopwordSet(words ...string) StopwordSet {
	s := make(StopwordSet, len(words))
	for _, w := range words {
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains reports whether w is a stopword. Safe on a nil set.
func (s StopwordSet) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// Len returns the number of stopwords.
func (s StopwordSet) Len() int {
	return len(s)
}

// Merge returns a new set holding the words of s and other.
func (s StopwordSet) Merge(other StopwordSet) StopwordSet {
	out := make(StopwordSet, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}

// DefaultStopwords returns the generic Japanese function nouns that carry no
// topical meaning in survey answers.
func DefaultStopwords() StopwordSet {
	return NewStopwordSet("それ", "あれ", "これ", "ため", "よう", "もの", "こと")
}
