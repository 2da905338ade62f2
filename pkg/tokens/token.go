// Package tokens adapts the output of an external morphological analyzer into
// the word lists consumed by the co-occurrence graph builder.
package tokens

import (
	"strings"
)

// Token is one analyzed unit of text.
type Token struct {
	Surface  string `json:"surface"`
	BaseForm string `json:"base_form,omitempty"`
	// POS is the part-of-speech string as emitted by the analyzer. Analyzers
	// such as MeCab/Janome emit comma-separated hierarchies ("名詞,一般,*,*").
	POS string `json:"pos,omitempty"`
}

// Document is the token sequence of one free-text answer.
type Document []Token

// Word returns the base form when the analyzer produced one, else the surface.
func (t Token) Word() string {
	if t.BaseForm != "" && t.BaseForm != "*" {
		return t.BaseForm
	}
	return t.Surface
}

// PrimaryPOS returns the first segment of a hierarchical POS string.
func (t Token) PrimaryPOS() string {
	pos := t.POS
	if i := strings.IndexByte(pos, ','); i >= 0 {
		pos = pos[:i]
	}
	return strings.TrimSpace(pos)
}

var contentPOS = map[string]struct{}{
	"名詞":        {},
	"動詞":        {},
	"形容詞":       {},
	"副詞":        {},
	"noun":      {},
	"verb":      {},
	"adjective": {},
	"adverb":    {},
	"NOUN":      {},
	"PROPN":     {},
	"VERB":      {},
	"ADJ":       {},
	"ADV":       {},
}

// ContentWord reports whether tok is a noun, verb, adjective or adverb.
func ContentWord(tok Token) bool {
	_, ok := contentPOS[tok.PrimaryPOS()]
	return ok
}
