package network

import (
	"errors"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/frequency"
	"github.com/dd0wney/cluso-textnet/pkg/tokens"
)

var (
	// ErrInvalidInput is returned for documents or categories that break request limits.
	ErrInvalidInput = errors.New("invalid input")

	errPaddingTooLarge = errors.New("padding leaves no drawing area")
)

// Status of an analysis
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
)

// RenderNode is one word of the network, ready to draw.
type RenderNode struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Group      int     `json:"group"`
	ColorIndex int     `json:"color_index"`
	Centrality float64 `json:"centrality"`
	Size       float64 `json:"size"`
}

// RenderEdge is one co-occurrence, ready to draw.
type RenderEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight int     `json:"weight"`
	Width  float64 `json:"width"`
}

// Group is one detected community.
type Group struct {
	ID         int      `json:"id"`
	Members    []string `json:"members"`
	Size       int      `json:"size"`
	Density    float64  `json:"density"`
	ColorIndex int      `json:"color_index"`
}

// Result is the render-ready output of one analysis.
type Result struct {
	ID        string    `json:"id"`
	Category  string    `json:"category,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Nodes  []RenderNode `json:"nodes"`
	Edges  []RenderEdge `json:"edges"`
	Groups []Group      `json:"groups"`

	Modularity        float64 `json:"modularity"`
	DetectionMethod   string  `json:"detection_method,omitempty"`
	DetectionFallback bool    `json:"detection_fallback"`
	LayoutMethod      string  `json:"layout_method,omitempty"`
	LayoutFallback    bool    `json:"layout_fallback"`

	TopWords []frequency.WordCount `json:"top_words"`
	Summary  frequency.Summary     `json:"summary"`

	// ExcludedWords are the frequency-derived stopwords left out of the graph.
	ExcludedWords []string `json:"excluded_words,omitempty"`
}

// Input is one document set to analyse.
type Input struct {
	Category   string
	Documents  [][]string
	Dictionary map[string]string

	// DerivedStopwords, when non-nil, replaces the stopwords the pipeline
	// would derive from Documents' word frequencies.
	DerivedStopwords []string
}

// Record is one free-text answer with its category. Tokens, when present,
// take precedence over Words.
type Record struct {
	Category string          `json:"category"`
	Words    []string        `json:"words,omitempty"`
	Tokens   tokens.Document `json:"tokens,omitempty"`
}
