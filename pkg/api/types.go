package api

import (
	"encoding/json"

	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// AnalyzeRequest asks for one network over word-list documents.
// Config, when present, is a partial network.Config applied over the
// server's pipeline settings.
type AnalyzeRequest struct {
	Documents  [][]string        `json:"documents"`
	Category   string            `json:"category,omitempty"`
	Dictionary map[string]string `json:"dictionary,omitempty"`
	Config     json.RawMessage   `json:"config,omitempty"`
	Export     bool              `json:"export,omitempty"`
}

// CategoriesRequest asks for the overall network plus one per category.
type CategoriesRequest struct {
	Records    []network.Record  `json:"records"`
	Dictionary map[string]string `json:"dictionary,omitempty"`
	Config     json.RawMessage   `json:"config,omitempty"`
	Export     bool              `json:"export,omitempty"`
}

// CategoriesResponse lists the overall result first, then categories in order.
type CategoriesResponse struct {
	Results  []*network.Result `json:"results"`
	Exported int               `json:"exported,omitempty"`
}

// AnalyzeResponse wraps a single result with the number of results exported.
type AnalyzeResponse struct {
	*network.Result
	Exported int `json:"exported,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
