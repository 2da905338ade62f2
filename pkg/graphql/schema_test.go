package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	schema, err := GenerateSchema(NewResolver(network.DefaultConfig(), network.WithLogger(logging.NewNopLogger())))
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	return schema
}

func decode(t *testing.T, result *graphql.Result, v any) {
	t.Helper()
	if result.HasErrors() {
		t.Fatalf("Query errors: %v", result.Errors)
	}
	data, err := json.Marshal(result.Data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
}

func TestHealthQuery(t *testing.T) {
	result := ExecuteQuery(context.Background(), `{ health }`, testSchema(t))
	var out struct{ Health string }
	decode(t, result, &out)
	if out.Health != "ok" {
		t.Errorf("health = %q", out.Health)
	}
}

func TestAnalyzeQuery(t *testing.T) {
	query := `{
		analyze(
			documents: [["猫", "好き"], ["猫", "散歩"], ["猫", "好き"]],
			dictionary: [{word: "猫", label: "cat"}]
		) {
			status
			detectionMethod
			layoutMethod
			nodes { id label centrality size }
			edges { source target weight }
			groups { id size members }
			topWords(limit: 1) { word count }
			summary { documents totalTokens uniqueWords }
		}
	}`

	var out struct {
		Analyze struct {
			Status          string
			DetectionMethod string
			LayoutMethod    string
			Nodes           []struct {
				ID         string
				Label      string
				Centrality float64
				Size       float64
			}
			Edges []struct {
				Source, Target string
				Weight         int
			}
			Groups []struct {
				ID, Size int
				Members  []string
			}
			TopWords []struct {
				Word  string
				Count int
			}
			Summary struct {
				Documents, TotalTokens, UniqueWords int
			}
		}
	}
	decode(t, ExecuteQuery(context.Background(), query, testSchema(t)), &out)

	a := out.Analyze
	if a.Status != "ok" {
		t.Errorf("status = %q", a.Status)
	}
	if len(a.Nodes) != 3 || len(a.Edges) != 2 || len(a.Groups) != 1 {
		t.Fatalf("Unexpected shape: %+v", a)
	}
	if a.Nodes[0].ID != "猫" || a.Nodes[0].Label != "cat" || a.Nodes[0].Centrality != 1 {
		t.Errorf("First node = %+v", a.Nodes[0])
	}
	if a.Edges[0].Weight != 2 {
		t.Errorf("Heaviest edge = %+v", a.Edges[0])
	}
	if len(a.TopWords) != 1 || a.TopWords[0].Word != "猫" || a.TopWords[0].Count != 3 {
		t.Errorf("topWords = %+v", a.TopWords)
	}
	if a.Summary.Documents != 3 || a.Summary.UniqueWords != 3 {
		t.Errorf("summary = %+v", a.Summary)
	}
}

func TestAnalyzeQuery_Insufficient(t *testing.T) {
	result := ExecuteQuery(context.Background(), `{ analyze(documents: []) { status nodes { id } } }`, testSchema(t))
	var out struct {
		Analyze struct {
			Status string
			Nodes  []any
		}
	}
	decode(t, result, &out)
	if out.Analyze.Status != "insufficient_data" || len(out.Analyze.Nodes) != 0 {
		t.Errorf("Unexpected result: %+v", out.Analyze)
	}
}

func TestAnalyzeQuery_InvalidOverride(t *testing.T) {
	result := ExecuteQuery(context.Background(), `{ analyze(documents: [["a","b"]], topEdges: 0) { status } }`, testSchema(t))
	if !result.HasErrors() {
		t.Fatal("Expected an error for topEdges: 0")
	}
	if !strings.Contains(result.Errors[0].Message, "invalid configuration") {
		t.Errorf("Error = %q", result.Errors[0].Message)
	}
}

func TestAnalyzeCategoriesQuery(t *testing.T) {
	query := `query($records: [RecordInput!]!) {
		analyzeCategories(records: $records) { category status edges { source target } }
	}`
	variables := map[string]any{
		"records": []any{
			map[string]any{"category": "b", "words": []any{"x", "y"}},
			map[string]any{"category": "a", "words": []any{"p", "q"}},
		},
	}

	var out struct {
		AnalyzeCategories []struct {
			Category string
			Status   string
			Edges    []struct{ Source, Target string }
		}
	}
	decode(t, ExecuteQueryWithVariables(context.Background(), query, testSchema(t), variables), &out)

	if len(out.AnalyzeCategories) != 3 {
		t.Fatalf("Expected overall plus 2 categories, got %d", len(out.AnalyzeCategories))
	}
	if out.AnalyzeCategories[1].Category != "a" || out.AnalyzeCategories[2].Category != "b" {
		t.Errorf("Categories out of order: %+v", out.AnalyzeCategories)
	}
	if len(out.AnalyzeCategories[0].Edges) != 2 {
		t.Errorf("Overall edges = %+v", out.AnalyzeCategories[0].Edges)
	}
}

func TestValidateQueryDepth(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		max     int
		wantErr bool
	}{
		{"leaf only", `{ health }`, 1, false},
		{"nested", `{ analyze(documents: []) { nodes { id } } }`, 2, false},
		{"too deep", `{ analyze(documents: []) { nodes { id } } }`, 1, true},
		{"introspection ignored", `{ __schema { types { name } } }`, 1, false},
		{"parse error", `{ analyze(`, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQueryDepth(tt.query, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQueryDepth() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphQLHTTPHandler(t *testing.T) {
	handler := NewGraphQLHandler(testSchema(t), 1<<20)

	body, _ := json.Marshal(GraphQLRequest{
		Query:     `query($docs: [[String!]!]!) { analyze(documents: $docs) { status edges { weight } } }`,
		Variables: map[string]any{"docs": [][]string{{"a", "b"}}},
	})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp GraphQLResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("Unexpected errors: %v", resp.Errors)
	}
	data := resp.Data.(map[string]any)["analyze"].(map[string]any)
	if data["status"] != "ok" {
		t.Errorf("status = %v", data["status"])
	}
}

func TestGraphQLHTTPHandler_Rejects(t *testing.T) {
	handler := NewGraphQLHandler(testSchema(t), 16)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query": "{ health health health }"}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Oversized body status = %d, want 400", w.Code)
	}
}
