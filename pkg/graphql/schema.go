// Package graphql exposes the analysis pipeline as a GraphQL query API.
package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// Resolver builds a pipeline per query from the base configuration and
// the query's overrides.
type Resolver struct {
	base network.Config
	opts []network.Option
}

// NewResolver returns a resolver whose pipelines start from base and use opts.
func NewResolver(base network.Config, opts ...network.Option) *Resolver {
	return &Resolver{base: base, opts: opts}
}

// GenerateSchema builds the schema:
//
//	analyze(documents, dictionary, category, ...overrides): Network
//	analyzeCategories(records, dictionary, ...overrides): [Network]
//	health: String
func GenerateSchema(r *Resolver) (graphql.Schema, error) {
	overrides := graphql.FieldConfigArgument{
		"topEdges":          &graphql.ArgumentConfig{Type: graphql.Int},
		"minEdgeFrequency":  &graphql.ArgumentConfig{Type: graphql.Int},
		"detectCommunities": &graphql.ArgumentConfig{Type: graphql.Boolean},
		"communityMethod":   &graphql.ArgumentConfig{Type: graphql.String},
		"layoutMethod":      &graphql.ArgumentConfig{Type: graphql.String},
		"seed":              &graphql.ArgumentConfig{Type: graphql.Int},
		"topWords":          &graphql.ArgumentConfig{Type: graphql.Int},
		"dictionary":        &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(labelInputType))},
	}

	analyzeArgs := graphql.FieldConfigArgument{
		"documents": &graphql.ArgumentConfig{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))))),
		},
		"category": &graphql.ArgumentConfig{Type: graphql.String},
	}
	categoriesArgs := graphql.FieldConfigArgument{
		"records": &graphql.ArgumentConfig{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(recordInputType))),
		},
	}
	for name, arg := range overrides {
		analyzeArgs[name] = arg
		categoriesArgs[name] = arg
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"analyze": &graphql.Field{
				Type:    networkType,
				Args:    analyzeArgs,
				Resolve: r.resolveAnalyze,
			},
			"analyzeCategories": &graphql.Field{
				Type:    graphql.NewList(networkType),
				Args:    categoriesArgs,
				Resolve: r.resolveCategories,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func (r *Resolver) resolveAnalyze(p graphql.ResolveParams) (any, error) {
	pipeline, err := r.pipeline(p.Args)
	if err != nil {
		return nil, err
	}
	docs, err := stringMatrix(p.Args["documents"])
	if err != nil {
		return nil, err
	}
	category, _ := p.Args["category"].(string)

	return pipeline.Analyze(contextOf(p), network.Input{
		Category:   category,
		Documents:  docs,
		Dictionary: dictionary(p.Args["dictionary"]),
	})
}

func (r *Resolver) resolveCategories(p graphql.ResolveParams) (any, error) {
	pipeline, err := r.pipeline(p.Args)
	if err != nil {
		return nil, err
	}

	raw, _ := p.Args["records"].([]any)
	records := make([]network.Record, 0, len(raw))
	for i, item := range raw {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("records[%d]: expected an object", i)
		}
		words, err := stringList(fields["words"])
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		category, _ := fields["category"].(string)
		records = append(records, network.Record{Category: category, Words: words})
	}

	return pipeline.RunCategories(contextOf(p), records, dictionary(p.Args["dictionary"]))
}

func (r *Resolver) pipeline(args map[string]any) (*network.Pipeline, error) {
	cfg := r.base
	if v, ok := args["topEdges"].(int); ok {
		cfg.TopEdges = v
	}
	if v, ok := args["minEdgeFrequency"].(int); ok {
		cfg.MinEdgeFrequency = v
	}
	if v, ok := args["detectCommunities"].(bool); ok {
		cfg.DetectCommunities = v
	}
	if v, ok := args["communityMethod"].(string); ok {
		cfg.CommunityMethod = v
	}
	if v, ok := args["layoutMethod"].(string); ok {
		cfg.LayoutMethod = v
	}
	if v, ok := args["seed"].(int); ok {
		cfg.Seed = int64(v)
	}
	if v, ok := args["topWords"].(int); ok {
		cfg.TopWords = v
	}
	return network.New(cfg, r.opts...)
}

func contextOf(p graphql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}

func stringList(v any) ([]string, error) {
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMatrix(v any) ([][]string, error) {
	raw, _ := v.([]any)
	out := make([][]string, 0, len(raw))
	for i, item := range raw {
		doc, err := stringList(item)
		if err != nil {
			return nil, fmt.Errorf("documents[%d]: %w", i, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func dictionary(v any) map[string]string {
	raw, _ := v.([]any)
	if len(raw) == 0 {
		return nil
	}
	dict := make(map[string]string, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		word, _ := entry["word"].(string)
		label, _ := entry["label"].(string)
		dict[word] = label
	}
	return dict
}
