package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-textnet/pkg/frequency"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Node",
	Description: "A word in the co-occurrence network",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"label":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"x":          &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"y":          &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"group":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"colorIndex": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"centrality": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"size":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var edgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Edge",
	Fields: graphql.Fields{
		"source": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"target": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"weight": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"width":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var groupType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Group",
	Description: "A detected community of words",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"members":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		"size":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"density":    &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"colorIndex": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var wordCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "WordCount",
	Fields: graphql.Fields{
		"word":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var summaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Summary",
	Fields: graphql.Fields{
		"documents":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalTokens": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"uniqueWords": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var networkType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Network",
	Description: "The render-ready result of one analysis",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"category": &graphql.Field{Type: graphql.String},
		"status": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if r, ok := p.Source.(*network.Result); ok {
					return string(r.Status), nil
				}
				return nil, nil
			},
		},
		"createdAt":         &graphql.Field{Type: graphql.DateTime},
		"modularity":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"detectionMethod":   &graphql.Field{Type: graphql.String},
		"detectionFallback": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"layoutMethod":      &graphql.Field{Type: graphql.String},
		"layoutFallback":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"nodes":             &graphql.Field{Type: graphql.NewList(nodeType)},
		"edges":             &graphql.Field{Type: graphql.NewList(edgeType)},
		"groups":            &graphql.Field{Type: graphql.NewList(groupType)},
		"summary":           &graphql.Field{Type: summaryType},
		"topWords": &graphql.Field{
			Type: graphql.NewList(wordCountType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: resolveTopWords,
		},
	},
})

var labelInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:        "LabelInput",
	Description: "Display label for a word",
	Fields: graphql.InputObjectConfigFieldMap{
		"word":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"label": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var recordInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:        "RecordInput",
	Description: "One free-text answer as a word list with its category",
	Fields: graphql.InputObjectConfigFieldMap{
		"category": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"words":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
	},
})

func resolveTopWords(p graphql.ResolveParams) (any, error) {
	r, ok := p.Source.(*network.Result)
	if !ok {
		return nil, nil
	}
	words := r.TopWords
	if limit, ok := p.Args["limit"].(int); ok && limit >= 0 && limit < len(words) {
		words = words[:limit]
	}
	if words == nil {
		words = []frequency.WordCount{}
	}
	return words, nil
}
