package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// DefaultMaxDepth bounds query nesting; Network.nodes.id has depth 2.
const DefaultMaxDepth = 5

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(ctx context.Context, query string, schema graphql.Schema) *graphql.Result {
	return ExecuteQueryWithVariables(ctx, query, schema, nil)
}

// ExecuteQueryWithVariables executes a GraphQL query with variables after
// checking it against DefaultMaxDepth.
func ExecuteQueryWithVariables(ctx context.Context, query string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	if err := ValidateQueryDepth(query, DefaultMaxDepth); err != nil {
		return &graphql.Result{
			Errors: []gqlerrors.FormattedError{gqlerrors.FormatError(err)},
		}
	}

	params := graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	}
	return graphql.Do(params)
}
