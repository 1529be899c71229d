package gql

import (
	"context"
	"encoding/json"

	"github.com/0xbe1/liquidated/schema"
	"github.com/0xbe1/liquidated/upstream"
	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
)

const defaultFirst = 100

type ResolverRoot interface {
	Query() QueryResolver
	Subscription() SubscriptionResolver
}

type QueryResolver interface {
	Execute(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

type SubscriptionResolver interface {
	Subscribe(ctx context.Context, req *upstream.Request) (<-chan *upstream.Response, error)
}

type Config struct {
	Schema    *schema.Schema
	Resolvers ResolverRoot
}

// NewExecutableSchema creates an ExecutableSchema that answers every
// validated operation by handing the whole document to the resolvers.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{
		schema:    cfg.Schema,
		resolvers: cfg.Resolvers,
	}
}

type executableSchema struct {
	schema    *schema.Schema
	resolvers ResolverRoot
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema.AST
}

// Complexity multiplies the cost of a paginated field by the page size.
func (e *executableSchema) Complexity(typeName, field string, childComplexity int, args map[string]interface{}) (int, bool) {
	if !e.schema.IsCollection(typeName, field) {
		return childComplexity + 1, true
	}
	first := defaultFirst
	if v, ok := intArg(args["first"]); ok && v >= 0 {
		first = v
	}
	if childComplexity < 1 {
		childComplexity = 1
	}
	return childComplexity * first, true
}

func intArg(v interface{}) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if root := classifyRoot(opCtx); root.introspection {
		if opCtx.DisableIntrospection {
			return graphql.OneShot(graphql.ErrorResponse(ctx, "introspection disabled"))
		}
		if root.data {
			return graphql.OneShot(graphql.ErrorResponse(ctx, "introspection fields cannot be combined with data fields"))
		}
		resp, err := e.introspect(opCtx)
		if err != nil {
			return graphql.OneShot(graphql.ErrorResponse(ctx, "%s", err.Error()))
		}
		return graphql.OneShot(resp)
	}
	req := &upstream.Request{
		Query:         opCtx.RawQuery,
		OperationName: opCtx.OperationName,
		Variables:     opCtx.Variables,
	}

	switch opCtx.Operation.Operation {
	case ast.Query:
		resp, err := e.resolvers.Query().Execute(ctx, req)
		if err != nil {
			return graphql.OneShot(graphql.ErrorResponse(ctx, "%s", err.Error()))
		}
		return graphql.OneShot(toGraphql(resp))
	case ast.Subscription:
		ch, err := e.resolvers.Subscription().Subscribe(ctx, req)
		if err != nil {
			return graphql.OneShot(graphql.ErrorResponse(ctx, "%s", err.Error()))
		}
		return func(ctx context.Context) *graphql.Response {
			select {
			case resp, ok := <-ch:
				if !ok {
					return nil
				}
				return toGraphql(resp)
			case <-ctx.Done():
				return nil
			}
		}
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "%s operations are not supported", opCtx.Operation.Operation))
	}
}

func toGraphql(resp *upstream.Response) *graphql.Response {
	return &graphql.Response{
		Data:       resp.Data,
		Errors:     resp.Errors.GQLErrors(),
		Extensions: resp.Extensions,
	}
}
