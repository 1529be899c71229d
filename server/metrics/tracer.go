package metrics

import (
	"context"
	"time"

	"github.com/0xbe1/liquidated/metrics"
	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
)

// Tracer is a gqlgen extension recording every response of an operation.
type Tracer struct{}

var _ interface {
	graphql.HandlerExtension
	graphql.ResponseInterceptor
} = Tracer{}

func (Tracer) ExtensionName() string {
	return "Prometheus"
}

func (Tracer) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (Tracer) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	if !graphql.HasOperationContext(ctx) {
		return next(ctx)
	}
	start := time.Now()
	resp := next(ctx)
	if resp == nil {
		return resp
	}
	opCtx := graphql.GetOperationContext(ctx)
	operation, field := "unknown", "unknown"
	if opCtx.Operation != nil {
		operation = string(opCtx.Operation.Operation)
		field = rootField(opCtx.Operation)
	}
	status := "ok"
	if len(resp.Errors) > 0 {
		status = "error"
	}
	metrics.ObserveGraphql(operation, field, status, time.Since(start))
	return resp
}

// rootField names the first root field of the operation; a single label keeps cardinality bounded.
func rootField(op *ast.OperationDefinition) string {
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*ast.Field); ok {
			return f.Name
		}
	}
	return "unknown"
}
