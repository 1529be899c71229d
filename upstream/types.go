package upstream

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Response is a GraphQL-over-HTTP response body.
type Response struct {
	Data       json.RawMessage        `json:"data,omitempty"`
	Errors     Errors                 `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// HasData reports whether data is present and not null.
func (r *Response) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a GraphQL error as returned by the subgraph.
type Error struct {
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// GQLError converts the error for gqlgen's response writer.
func (e *Error) GQLError() *gqlerror.Error {
	out := &gqlerror.Error{
		Message:    e.Message,
		Extensions: e.Extensions,
	}
	for _, l := range e.Locations {
		out.Locations = append(out.Locations, gqlerror.Location{Line: l.Line, Column: l.Column})
	}
	for _, p := range e.Path {
		switch p := p.(type) {
		case string:
			out.Path = append(out.Path, ast.PathName(p))
		case float64:
			out.Path = append(out.Path, ast.PathIndex(int(p)))
		case int:
			out.Path = append(out.Path, ast.PathIndex(p))
		}
	}
	return out
}

// Errors is the errors list of a response. It implements error so SDK callers
// can return it directly.
type Errors []*Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return fmt.Sprintf("graphql: %s", strings.Join(msgs, "; "))
}

func (e Errors) GQLErrors() gqlerror.List {
	if len(e) == 0 {
		return nil
	}
	out := make(gqlerror.List, 0, len(e))
	for _, err := range e {
		out = append(out, err.GQLError())
	}
	return out
}

// ErrorsFromGQL converts local validation errors into the response shape.
func ErrorsFromGQL(list gqlerror.List) Errors {
	out := make(Errors, 0, len(list))
	for _, e := range list {
		item := &Error{Message: e.Message, Extensions: e.Extensions}
		for _, l := range e.Locations {
			item.Locations = append(item.Locations, Location{Line: l.Line, Column: l.Column})
		}
		for _, p := range e.Path {
			switch p := p.(type) {
			case ast.PathName:
				item.Path = append(item.Path, string(p))
			case ast.PathIndex:
				item.Path = append(item.Path, int(p))
			}
		}
		out = append(out, item)
	}
	return out
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
