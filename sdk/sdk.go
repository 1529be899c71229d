package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/0xbe1/liquidated/schema"
	"github.com/0xbe1/liquidated/upstream"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

// ErrUnknownField is returned, wrapped, when a field, filter or order-by
// value does not exist in the schema. No request is sent in that case.
var ErrUnknownField = errors.New("unknown field")

// Executor runs GraphQL operations. *mesh.Mesh implements it.
type Executor interface {
	Execute(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
	Subscribe(ctx context.Context, req *upstream.Request) (<-chan *upstream.Response, error)
}

// Sdk exposes one method per root field of the subgraph. Arguments are
// forwarded as variables without modification.
type Sdk struct {
	exec   Executor
	schema *schema.Schema
}

func New(exec Executor, s *schema.Schema) *Sdk {
	return &Sdk{exec: exec, schema: s}
}

// Result is one message of a subscription.
type Result[T any] struct {
	Data T
	Err  error
}

// Entity runs a single entity field such as market(id) and decodes the
// entity into out.
func (s *Sdk) Entity(ctx context.Context, field string, args OneArgs, out interface{}) error {
	if args.ID == "" {
		return errors.Errorf("%s: id is required", field)
	}
	return s.query(ctx, field, args.variables(), args.SubgraphError, out)
}

// Collection runs a collection field such as markets and decodes the list
// into out.
func (s *Sdk) Collection(ctx context.Context, field string, args ManyArgs, out interface{}) error {
	if err := s.checkMany(field, args); err != nil {
		return err
	}
	return s.query(ctx, field, args.variables(), args.SubgraphError, out)
}

func (s *Sdk) query(ctx context.Context, field string, vars map[string]interface{}, policy ErrorPolicy, out interface{}) error {
	req, err := s.Request(ast.Query, field, vars)
	if err != nil {
		return err
	}
	resp, err := s.exec.Execute(ctx, req)
	if err != nil {
		return err
	}
	return decode(resp, field, policy, out)
}

// Request builds the operation selecting field with the default selection
// of its type. Only the variables present in vars are declared.
func (s *Sdk) Request(kind ast.Operation, field string, vars map[string]interface{}) (*upstream.Request, error) {
	var def *ast.FieldDefinition
	if kind == ast.Subscription {
		def = s.schema.SubscriptionField(field)
	} else {
		def = s.schema.QueryField(field)
	}
	if def == nil {
		return nil, errors.Wrapf(ErrUnknownField, "%s has no field %q", kind, field)
	}
	for name := range vars {
		if def.Arguments.ForName(name) == nil {
			return nil, errors.Wrapf(ErrUnknownField, "%s has no argument %q", field, name)
		}
	}
	var decls, args []string
	for _, a := range def.Arguments {
		if _, ok := vars[a.Name]; !ok {
			continue
		}
		decls = append(decls, fmt.Sprintf("$%s: %s", a.Name, a.Type.String()))
		args = append(args, fmt.Sprintf("%s: $%s", a.Name, a.Name))
	}

	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteString(" ")
	b.WriteString(operationName(field))
	if len(decls) > 0 {
		b.WriteString("(" + strings.Join(decls, ", ") + ")")
	}
	b.WriteString(" { ")
	b.WriteString(field)
	if len(args) > 0 {
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	b.WriteString(" { " + s.schema.Selection(def.Type.Name()) + " } }")

	return &upstream.Request{
		Query:         b.String(),
		OperationName: operationName(field),
		Variables:     vars,
	}, nil
}

// operationName turns "_circularBuffers" into "CircularBuffers".
func operationName(field string) string {
	name := strings.TrimLeft(field, "_")
	if name == "" {
		return "Query"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func decode(resp *upstream.Response, field string, policy ErrorPolicy, out interface{}) error {
	if len(resp.Errors) > 0 && policy != Allow {
		return resp.Errors
	}
	if resp.HasData() {
		var data map[string]json.RawMessage
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return errors.Wrap(err, "failed to decode response")
		}
		if raw, ok := data[field]; ok {
			if err := json.Unmarshal(raw, out); err != nil {
				return errors.Wrapf(err, "failed to decode %s", field)
			}
		}
	}
	if len(resp.Errors) > 0 {
		return resp.Errors
	}
	return nil
}

func (s *Sdk) checkMany(field string, args ManyArgs) error {
	e, many := s.schema.EntityByField(field)
	if e == nil || !many {
		return errors.Wrapf(ErrUnknownField, "%q is not a collection", field)
	}
	if args.OrderBy != "" && !contains(s.schema.OrderByValues(e.Name), args.OrderBy) {
		return errors.Wrapf(ErrUnknownField, "%s cannot be ordered by %q", e.Name, args.OrderBy)
	}
	if args.OrderDirection != "" && !args.OrderDirection.IsValid() {
		return errors.Errorf("invalid order direction %q", args.OrderDirection)
	}
	if args.SubgraphError != "" && !args.SubgraphError.IsValid() {
		return errors.Errorf("invalid subgraph error policy %q", args.SubgraphError)
	}
	if args.Where != nil {
		return s.checkWhere(e, args.Where)
	}
	return nil
}

// checkWhere rejects filter keys the entity's _filter input does not have,
// descending into and/or and nested entity filters.
func (s *Sdk) checkWhere(e *schema.Entity, where map[string]interface{}) error {
	allowed := s.schema.FilterFields(e.Name)
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !contains(allowed, key) {
			return errors.Wrapf(ErrUnknownField, "%s_filter has no field %q", e.Name, key)
		}
		value := where[key]
		switch {
		case key == "and" || key == "or":
			for _, sub := range filterList(value) {
				if err := s.checkWhere(e, sub); err != nil {
					return err
				}
			}
		case strings.HasSuffix(key, "_"):
			f := e.Field(strings.TrimSuffix(key, "_"))
			if f == nil {
				continue
			}
			target := s.schema.Entity(f.Target)
			sub, ok := filterMap(value)
			if target == nil || !ok {
				continue
			}
			if err := s.checkWhere(target, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func filterMap(v interface{}) (map[string]interface{}, bool) {
	switch v := v.(type) {
	case Where:
		return v, true
	case map[string]interface{}:
		return v, true
	}
	return nil, false
}

func filterList(v interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch v := v.(type) {
	case []Where:
		for _, w := range v {
			out = append(out, w)
		}
	case []map[string]interface{}:
		out = v
	case []interface{}:
		for _, item := range v {
			if m, ok := filterMap(item); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func one[T any](ctx context.Context, s *Sdk, field string, args OneArgs) (*T, error) {
	var out *T
	err := s.Entity(ctx, field, args, &out)
	return out, err
}

func many[T any](ctx context.Context, s *Sdk, field string, args ManyArgs) ([]*T, error) {
	var out []*T
	err := s.Collection(ctx, field, args, &out)
	return out, err
}

// subscribe streams a collection field. The channel is closed when ctx is
// done or the executor ends the stream.
func subscribe[T any](ctx context.Context, s *Sdk, field string, args ManyArgs) (<-chan Result[[]*T], error) {
	if err := s.checkMany(field, args); err != nil {
		return nil, err
	}
	req, err := s.Request(ast.Subscription, field, args.variables())
	if err != nil {
		return nil, err
	}
	in, err := s.exec.Subscribe(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make(chan Result[[]*T])
	go func() {
		defer close(out)
		for resp := range in {
			var items []*T
			err := decode(resp, field, args.SubgraphError, &items)
			select {
			case out <- Result[[]*T]{Data: items, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
