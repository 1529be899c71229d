package gql

import (
	"bytes"
	"encoding/json"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

type rootFields struct {
	introspection bool
	data          bool
}

// classifyRoot collects the root fields of the operation, following
// fragment spreads and inline fragments.
func classifyRoot(opCtx *graphql.OperationContext) rootFields {
	var out rootFields
	typeName := "Query"
	if opCtx.Operation.Operation == ast.Subscription {
		typeName = "Subscription"
	}
	for _, f := range graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{typeName}) {
		switch f.Name {
		case "__schema", "__type":
			out.introspection = true
		case "__typename":
		default:
			out.data = true
		}
	}
	return out
}

type fieldValue struct {
	key   string
	value interface{}
}

// object keeps the selection order in the encoded JSON.
type object []fieldValue

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// introspector answers __schema and __type from the served schema.
type introspector struct {
	opCtx  *graphql.OperationContext
	schema *ast.Schema
}

func (x *introspector) collect(sel ast.SelectionSet, typeName string, resolve func(f graphql.CollectedField) (interface{}, error)) (object, error) {
	fields := graphql.CollectFields(x.opCtx, sel, []string{typeName})
	out := make(object, 0, len(fields))
	for _, f := range fields {
		if f.Name == "__typename" {
			out = append(out, fieldValue{f.Alias, typeName})
			continue
		}
		v, err := resolve(f)
		if err != nil {
			return nil, err
		}
		out = append(out, fieldValue{f.Alias, v})
	}
	return out, nil
}

func (x *introspector) args(f graphql.CollectedField) map[string]interface{} {
	return f.ArgumentMap(x.opCtx.Variables)
}

func (x *introspector) includeDeprecated(f graphql.CollectedField) bool {
	v, _ := x.args(f)["includeDeprecated"].(bool)
	return v
}

func (x *introspector) root(sel ast.SelectionSet) (object, error) {
	return x.collect(sel, "Query", func(f graphql.CollectedField) (interface{}, error) {
		switch f.Name {
		case "__schema":
			return x.wrapSchema(f.Selections, introspection.WrapSchema(x.schema))
		case "__type":
			name, _ := x.args(f)["name"].(string)
			def := x.schema.Types[name]
			if def == nil {
				return nil, nil
			}
			return x.wrapType(f.Selections, introspection.WrapTypeFromDef(x.schema, def))
		}
		return nil, errors.Errorf("%s cannot be selected together with introspection fields", f.Name)
	})
}

func (x *introspector) wrapSchema(sel ast.SelectionSet, s *introspection.Schema) (object, error) {
	return x.collect(sel, "__Schema", func(f graphql.CollectedField) (interface{}, error) {
		switch f.Name {
		case "description":
			return s.Description(), nil
		case "types":
			types := s.Types()
			out := make([]interface{}, 0, len(types))
			for i := range types {
				v, err := x.wrapType(f.Selections, &types[i])
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		case "queryType":
			return x.wrapType(f.Selections, s.QueryType())
		case "mutationType":
			return x.wrapType(f.Selections, s.MutationType())
		case "subscriptionType":
			return x.wrapType(f.Selections, s.SubscriptionType())
		case "directives":
			directives := s.Directives()
			out := make([]interface{}, 0, len(directives))
			for i := range directives {
				v, err := x.wrapDirective(f.Selections, &directives[i])
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		}
		return nil, nil
	})
}

func (x *introspector) wrapType(sel ast.SelectionSet, t *introspection.Type) (interface{}, error) {
	if t == nil {
		return nil, nil
	}
	return x.collect(sel, "__Type", func(f graphql.CollectedField) (interface{}, error) {
		switch f.Name {
		case "kind":
			return t.Kind(), nil
		case "name":
			return t.Name(), nil
		case "description":
			return t.Description(), nil
		case "fields":
			fields := t.Fields(x.includeDeprecated(f))
			if fields == nil {
				return nil, nil
			}
			out := make([]interface{}, 0, len(fields))
			for i := range fields {
				v, err := x.wrapField(f.Selections, &fields[i])
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		case "inputFields":
			return x.wrapInputValues(f.Selections, t.InputFields())
		case "interfaces":
			return x.wrapTypes(f.Selections, t.Interfaces())
		case "possibleTypes":
			return x.wrapTypes(f.Selections, t.PossibleTypes())
		case "enumValues":
			values := t.EnumValues(x.includeDeprecated(f))
			if values == nil {
				return nil, nil
			}
			out := make([]interface{}, 0, len(values))
			for i := range values {
				v, err := x.wrapEnumValue(f.Selections, &values[i])
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		case "ofType":
			return x.wrapType(f.Selections, t.OfType())
		}
		return nil, nil
	})
}

func (x *introspector) wrapTypes(sel ast.SelectionSet, types []introspection.Type) (interface{}, error) {
	if types == nil {
		return nil, nil
	}
	out := make([]interface{}, 0, len(types))
	for i := range types {
		v, err := x.wrapType(sel, &types[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (x *introspector) wrapField(sel ast.SelectionSet, field *introspection.Field) (object, error) {
	return x.collect(sel, "__Field", func(f graphql.CollectedField) (interface{}, error) {
		switch f.Name {
		case "name":
			return field.Name, nil
		case "description":
			return field.Description(), nil
		case "args":
			return x.wrapInputValues(f.Selections, field.Args)
		case "type":
			return x.wrapType(f.Selections, field.Type)
		case "isDeprecated":
			return field.IsDeprecated(), nil
		case "deprecationReason":
			return field.DeprecationReason(), nil
		}
		return nil, nil
	})
}

func (x *introspector) wrapInputValues(sel ast.SelectionSet, values []introspection.InputValue) (interface{}, error) {
	if values == nil {
		return nil, nil
	}
	out := make([]interface{}, 0, len(values))
	for i := range values {
		value := &values[i]
		v, err := x.collect(sel, "__InputValue", func(f graphql.CollectedField) (interface{}, error) {
			switch f.Name {
			case "name":
				return value.Name, nil
			case "description":
				return value.Description(), nil
			case "type":
				return x.wrapType(f.Selections, value.Type)
			case "defaultValue":
				return value.DefaultValue, nil
			}
			return nil, nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (x *introspector) wrapEnumValue(sel ast.SelectionSet, value *introspection.EnumValue) (object, error) {
	return x.collect(sel, "__EnumValue", func(f graphql.CollectedField) (interface{}, error) {
		switch f.Name {
		case "name":
			return value.Name, nil
		case "description":
			return value.Description(), nil
		case "isDeprecated":
			return value.IsDeprecated(), nil
		case "deprecationReason":
			return value.DeprecationReason(), nil
		}
		return nil, nil
	})
}

func (x *introspector) wrapDirective(sel ast.SelectionSet, d *introspection.Directive) (object, error) {
	return x.collect(sel, "__Directive", func(f graphql.CollectedField) (interface{}, error) {
		switch f.Name {
		case "name":
			return d.Name, nil
		case "description":
			return d.Description(), nil
		case "locations":
			return d.Locations, nil
		case "args":
			return x.wrapInputValues(f.Selections, d.Args)
		case "isRepeatable":
			return d.IsRepeatable, nil
		}
		return nil, nil
	})
}

// introspect runs an operation that selects only introspection fields.
func (e *executableSchema) introspect(opCtx *graphql.OperationContext) (*graphql.Response, error) {
	x := &introspector{opCtx: opCtx, schema: e.schema.AST}
	data, err := x.root(opCtx.Operation.SelectionSet)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode introspection result")
	}
	return &graphql.Response{Data: raw}, nil
}
