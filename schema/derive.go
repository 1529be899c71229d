package schema

import (
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	metaType          = "_Meta_"
	blockType         = "_Block_"
	blockHeightInput  = "Block_height"
	blockChangedInput = "BlockChangedFilter"
	orderDirection    = "OrderDirection"
	errorPolicy       = "_SubgraphErrorPolicy_"

	defaultFirst = "100"
)

var builtinScalars = map[string]bool{
	"ID":         true,
	"String":     true,
	"Int":        true,
	"Float":      true,
	"Boolean":    true,
	"BigInt":     true,
	"BigDecimal": true,
	"Bytes":      true,
	"Int8":       true,
}

var customScalars = []string{"BigDecimal", "BigInt", "Bytes", "Int8"}

var (
	equalityOps = []string{"", "_not", "_in", "_not_in"}
	orderedOps  = []string{"", "_not", "_gt", "_lt", "_gte", "_lte", "_in", "_not_in"}
	bytesOps    = append(append([]string{}, orderedOps...), "_contains", "_not_contains")
	stringOps   = append(append([]string{}, orderedOps...),
		"_contains", "_contains_nocase", "_not_contains", "_not_contains_nocase",
		"_starts_with", "_starts_with_nocase", "_not_starts_with", "_not_starts_with_nocase",
		"_ends_with", "_ends_with_nocase", "_not_ends_with", "_not_ends_with_nocase",
	)
	listOps = []string{"", "_not", "_contains", "_contains_nocase", "_not_contains", "_not_contains_nocase"}
)

func scalarOps(scalar string, enum bool) []string {
	if enum {
		return equalityOps
	}
	switch scalar {
	case "Boolean":
		return equalityOps
	case "String":
		return stringOps
	case "Bytes":
		return bytesOps
	}
	return orderedOps
}

type deriver struct {
	doc      *ast.SchemaDocument
	enums    ast.DefinitionList
	entities []*Entity
	kinds    map[string]ast.DefinitionKind
}

func newDeriver(doc *ast.SchemaDocument) *deriver {
	return &deriver{doc: doc, kinds: map[string]ast.DefinitionKind{}}
}

func (d *deriver) collect() error {
	for _, def := range d.doc.Definitions {
		if _, ok := d.kinds[def.Name]; ok {
			return errors.Errorf("type %s is declared twice", def.Name)
		}
		d.kinds[def.Name] = def.Kind
	}
	for _, def := range d.doc.Definitions {
		switch def.Kind {
		case ast.Enum:
			d.enums = append(d.enums, def)
		case ast.Interface:
			e, err := d.entity(def)
			if err != nil {
				return err
			}
			e.Interface = true
			d.entities = append(d.entities, e)
		case ast.Object:
			if def.Directives.ForName("entity") == nil {
				return errors.Errorf("type %s is missing the @entity directive", def.Name)
			}
			e, err := d.entity(def)
			if err != nil {
				return err
			}
			e.Implements = def.Interfaces
			d.entities = append(d.entities, e)
		case ast.Scalar:
			if !builtinScalars[def.Name] {
				return errors.Errorf("unsupported scalar %s", def.Name)
			}
		default:
			return errors.Errorf("unsupported definition %s (%s)", def.Name, def.Kind)
		}
	}
	if len(d.entities) == 0 {
		return errors.New("entity schema declares no entities")
	}
	used := map[string]string{}
	for _, e := range d.entities {
		for _, name := range []string{e.Singular, e.Plural} {
			if other, ok := used[name]; ok {
				return errors.Errorf("entities %s and %s both map to the root field %s", other, e.Name, name)
			}
			used[name] = e.Name
		}
	}
	return nil
}

func (d *deriver) entity(def *ast.Definition) (*Entity, error) {
	if def.Fields.ForName("id") == nil {
		return nil, errors.Errorf("entity %s has no id field", def.Name)
	}
	singular := singularField(def.Name)
	e := &Entity{
		Name:     def.Name,
		Singular: singular,
		Plural:   pluralField(singular),
	}
	for _, fd := range def.Fields {
		f := &Field{
			Name:    fd.Name,
			Type:    fd.Type,
			Target:  namedType(fd.Type),
			List:    fd.Type.Elem != nil,
			Derived: fd.Directives.ForName("derivedFrom") != nil,
		}
		switch {
		case builtinScalars[f.Target]:
			f.Kind = KindScalar
		case d.kinds[f.Target] == ast.Enum:
			f.Kind = KindEnum
		case d.kinds[f.Target] == ast.Object || d.kinds[f.Target] == ast.Interface:
			f.Kind = KindReference
		default:
			return nil, errors.Errorf("field %s.%s has unknown type %s", def.Name, fd.Name, f.Target)
		}
		if f.Derived && !(f.Kind == KindReference && f.List) {
			return nil, errors.Errorf("derived field %s.%s must be a list of entities", def.Name, fd.Name)
		}
		e.Fields = append(e.Fields, f)
	}
	return e, nil
}

func namedType(t *ast.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}

// document builds the API schema document.
func (d *deriver) document() *ast.SchemaDocument {
	out := &ast.SchemaDocument{}
	for _, name := range customScalars {
		out.Definitions = append(out.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
	}
	out.Definitions = append(out.Definitions, d.builtins()...)
	for _, enum := range d.enums {
		out.Definitions = append(out.Definitions, &ast.Definition{
			Kind:       ast.Enum,
			Name:       enum.Name,
			EnumValues: enum.EnumValues,
		})
	}
	for _, e := range d.entities {
		out.Definitions = append(out.Definitions, d.objectType(e))
	}
	for _, e := range d.entities {
		out.Definitions = append(out.Definitions, d.filterInput(e), d.orderByEnum(e))
	}
	out.Definitions = append(out.Definitions,
		&ast.Definition{Kind: ast.Object, Name: "Query", Fields: d.rootFields()},
		&ast.Definition{Kind: ast.Object, Name: "Subscription", Fields: d.rootFields()},
	)
	return out
}

func (d *deriver) builtins() ast.DefinitionList {
	return ast.DefinitionList{
		{
			Kind: ast.InputObject,
			Name: blockChangedInput,
			Fields: ast.FieldList{
				{Name: "number_gte", Type: ast.NonNullNamedType("Int", nil)},
			},
		},
		{
			Kind: ast.InputObject,
			Name: blockHeightInput,
			Fields: ast.FieldList{
				{Name: "hash", Type: ast.NamedType("Bytes", nil)},
				{Name: "number", Type: ast.NamedType("Int", nil)},
				{Name: "number_gte", Type: ast.NamedType("Int", nil)},
			},
		},
		{
			Kind: ast.Enum,
			Name: orderDirection,
			EnumValues: ast.EnumValueList{
				{Name: "asc"},
				{Name: "desc"},
			},
		},
		{
			Kind: ast.Enum,
			Name: errorPolicy,
			EnumValues: ast.EnumValueList{
				{Name: "allow", Description: "Data will be returned even if the subgraph has indexing errors"},
				{Name: "deny", Description: "If the subgraph has indexing errors, data will be omitted. The default."},
			},
		},
		{
			Kind: ast.Object,
			Name: blockType,
			Fields: ast.FieldList{
				{Name: "hash", Type: ast.NamedType("Bytes", nil)},
				{Name: "number", Type: ast.NonNullNamedType("Int", nil)},
				{Name: "timestamp", Type: ast.NamedType("Int", nil)},
				{Name: "parentHash", Type: ast.NamedType("Bytes", nil)},
			},
		},
		{
			Kind: ast.Object,
			Name: metaType,
			Fields: ast.FieldList{
				{Name: "block", Type: ast.NonNullNamedType(blockType, nil)},
				{Name: "deployment", Type: ast.NonNullNamedType("String", nil)},
				{Name: "hasIndexingErrors", Type: ast.NonNullNamedType("Boolean", nil)},
			},
		},
	}
}

func (d *deriver) objectType(e *Entity) *ast.Definition {
	def := &ast.Definition{
		Kind:       ast.Object,
		Name:       e.Name,
		Interfaces: e.Implements,
	}
	if e.Interface {
		def.Kind = ast.Interface
	}
	for _, f := range e.Fields {
		fd := &ast.FieldDefinition{Name: f.Name, Type: f.Type}
		if f.Kind == KindReference && f.List {
			fd.Arguments = collectionArgs(f.Target, false)
		}
		def.Fields = append(def.Fields, fd)
	}
	return def
}

func (d *deriver) filterInput(e *Entity) *ast.Definition {
	def := &ast.Definition{Kind: ast.InputObject, Name: e.Name + "_filter"}
	for _, f := range e.Fields {
		def.Fields = append(def.Fields, filterFields(f)...)
	}
	def.Fields = append(def.Fields,
		&ast.FieldDefinition{
			Name:        "_change_block",
			Description: "Filter for the block changed event.",
			Type:        ast.NamedType(blockChangedInput, nil),
		},
		&ast.FieldDefinition{Name: "and", Type: ast.ListType(ast.NamedType(e.Name+"_filter", nil), nil)},
		&ast.FieldDefinition{Name: "or", Type: ast.ListType(ast.NamedType(e.Name+"_filter", nil), nil)},
	)
	return def
}

func filterFields(f *Field) ast.FieldList {
	var out ast.FieldList
	add := func(name string, t *ast.Type) {
		out = append(out, &ast.FieldDefinition{Name: name, Type: t})
	}
	nested := func() {
		add(f.Name+"_", ast.NamedType(f.Target+"_filter", nil))
	}
	if f.Derived {
		nested()
		return out
	}
	scalar := f.Target
	if f.Kind == KindReference {
		scalar = "String"
	}
	if f.List {
		for _, op := range listOps {
			add(f.Name+op, ast.ListType(ast.NonNullNamedType(scalar, nil), nil))
		}
	} else {
		for _, op := range scalarOps(scalar, f.Kind == KindEnum) {
			t := ast.NamedType(scalar, nil)
			if op == "_in" || op == "_not_in" {
				t = ast.ListType(ast.NonNullNamedType(scalar, nil), nil)
			}
			add(f.Name+op, t)
		}
	}
	if f.Kind == KindReference {
		nested()
	}
	return out
}

func (d *deriver) orderByEnum(e *Entity) *ast.Definition {
	def := &ast.Definition{Kind: ast.Enum, Name: e.Name + "_orderBy"}
	for _, f := range e.Fields {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{Name: f.Name})
		if f.Kind != KindReference || f.List || f.Derived {
			continue
		}
		target := d.lookup(f.Target)
		if target == nil {
			continue
		}
		for _, sub := range target.Fields {
			if sub.Kind == KindReference || sub.List {
				continue
			}
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{Name: f.Name + "__" + sub.Name})
		}
	}
	return def
}

func (d *deriver) lookup(name string) *Entity {
	for _, e := range d.entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (d *deriver) rootFields() ast.FieldList {
	var fields ast.FieldList
	for _, e := range d.entities {
		fields = append(fields,
			&ast.FieldDefinition{
				Name: e.Singular,
				Type: ast.NamedType(e.Name, nil),
				Arguments: ast.ArgumentDefinitionList{
					{Name: "id", Type: ast.NonNullNamedType("ID", nil)},
					blockArg(),
					subgraphErrorArg(),
				},
			},
			&ast.FieldDefinition{
				Name:      e.Plural,
				Type:      ast.NonNullListType(ast.NonNullNamedType(e.Name, nil), nil),
				Arguments: collectionArgs(e.Name, true),
			},
		)
	}
	fields = append(fields, &ast.FieldDefinition{
		Name:        "_meta",
		Description: "Access to subgraph metadata",
		Type:        ast.NamedType(metaType, nil),
		Arguments:   ast.ArgumentDefinitionList{blockArg()},
	})
	return fields
}

func collectionArgs(entity string, root bool) ast.ArgumentDefinitionList {
	args := ast.ArgumentDefinitionList{
		{Name: "skip", Type: ast.NamedType("Int", nil), DefaultValue: &ast.Value{Kind: ast.IntValue, Raw: "0"}},
		{Name: "first", Type: ast.NamedType("Int", nil), DefaultValue: &ast.Value{Kind: ast.IntValue, Raw: defaultFirst}},
		{Name: "orderBy", Type: ast.NamedType(entity+"_orderBy", nil)},
		{Name: "orderDirection", Type: ast.NamedType(orderDirection, nil)},
		{Name: "where", Type: ast.NamedType(entity+"_filter", nil)},
	}
	if root {
		args = append(args, blockArg(), subgraphErrorArg())
	}
	return args
}

func blockArg() *ast.ArgumentDefinition {
	return &ast.ArgumentDefinition{
		Name:        "block",
		Description: "The block at which the query should be executed. Can either be a `{ hash: Bytes }` value containing a block hash, a `{ number: Int }` containing the block number, or a `{ number_gte: Int }` containing the minimum block number. In the case of `number_gte`, the query will be executed on the latest block only if the subgraph has progressed to or past the minimum block number. Defaults to the latest block when omitted.",
		Type:        ast.NamedType(blockHeightInput, nil),
	}
}

func subgraphErrorArg() *ast.ArgumentDefinition {
	return &ast.ArgumentDefinition{
		Name:         "subgraphError",
		Description:  "Set to `allow` to receive data even if the subgraph has skipped over errors while syncing.",
		Type:         ast.NonNullNamedType(errorPolicy, nil),
		DefaultValue: &ast.Value{Kind: ast.EnumValue, Raw: "deny"},
	}
}

// singularField lower-cases the first letter that follows any leading underscores.
func singularField(typeName string) string {
	i := 0
	for i < len(typeName) && typeName[i] == '_' {
		i++
	}
	if i == len(typeName) {
		return typeName
	}
	return typeName[:i] + strings.ToLower(typeName[i:i+1]) + typeName[i+1:]
}

func pluralField(singular string) string {
	p := pluralize(singular)
	if p == singular {
		return singular + "_collection"
	}
	return p
}

// pluralize inflects the last word of a camel-cased field name.
func pluralize(word string) string {
	i := len(word)
	for i > 0 && word[i-1] >= 'a' && word[i-1] <= 'z' {
		i--
	}
	if i > 0 {
		i--
	}
	return word[:i] + inflection.Plural(word[i:])
}
