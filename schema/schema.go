package schema

import (
	"bytes"
	_ "embed"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

//go:embed subgraph.graphql
var subgraphSDL string

// EntitySDL returns the embedded entity schema of the compound-ethereum subgraph.
func EntitySDL() string {
	return subgraphSDL
}

type FieldKind int

const (
	KindScalar FieldKind = iota
	KindEnum
	KindReference
)

func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindReference:
		return "reference"
	}
	return "unknown"
}

// Field is a field of an entity as declared in the entity schema.
type Field struct {
	Name string
	Type *ast.Type
	Kind FieldKind
	// Target is the innermost named type.
	Target  string
	List    bool
	Derived bool
}

// Entity is an @entity object type or an interface implemented by entities.
type Entity struct {
	Name       string
	Interface  bool
	Implements []string
	Fields     []*Field
	// Singular and Plural are the root query/subscription field names.
	Singular string
	Plural   string
}

func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Schema is the API schema served for the subgraph.
type Schema struct {
	SDL      string
	AST      *ast.Schema
	Entities []*Entity

	byName  map[string]*Entity
	byField map[string]*Entity
}

// Load derives the API schema from the embedded entity schema.
func Load() (*Schema, error) {
	return Parse(subgraphSDL)
}

// MustLoad is like Load but panics on error.
func MustLoad() *Schema {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Parse derives the API schema from an entity schema.
func Parse(sdl string) (*Schema, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: "subgraph.graphql", Input: sdl})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse entity schema")
	}
	d := newDeriver(doc)
	if err := d.collect(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(d.document())
	sdlOut := buf.String()
	apiSchema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdlOut})
	if err != nil {
		return nil, errors.Wrap(err, "derived schema is invalid")
	}
	s := &Schema{
		SDL:      sdlOut,
		AST:      apiSchema,
		Entities: d.entities,
		byName:   map[string]*Entity{},
		byField:  map[string]*Entity{},
	}
	for _, e := range d.entities {
		s.byName[e.Name] = e
		s.byField[e.Singular] = e
		s.byField[e.Plural] = e
	}
	return s, nil
}

func (s *Schema) Entity(name string) *Entity {
	return s.byName[name]
}

// EntityByField resolves a root field name ("market" or "markets") to its entity.
// The boolean reports whether the field is the collection field.
func (s *Schema) EntityByField(field string) (*Entity, bool) {
	e, ok := s.byField[field]
	if !ok {
		return nil, false
	}
	return e, e.Plural == field
}

// QueryField returns the definition of a Query root field.
func (s *Schema) QueryField(name string) *ast.FieldDefinition {
	if s.AST.Query == nil {
		return nil
	}
	return s.AST.Query.Fields.ForName(name)
}

// SubscriptionField returns the definition of a Subscription root field.
func (s *Schema) SubscriptionField(name string) *ast.FieldDefinition {
	if s.AST.Subscription == nil {
		return nil
	}
	return s.AST.Subscription.Fields.ForName(name)
}

// FilterFields lists the input fields of <entity>_filter.
func (s *Schema) FilterFields(entity string) []string {
	def := s.AST.Types[entity+"_filter"]
	if def == nil {
		return nil
	}
	names := make([]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}
	return names
}

// OrderByValues lists the values of <entity>_orderBy.
func (s *Schema) OrderByValues(entity string) []string {
	def := s.AST.Types[entity+"_orderBy"]
	if def == nil {
		return nil
	}
	values := make([]string, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		values = append(values, v.Name)
	}
	return values
}

// IsCollection reports whether typeName.field is paginated with first/skip.
func (s *Schema) IsCollection(typeName, field string) bool {
	def := s.AST.Types[typeName]
	if def == nil {
		return false
	}
	f := def.Fields.ForName(field)
	if f == nil {
		return false
	}
	return f.Arguments.ForName("first") != nil
}

// Selection returns the default selection set for an entity or for _Meta_.
// References are selected as { id }, derived fields are left out.
func (s *Schema) Selection(typeName string) string {
	if typeName == metaType {
		return "block { hash number timestamp } deployment hasIndexingErrors"
	}
	e := s.byName[typeName]
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Fields)+1)
	if e.Interface {
		parts = append(parts, "__typename")
	}
	for _, f := range e.Fields {
		switch {
		case f.Derived:
		case f.Kind == KindReference:
			parts = append(parts, f.Name+" { id }")
		default:
			parts = append(parts, f.Name)
		}
	}
	return strings.Join(parts, " ")
}

// EntityNames returns the entity names in declaration order.
func (s *Schema) EntityNames() []string {
	names := make([]string, 0, len(s.Entities))
	for _, e := range s.Entities {
		names = append(names, e.Name)
	}
	return names
}

// RootFields returns every Query root field name, sorted.
func (s *Schema) RootFields() []string {
	var names []string
	for _, f := range s.AST.Query.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}
