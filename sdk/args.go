package sdk

import (
	"github.com/0xbe1/liquidated/gql/models"
)

type ErrorPolicy = models.SubgraphErrorPolicy

const (
	// Allow returns partial data together with the indexing errors.
	Allow = models.SubgraphErrorPolicyAllow
	// Deny fails the request on any indexing error. It is the default.
	Deny = models.SubgraphErrorPolicyDeny
)

// BlockHeight pins a query to a block. Set one of the fields.
type BlockHeight struct {
	Hash      *models.Bytes
	Number    *int
	NumberGte *int
}

func AtBlock(number int) *BlockHeight {
	return &BlockHeight{Number: &number}
}

func AtBlockHash(hash models.Bytes) *BlockHeight {
	return &BlockHeight{Hash: &hash}
}

// SinceBlock asks for any block at or after number, erroring if the
// subgraph has not indexed it yet.
func SinceBlock(number int) *BlockHeight {
	return &BlockHeight{NumberGte: &number}
}

func (b *BlockHeight) variable() map[string]interface{} {
	v := map[string]interface{}{}
	if b.Hash != nil {
		v["hash"] = b.Hash.String()
	}
	if b.Number != nil {
		v["number"] = *b.Number
	}
	if b.NumberGte != nil {
		v["number_gte"] = *b.NumberGte
	}
	return v
}

// OneArgs are the arguments of a single entity field such as market(id).
type OneArgs struct {
	ID            string
	Block         *BlockHeight
	SubgraphError ErrorPolicy
}

func (a OneArgs) variables() map[string]interface{} {
	vars := map[string]interface{}{"id": a.ID}
	if a.Block != nil {
		vars["block"] = a.Block.variable()
	}
	if a.SubgraphError != "" {
		vars["subgraphError"] = a.SubgraphError
	}
	return vars
}

// ManyArgs are the arguments of a collection field such as markets. Zero
// values are left out so the subgraph defaults apply.
type ManyArgs struct {
	Skip           *int
	First          *int
	OrderBy        string
	OrderDirection models.OrderDirection
	Where          Where
	Block          *BlockHeight
	SubgraphError  ErrorPolicy
}

func (a ManyArgs) variables() map[string]interface{} {
	vars := map[string]interface{}{}
	if a.Skip != nil {
		vars["skip"] = *a.Skip
	}
	if a.First != nil {
		vars["first"] = *a.First
	}
	if a.OrderBy != "" {
		vars["orderBy"] = a.OrderBy
	}
	if a.OrderDirection != "" {
		vars["orderDirection"] = a.OrderDirection
	}
	if a.Where != nil {
		vars["where"] = a.Where
	}
	if a.Block != nil {
		vars["block"] = a.Block.variable()
	}
	if a.SubgraphError != "" {
		vars["subgraphError"] = a.SubgraphError
	}
	return vars
}

func Int(v int) *int {
	return &v
}

// Where is a <Entity>_filter value. Keys are filter field names such as
// "timestamp_gte" or "market_" for nested filters.
type Where map[string]interface{}

func (w Where) Eq(field string, value interface{}) Where {
	w[field] = value
	return w
}

// Op sets field_op, e.g. Op("timestamp", "gte", ts).
func (w Where) Op(field, op string, value interface{}) Where {
	w[field+"_"+op] = value
	return w
}

func (w Where) Not(field string, value interface{}) Where {
	return w.Op(field, "not", value)
}

func (w Where) Gt(field string, value interface{}) Where {
	return w.Op(field, "gt", value)
}

func (w Where) Gte(field string, value interface{}) Where {
	return w.Op(field, "gte", value)
}

func (w Where) Lt(field string, value interface{}) Where {
	return w.Op(field, "lt", value)
}

func (w Where) Lte(field string, value interface{}) Where {
	return w.Op(field, "lte", value)
}

func (w Where) In(field string, values interface{}) Where {
	return w.Op(field, "in", values)
}

func (w Where) Contains(field string, value interface{}) Where {
	return w.Op(field, "contains", value)
}

// Nested filters on the entity referenced by field.
func (w Where) Nested(field string, filter Where) Where {
	w[field+"_"] = filter
	return w
}

func (w Where) And(filters ...Where) Where {
	w["and"] = filters
	return w
}

func (w Where) Or(filters ...Where) Where {
	w["or"] = filters
	return w
}
