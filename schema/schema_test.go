package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestLoad(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	for _, field := range []string{
		"token", "tokens",
		"market", "markets",
		"lendingProtocol", "lendingProtocols",
		"deposit", "deposits",
		"withdraw", "withdraws",
		"borrow", "borrows",
		"repay", "repays",
		"liquidate", "liquidates",
		"event", "events",
		"marketDailySnapshot", "marketDailySnapshots",
		"usageMetricsHourlySnapshot", "usageMetricsHourlySnapshots",
		"_circularBuffer", "_circularBuffers",
		"_meta",
	} {
		assert.NotNil(t, s.QueryField(field), "query field %s", field)
		assert.NotNil(t, s.SubscriptionField(field), "subscription field %s", field)
	}
}

func TestCollectionArguments(t *testing.T) {
	s := MustLoad()
	markets := s.QueryField("markets")
	require.NotNil(t, markets)
	assert.Equal(t, "[Market!]!", markets.Type.String())

	args := map[string]string{}
	for _, a := range markets.Arguments {
		args[a.Name] = a.Type.String()
	}
	assert.Equal(t, map[string]string{
		"skip":           "Int",
		"first":          "Int",
		"orderBy":        "Market_orderBy",
		"orderDirection": "OrderDirection",
		"where":          "Market_filter",
		"block":          "Block_height",
		"subgraphError":  "_SubgraphErrorPolicy_!",
	}, args)
	assert.Equal(t, "100", markets.Arguments.ForName("first").DefaultValue.Raw)
	assert.Equal(t, "deny", markets.Arguments.ForName("subgraphError").DefaultValue.Raw)

	market := s.QueryField("market")
	require.NotNil(t, market)
	assert.Equal(t, "ID!", market.Arguments.ForName("id").Type.String())
	assert.Nil(t, market.Arguments.ForName("first"))
}

func TestFilterSuffixes(t *testing.T) {
	s := MustLoad()
	fields := s.FilterFields("Market")

	for _, name := range []string{
		"id", "id_not", "id_gt", "id_lt", "id_gte", "id_lte", "id_in", "id_not_in",
		"name_contains", "name_contains_nocase", "name_not_starts_with_nocase", "name_ends_with",
		"isActive", "isActive_not", "isActive_in", "isActive_not_in",
		"protocol", "protocol_starts_with", "protocol_",
		"inputTokens", "inputTokens_contains", "inputTokens_not_contains_nocase", "inputTokens_",
		"totalValueLockedUSD_gte",
		"deposits_",
		"_change_block", "and", "or",
	} {
		assert.Contains(t, fields, name)
	}
	for _, name := range []string{
		"isActive_gt", "totalValueLockedUSD_contains", "deposits", "deposits_contains",
	} {
		assert.NotContains(t, fields, name)
	}

	enumFields := s.FilterFields("LendingProtocol")
	assert.Contains(t, enumFields, "network_in")
	assert.NotContains(t, enumFields, "network_gt")

	filter := s.AST.Types["Market_filter"]
	assert.Equal(t, "[String!]", filter.Fields.ForName("protocol_in").Type.String())
	assert.Equal(t, "Token_filter", filter.Fields.ForName("inputTokens_").Type.String())
	assert.Equal(t, "[Market_filter]", filter.Fields.ForName("or").Type.String())
}

func TestOrderBy(t *testing.T) {
	s := MustLoad()
	values := s.OrderByValues("Deposit")
	assert.Contains(t, values, "timestamp")
	assert.Contains(t, values, "market")
	assert.Contains(t, values, "market__name")
	assert.Contains(t, values, "protocol__totalValueLockedUSD")
	assert.NotContains(t, values, "market__protocol")
	assert.NotContains(t, values, "market__inputTokens")
	assert.Equal(t, []string{"asc", "desc"}, []string{
		s.AST.Types["OrderDirection"].EnumValues[0].Name,
		s.AST.Types["OrderDirection"].EnumValues[1].Name,
	})
}

func TestInterfaceEntity(t *testing.T) {
	s := MustLoad()
	event := s.Entity("Event")
	require.NotNil(t, event)
	assert.True(t, event.Interface)
	assert.Equal(t, ast.Interface, s.AST.Types["Event"].Kind)
	assert.Len(t, s.AST.GetPossibleTypes(s.AST.Types["Event"]), 5)

	liquidate := s.Entity("Liquidate")
	require.NotNil(t, liquidate)
	assert.Equal(t, []string{"Event"}, liquidate.Implements)
}

func TestEntityListFieldsArePaginated(t *testing.T) {
	s := MustLoad()
	assert.True(t, s.IsCollection("Market", "deposits"))
	assert.True(t, s.IsCollection("Market", "inputTokens"))
	assert.True(t, s.IsCollection("Query", "liquidates"))
	assert.False(t, s.IsCollection("Query", "liquidate"))
	assert.False(t, s.IsCollection("Market", "inputTokenBalances"))
	assert.False(t, s.IsCollection("Nope", "x"))
}

func TestSelection(t *testing.T) {
	s := MustLoad()
	sel := s.Selection("Market")
	assert.Contains(t, sel, "protocol { id }")
	assert.Contains(t, sel, "inputTokens { id }")
	assert.Contains(t, sel, "inputTokenBalances")
	assert.NotContains(t, sel, "deposits")
	assert.NotContains(t, sel, "__typename")

	assert.Contains(t, s.Selection("Event"), "__typename")
	assert.Contains(t, s.Selection("_Meta_"), "hasIndexingErrors")
	assert.Empty(t, s.Selection("Unknown"))

	doc, errs := gqlparser.LoadQuery(s.AST, "{ markets { "+sel+" } events { "+s.Selection("Event")+" } }")
	require.Empty(t, errs)
	require.NotNil(t, doc)
}

func TestEntityByField(t *testing.T) {
	s := MustLoad()
	e, many := s.EntityByField("liquidates")
	require.NotNil(t, e)
	assert.Equal(t, "Liquidate", e.Name)
	assert.True(t, many)

	e, many = s.EntityByField("lendingProtocol")
	require.NotNil(t, e)
	assert.Equal(t, "LendingProtocol", e.Name)
	assert.False(t, many)

	e, _ = s.EntityByField("nothing")
	assert.Nil(t, e)
}

func TestDeterministic(t *testing.T) {
	a := MustLoad()
	b := MustLoad()
	assert.Equal(t, a.SDL, b.SDL)
}

func TestParseRejectsBadSchemas(t *testing.T) {
	for name, sdl := range map[string]string{
		"syntax":       "type Token @entity {",
		"no entity":    "type Token { id: ID! }",
		"no id":        "type Token @entity { name: String! }",
		"unknown type": "type Token @entity { id: ID! owner: Account! }",
		"bad derived":  "type Token @entity { id: ID! name: String! @derivedFrom(field: \"x\") }",
		"empty":        "enum Color { RED }",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(sdl)
			assert.Error(t, err)
		})
	}
}

func TestParseCollisionUsesCollectionSuffix(t *testing.T) {
	s, err := Parse(`
type Series @entity {
  id: ID!
  title: String!
}
`)
	require.NoError(t, err)
	e := s.Entity("Series")
	require.NotNil(t, e)
	assert.Equal(t, "series", e.Singular)
	assert.Equal(t, "series_collection", e.Plural)
}

func TestParseIrregularPlurals(t *testing.T) {
	s, err := Parse(`
type Person @entity {
  id: ID!
}

type Vertex @entity {
  id: ID!
}
`)
	require.NoError(t, err)
	assert.Equal(t, "people", s.Entity("Person").Plural)
	assert.Equal(t, "vertices", s.Entity("Vertex").Plural)
	assert.NotNil(t, s.QueryField("people"))
}

func TestNaming(t *testing.T) {
	for in, want := range map[string]string{
		"Token":           "token",
		"LendingProtocol": "lendingProtocol",
		"_CircularBuffer": "_circularBuffer",
		"___":             "___",
	} {
		assert.Equal(t, want, singularField(in))
	}
	for in, want := range map[string]string{
		"token":                     "tokens",
		"repay":                     "repays",
		"liquidate":                 "liquidates",
		"withdraw":                  "withdraws",
		"_circularBuffer":           "_circularBuffers",
		"status":                    "statuses",
		"batch":                     "batches",
		"strategy":                  "strategies",
		"marketData":                "marketData",
		"financialsDailySnapshot":   "financialsDailySnapshots",
		"usageMetricsDailySnapshot": "usageMetricsDailySnapshots",
		"person":                    "people",
		"index":                     "indices",
		"vertex":                    "vertices",
		"child":                     "children",
		"datum":                     "data",
		"tokenPerson":               "tokenPeople",
		"series":                    "series",
	} {
		assert.Equal(t, want, pluralize(in), in)
	}
}
