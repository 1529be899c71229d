package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigIntJSON(t *testing.T) {
	var v struct {
		A BigInt `json:"a"`
		B BigInt `json:"b"`
		C BigInt `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"123456789012345678901234567890","b":42,"c":null}`), &v)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", v.A.String())
	assert.Equal(t, int64(42), v.B.Int64())
	assert.Equal(t, "0", v.C.String())

	out, err := json.Marshal(v.A)
	require.NoError(t, err)
	assert.Equal(t, `"123456789012345678901234567890"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"12x"`), &v.A))
}

func TestBigIntScaled(t *testing.T) {
	amount, err := ParseBigInt("1500000000000000000")
	require.NoError(t, err)
	assert.True(t, amount.Scaled(18).Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 1, amount.Cmp(NewBigInt(1)))
	assert.Equal(t, 0, BigInt{}.Cmp(NewBigInt(0)))
}

func TestLiquidateDecoding(t *testing.T) {
	payload := `{
		"id": "0xabc-12",
		"hash": "0xabc",
		"logIndex": 12,
		"protocol": {"id": "0x3d9819210a31b4961b30ef54be2aed79b9c9cd3b"},
		"to": "0x1111111111111111111111111111111111111111",
		"from": "0x2222222222222222222222222222222222222222",
		"blockNumber": "14000000",
		"timestamp": "1650000000",
		"market": {"id": "0x5d3a536e4d6dbd6114cc1ead35777bab948e3643"},
		"asset": {"id": "0x6b175474e89094c44da98b954eedeac495271d0f"},
		"amount": "1000000000000000000",
		"amountUSD": "1.0003",
		"profitUSD": null
	}`
	var l Liquidate
	require.NoError(t, json.Unmarshal([]byte(payload), &l))
	assert.Equal(t, "0x5d3a536e4d6dbd6114cc1ead35777bab948e3643", l.Market.ID)
	assert.Equal(t, int64(1650000000), l.Timestamp.Int64())
	assert.True(t, l.AmountUSD.Valid)
	assert.True(t, l.AmountUSD.Decimal.Equal(decimal.RequireFromString("1.0003")))
	assert.False(t, l.ProfitUSD.Valid)
}

func TestMetaDecoding(t *testing.T) {
	var m Meta
	err := json.Unmarshal([]byte(`{"block":{"hash":"0x01ff","number":15000000,"timestamp":null},"deployment":"Qm123","hasIndexingErrors":false}`), &m)
	require.NoError(t, err)
	require.NotNil(t, m.Block.Hash)
	assert.Equal(t, []byte{0x01, 0xff}, []byte(*m.Block.Hash))
	assert.Equal(t, 15000000, m.Block.Number)
	assert.Nil(t, m.Block.Timestamp)
}

func TestEnums(t *testing.T) {
	assert.True(t, NetworkEthereum.IsValid())
	assert.False(t, Network("MAINNET").IsValid())

	var d OrderDirection
	require.NoError(t, d.UnmarshalGQL("desc"))
	assert.Equal(t, OrderDirectionDesc, d)
	assert.Error(t, d.UnmarshalGQL("down"))
	assert.Error(t, d.UnmarshalGQL(1))

	var p SubgraphErrorPolicy
	require.NoError(t, p.UnmarshalGQL("allow"))
	assert.Equal(t, SubgraphErrorPolicyAllow, p)
}

func TestMarketDisplayName(t *testing.T) {
	name := "Compound Dai"
	assert.Equal(t, "Compound Dai", (&Market{ID: "0x1", Name: &name}).DisplayName())
	assert.Equal(t, "0x1", (&Market{ID: "0x1"}).DisplayName())
}
