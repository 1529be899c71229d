package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/0xbe1/liquidated/sdk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	liquidations []*models.Liquidate
	calls        []sdk.ManyArgs
	tokenCalls   int
}

func (f *fakeSource) Liquidates(_ context.Context, args sdk.ManyArgs) ([]*models.Liquidate, error) {
	f.calls = append(f.calls, args)
	since, err := models.ParseBigInt(args.Where["timestamp_gte"].(string))
	if err != nil {
		return nil, err
	}
	var matching []*models.Liquidate
	for _, l := range f.liquidations {
		if l.Timestamp.Cmp(since) >= 0 {
			matching = append(matching, l)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Timestamp.Cmp(matching[j].Timestamp) < 0
	})
	skip := *args.Skip
	if skip > len(matching) {
		return nil, nil
	}
	matching = matching[skip:]
	if len(matching) > *args.First {
		matching = matching[:*args.First]
	}
	return matching, nil
}

func (f *fakeSource) Market(_ context.Context, args sdk.OneArgs) (*models.Market, error) {
	if args.ID != "0xmarket" {
		return nil, nil
	}
	name := "Compound Ether"
	return &models.Market{ID: args.ID, Name: &name}, nil
}

func (f *fakeSource) Token(_ context.Context, args sdk.OneArgs) (*models.Token, error) {
	f.tokenCalls++
	return &models.Token{ID: args.ID, Symbol: "ETH", Decimals: 18}, nil
}

func liquidation(id string, ts int64) *models.Liquidate {
	return &models.Liquidate{
		ID:        id,
		Hash:      "0xhash",
		LogIndex:  3,
		Timestamp: models.NewBigInt(ts),
		Market:    &models.Market{ID: "0xmarket"},
		Asset:     &models.Token{ID: "0xeth"},
		Amount:    models.NewBigInt(1500000000000000000),
		AmountUSD: decimal.NewNullDecimal(decimal.RequireFromString("1700.456")),
		From:      "0xliquidator",
		To:        "0xborrower",
	}
}

func TestFetchPagesAcrossEqualTimestamps(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < pageSize+5; i++ {
		src.liquidations = append(src.liquidations, liquidation(fmt.Sprintf("l%d", i), 100))
	}
	src.liquidations = append(src.liquidations, liquidation("late", 200))

	rows, err := exportCmd{}.fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, rows, pageSize+6)
	require.Len(t, src.calls, 2)
	assert.Equal(t, "0", src.calls[0].Where["timestamp_gte"])
	assert.Equal(t, "100", src.calls[1].Where["timestamp_gte"])
	assert.Equal(t, pageSize, *src.calls[1].Skip)
}

func TestFetchFilters(t *testing.T) {
	src := &fakeSource{}
	c := exportCmd{market: "0xmarket", since: "2022-06-01", until: "2022-07-01"}
	require.NoError(t, c.validate())
	_, err := c.fetch(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, src.calls, 1)
	where := src.calls[0].Where
	assert.Equal(t, "1654041600", where["timestamp_gte"])
	assert.Equal(t, "1656633600", where["timestamp_lt"])
	assert.Equal(t, "0xmarket", where["market"])
	assert.Equal(t, "timestamp", src.calls[0].OrderBy)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, exportCmd{}.validate())
	assert.Error(t, exportCmd{since: "June"}.validate())
	assert.Error(t, exportCmd{until: "2022-13-01"}.validate())
}

func TestFileName(t *testing.T) {
	c := exportCmd{since: "2022-06-01", until: "2022-07-01"}
	assert.Equal(t, "liquidations-compound-ether-2022-06-01-2022-07-01.csv", c.fileName("Compound Ether"))
	assert.Equal(t, "liquidations.csv", exportCmd{}.fileName(""))
}

func TestWriteCSV(t *testing.T) {
	src := &fakeSource{}
	var buf bytes.Buffer
	rows := []*models.Liquidate{liquidation("a", 100), liquidation("b", 101)}
	require.NoError(t, writeCSV(context.Background(), &buf, src, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{
		"a", "0xhash", "3", "0", "100", "0xmarket", "ETH",
		"0xliquidator", "0xborrower", "1.5", "1700.46", "",
	}, records[1])
	assert.Equal(t, 1, src.tokenCalls)
}

func TestRun(t *testing.T) {
	src := &fakeSource{liquidations: []*models.Liquidate{liquidation("a", 1654041601)}}
	c := exportCmd{market: "0xmarket", since: "2022-06-01", out: filepath.Join(t.TempDir(), "out")}
	path, err := c.run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "liquidations-compound-ether-2022-06-01.csv", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a,0xhash")

	_, err = exportCmd{market: "0xnope", out: t.TempDir()}.run(context.Background(), src)
	assert.EqualError(t, err, "market 0xnope not found")
}
