package watcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/gql/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFetcher serves liquidations the way the subgraph does for
// timestamp_gte + skip + first ordered by timestamp.
type memFetcher struct {
	items []*models.Liquidate
	calls int
	err   error
}

func (f *memFetcher) Liquidations(_ context.Context, since models.BigInt, skip, first int) ([]*models.Liquidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var matching []*models.Liquidate
	for _, l := range f.items {
		if l.Timestamp.Cmp(since) >= 0 {
			matching = append(matching, l)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool { return matching[i].Timestamp.Cmp(matching[j].Timestamp) < 0 })
	if skip >= len(matching) {
		return nil, nil
	}
	matching = matching[skip:]
	if len(matching) > first {
		matching = matching[:first]
	}
	return matching, nil
}

type memCursors struct {
	cursors map[string]*config.Cursor
	saves   int
}

func (m *memCursors) Get(endpoint string) (*config.Cursor, error) {
	c, ok := m.cursors[endpoint]
	if !ok {
		return &config.Cursor{}, nil
	}
	cp := *c
	cp.Seen = append([]string(nil), c.Seen...)
	return &cp, nil
}

func (m *memCursors) Save(endpoint string, c *config.Cursor) error {
	m.saves++
	cp := *c
	cp.Seen = append([]string(nil), c.Seen...)
	m.cursors[endpoint] = &cp
	return nil
}

type recordSink struct {
	mu   sync.Mutex
	ids  []string
	fail map[string]bool
}

func (r *recordSink) Publish(_ context.Context, l *models.Liquidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[l.ID] {
		return errors.New("sink unavailable")
	}
	r.ids = append(r.ids, l.ID)
	return nil
}

func (r *recordSink) Close() error { return nil }

func (r *recordSink) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func liq(id string, ts int64) *models.Liquidate {
	return &models.Liquidate{ID: id, Timestamp: models.NewBigInt(ts), Market: &models.Market{ID: "0xm"}}
}

func newWatcher(t *testing.T, f Fetcher, s *recordSink, pageSize int) (*Watcher, *memCursors) {
	t.Helper()
	cursors := &memCursors{cursors: map[string]*config.Cursor{}}
	w, err := New(Options{Endpoint: "http://subgraph", Fetcher: f, Cursors: cursors, Sink: s, PageSize: pageSize})
	require.NoError(t, err)
	return w, cursors
}

func TestPollDrainsPages(t *testing.T) {
	f := &memFetcher{items: []*models.Liquidate{
		liq("a", 100), liq("b", 100), liq("c", 101), liq("d", 102), liq("e", 102),
	}}
	s := &recordSink{}
	w, cursors := newWatcher(t, f, s, 2)

	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, s.published())

	cursor := cursors.cursors["http://subgraph"]
	assert.Equal(t, "102", cursor.Timestamp.String())
	assert.Equal(t, []string{"d", "e"}, cursor.Seen)
	assert.Equal(t, 5, cursors.saves)
}

func TestPollPublishesOnlyNewLiquidations(t *testing.T) {
	f := &memFetcher{items: []*models.Liquidate{liq("a", 100), liq("b", 100)}}
	s := &recordSink{}
	w, _ := newWatcher(t, f, s, 10)

	_, err := w.Poll(context.Background())
	require.NoError(t, err)

	// a new liquidation lands in the same second as the last one seen
	f.items = append(f.items, liq("c", 100), liq("d", 105))
	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.published())
}

func TestPollResumesAfterSinkFailure(t *testing.T) {
	f := &memFetcher{items: []*models.Liquidate{liq("a", 100), liq("b", 101), liq("c", 102)}}
	s := &recordSink{fail: map[string]bool{"b": true}}
	w, _ := newWatcher(t, f, s, 10)

	n, err := w.Poll(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	s.fail = nil
	n, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b", "c"}, s.published())
}

func TestPollStopsWithoutProgress(t *testing.T) {
	// a fetcher that ignores skip keeps returning the same page
	stuck := &stuckFetcher{page: []*models.Liquidate{liq("a", 100), liq("b", 100)}}
	s := &recordSink{}
	w, _ := newWatcher(t, stuck, s, 2)

	_, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.published())
	assert.Equal(t, 2, stuck.calls)
}

type stuckFetcher struct {
	page  []*models.Liquidate
	calls int
}

func (f *stuckFetcher) Liquidations(context.Context, models.BigInt, int, int) ([]*models.Liquidate, error) {
	f.calls++
	return f.page, nil
}

func TestRunRetriesAfterErrors(t *testing.T) {
	f := &memFetcher{err: errors.New("upstream down")}
	s := &recordSink{}
	cursors := &memCursors{cursors: map[string]*config.Cursor{}}
	w, err := New(Options{Fetcher: f, Cursors: cursors, Sink: s, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, w.Run(ctx))
	assert.Greater(t, f.calls, 1)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestGraphqlFetcher(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"liquidates":[{
			"id":"0xabc-1","hash":"0xabc","logIndex":1,"to":"0x1","from":"0x2",
			"blockNumber":"14000000","timestamp":"1650000000","amount":"1000",
			"amountUSD":"12.34","profitUSD":null,
			"market":{"id":"0xm","name":"Compound Ether"},
			"asset":{"id":"0xeth","symbol":"ETH","decimals":18}
		}]}}`))
	}))
	defer srv.Close()

	f := NewGraphqlFetcher(srv.URL, srv.Client())
	items, err := f.Liquidations(context.Background(), models.NewBigInt(1649999999), 3, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)

	l := items[0]
	assert.Equal(t, "0xabc-1", l.ID)
	assert.Equal(t, "1650000000", l.Timestamp.String())
	assert.Equal(t, "12.34", l.AmountUSD.Decimal.String())
	assert.False(t, l.ProfitUSD.Valid)
	assert.Equal(t, "Compound Ether", l.Market.DisplayName())
	assert.Equal(t, 18, l.Asset.Decimals)

	query := body["query"].(string)
	assert.True(t, strings.Contains(query, "$since:BigInt!"), query)
	assert.Contains(t, query, "where: {timestamp_gte: $since}")
	vars := body["variables"].(map[string]interface{})
	assert.Equal(t, "1649999999", vars["since"])
	assert.EqualValues(t, 3, vars["skip"])
	assert.EqualValues(t, 50, vars["first"])
}
