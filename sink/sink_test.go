package sink

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/0xbe1/liquidated/log"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liquidation() *models.Liquidate {
	return &models.Liquidate{
		ID:          "0xabc-12",
		Hash:        "0xabc",
		LogIndex:    12,
		BlockNumber: models.NewBigInt(14000000),
		Timestamp:   models.NewBigInt(1650000000),
		Market:      &models.Market{ID: "0x5d3a536e4d6dbd6114cc1ead35777bab948e3643"},
		Asset:       &models.Token{ID: "0x6b175474e89094c44da98b954eedeac495271d0f", Symbol: "DAI", Decimals: 18},
		From:        "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		To:          "0x0000000000000000000000000000000000000001",
		Amount:      models.NewBigInt(2500000000000000000),
		AmountUSD:   decimal.NullDecimal{Decimal: decimal.RequireFromString("2.5"), Valid: true},
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", Checksum("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.Equal(t, "not-an-address", Checksum("not-an-address"))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	require.NoError(t, log.Configure("info", "json"))
	defer func() { _ = log.Configure("info", "text") }()

	require.NoError(t, Log{}.Publish(context.Background(), liquidation()))

	line := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "liquidation", line["msg"])
	assert.Equal(t, "DAI", line["asset"])
	assert.Equal(t, "2.5", line["amount"])
	assert.Equal(t, "2.50", line["amountUSD"])
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", line["liquidator"])
	assert.NotContains(t, line, "profitUSD")
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafka(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{writer: w}
	l := liquidation()
	require.NoError(t, k.Publish(context.Background(), l))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, l.Market.ID, string(w.msgs[0].Key))
	assert.Equal(t, int64(1650000000), w.msgs[0].Time.Unix())

	decoded := &models.Liquidate{}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, decoded))
	assert.Equal(t, l.ID, decoded.ID)
	assert.Equal(t, "2500000000000000000", decoded.Amount.String())

	w.err = errors.New("broker down")
	assert.Error(t, k.Publish(context.Background(), l))
	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaValidates(t *testing.T) {
	_, err := NewKafka(nil, "liquidations")
	assert.Error(t, err)
	_, err = NewKafka([]string{"localhost:9092"}, "")
	assert.Error(t, err)
	k, err := NewKafka([]string{"localhost:9092"}, "liquidations")
	require.NoError(t, err)
	require.NoError(t, k.Close())
}

type fakeDB struct {
	queries []string
	args    [][]interface{}
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	return nil, nil
}

func TestPostgres(t *testing.T) {
	db := &fakeDB{}
	p := newPostgres(db, "liquidations")
	require.NoError(t, p.Migrate(context.Background()))
	require.NoError(t, p.Publish(context.Background(), liquidation()))

	require.Len(t, db.queries, 2)
	assert.True(t, strings.HasPrefix(db.queries[0], `CREATE TABLE IF NOT EXISTS "liquidations"`))
	assert.Contains(t, db.queries[1], "ON CONFLICT (id) DO NOTHING")
	args := db.args[1]
	require.Len(t, args, 12)
	assert.Equal(t, "0xabc-12", args[0])
	assert.Equal(t, "1650000000", args[4])
	assert.Equal(t, sql.NullString{String: "0x6b175474e89094c44da98b954eedeac495271d0f", Valid: true}, args[6])
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", args[7])
	assert.NoError(t, p.Close())
}

type failing struct{ closed bool }

func (f *failing) Publish(context.Context, *models.Liquidate) error { return errors.New("nope") }
func (f *failing) Close() error                                     { f.closed = true; return nil }

func TestMulti(t *testing.T) {
	w := &fakeWriter{}
	f := &failing{}
	m := Multi{&Kafka{writer: w}, f}
	assert.Error(t, m.Publish(context.Background(), liquidation()))
	assert.Len(t, w.msgs, 1)
	require.NoError(t, m.Close())
	assert.True(t, f.closed)
	assert.True(t, w.closed)
}
