package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Postgres stores liquidations in a table keyed by event id. Publishing the
// same liquidation twice leaves a single row.
type Postgres struct {
	db     execer
	closer func() error
	table  string
	insert string
}

func NewPostgres(ctx context.Context, dsn, table string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	p := newPostgres(db, table)
	p.closer = db.Close
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func newPostgres(db execer, table string) *Postgres {
	return &Postgres{
		db:     db,
		closer: func() error { return nil },
		table:  table,
		insert: fmt.Sprintf(`INSERT INTO %s
(id, hash, log_index, block_number, timestamp, market, asset, liquidator, liquidatee, amount, amount_usd, profit_usd)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO NOTHING`, pq.QuoteIdentifier(table)),
	}
}

func createTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	hash TEXT NOT NULL,
	log_index INTEGER NOT NULL,
	block_number NUMERIC NOT NULL,
	timestamp NUMERIC NOT NULL,
	market TEXT NOT NULL,
	asset TEXT,
	liquidator TEXT NOT NULL,
	liquidatee TEXT NOT NULL,
	amount NUMERIC NOT NULL,
	amount_usd NUMERIC,
	profit_usd NUMERIC
)`, pq.QuoteIdentifier(table))
}

// Migrate creates the table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, createTable(p.table))
	return errors.Wrapf(err, "failed to create table %s", p.table)
}

func (p *Postgres) Publish(ctx context.Context, l *models.Liquidate) error {
	var asset sql.NullString
	if l.Asset != nil {
		asset = sql.NullString{String: l.Asset.ID, Valid: true}
	}
	_, err := p.db.ExecContext(ctx, p.insert,
		l.ID,
		l.Hash,
		l.LogIndex,
		l.BlockNumber.String(),
		l.Timestamp.String(),
		marketID(l),
		asset,
		Checksum(l.From),
		Checksum(l.To),
		l.Amount.String(),
		l.AmountUSD,
		l.ProfitUSD,
	)
	return errors.Wrapf(err, "failed to insert liquidation %s", l.ID)
}

func (p *Postgres) Close() error {
	return p.closer()
}
