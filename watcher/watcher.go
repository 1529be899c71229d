package watcher

import (
	"context"
	"time"

	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/gql/models"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/metrics"
	"github.com/0xbe1/liquidated/sink"
	"github.com/pkg/errors"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultPageSize = 100
)

// CursorStore persists the watcher position per endpoint.
type CursorStore interface {
	Get(endpoint string) (*config.Cursor, error)
	Save(endpoint string, cursor *config.Cursor) error
}

type Options struct {
	// Endpoint names the cursor. It is the endpoint the fetcher queries.
	Endpoint string
	Fetcher  Fetcher
	Cursors  CursorStore
	Sink     sink.Sink
	Interval time.Duration
	PageSize int
}

// Watcher follows new liquidations and hands each one to a sink exactly
// once per cursor.
type Watcher struct {
	Options
}

func New(opts Options) (*Watcher, error) {
	if opts.Fetcher == nil || opts.Cursors == nil || opts.Sink == nil {
		return nil, errors.New("watcher requires a fetcher, a cursor store and a sink")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Watcher{Options: opts}, nil
}

// Run polls until ctx is done. Failed polls are logged and retried on the
// next tick.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		n, err := w.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Errorf("liquidation poll failed: %v", err)
		} else if n > 0 {
			log.Infof("published %d liquidations", n)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll drains every liquidation after the saved cursor and returns how many
// were published. The cursor is saved after each publish.
func (w *Watcher) Poll(ctx context.Context) (int, error) {
	cursor, err := w.Cursors.Get(w.Endpoint)
	if err != nil {
		return 0, err
	}
	published := 0
	for {
		page, err := w.Fetcher.Liquidations(ctx, cursor.Timestamp, len(cursor.Seen), w.PageSize)
		if err != nil {
			return published, err
		}
		before := published
		for _, l := range page {
			if l.Timestamp.Cmp(cursor.Timestamp) == 0 && cursor.Contains(l.ID) {
				continue
			}
			if l.Timestamp.Cmp(cursor.Timestamp) < 0 {
				log.Warnf("liquidation %s is older than the cursor, skipping", l.ID)
				continue
			}
			if err := w.Sink.Publish(ctx, l); err != nil {
				return published, err
			}
			metrics.LiquidationSeen(marketName(l))
			published++
			advance(cursor, l)
			if err := w.Cursors.Save(w.Endpoint, cursor); err != nil {
				return published, err
			}
		}
		// a full page without anything new would be fetched again forever
		if len(page) < w.PageSize || published == before {
			return published, nil
		}
	}
}

func advance(cursor *config.Cursor, l *models.Liquidate) {
	if l.Timestamp.Cmp(cursor.Timestamp) > 0 {
		cursor.Timestamp = l.Timestamp
		cursor.Seen = []string{l.ID}
		return
	}
	cursor.Seen = append(cursor.Seen, l.ID)
}

func marketName(l *models.Liquidate) string {
	if l.Market == nil {
		return "unknown"
	}
	return l.Market.DisplayName()
}
