package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/0xbe1/liquidated/cmd/common"
	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/gql/models"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/sdk"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	exportDesc = `
'export' command writes the liquidations of a time range, optionally of a
single market, to a CSV file`
	exportExample = `  liquidated export --since 2022-06-01 --until 2022-07-01
  liquidated export --market 0x4ddc2d193948926d02f9b1fe9e1daa0718270ed5 --out ./exports`

	pageSize   = 1000
	dateLayout = "2006-01-02"
)

var header = []string{
	"id", "hash", "log_index", "block_number", "timestamp", "market", "asset",
	"liquidator", "liquidatee", "amount", "amount_usd", "profit_usd",
}

// source is the part of the SDK the export reads from.
type source interface {
	Liquidates(ctx context.Context, args sdk.ManyArgs) ([]*models.Liquidate, error)
	Market(ctx context.Context, args sdk.OneArgs) (*models.Market, error)
	Token(ctx context.Context, args sdk.OneArgs) (*models.Token, error)
}

type exportCmd struct {
	market string
	since  string
	until  string
	out    string
}

func (c exportCmd) validate() error {
	if c.since != "" {
		if _, err := time.Parse(dateLayout, c.since); err != nil {
			return errors.Wrap(err, "--since must be a date like 2022-06-01")
		}
	}
	if c.until != "" {
		if _, err := time.Parse(dateLayout, c.until); err != nil {
			return errors.Wrap(err, "--until must be a date like 2022-07-01")
		}
	}
	return nil
}

func unix(date string) int64 {
	if date == "" {
		return 0
	}
	t, _ := time.Parse(dateLayout, date)
	return t.Unix()
}

// fileName is derived from the market name and the range, e.g.
// liquidations-compound-ether-2022-06-01-2022-07-01.csv.
func (c exportCmd) fileName(marketName string) string {
	name := "liquidations"
	if marketName != "" {
		name += "-" + marketName
	}
	if c.since != "" {
		name += "-" + c.since
	}
	if c.until != "" {
		name += "-" + c.until
	}
	return slug.Make(name) + ".csv"
}

// fetch pages through liquidations in timestamp order. Entities that share
// the timestamp of the last page boundary are skipped by count.
func (c exportCmd) fetch(ctx context.Context, src source) ([]*models.Liquidate, error) {
	var all []*models.Liquidate
	since := strconv.FormatInt(unix(c.since), 10)
	seen := map[string]bool{}
	skip := 0
	for {
		where := sdk.Where{}.Gte("timestamp", since)
		if c.until != "" {
			where.Lt("timestamp", strconv.FormatInt(unix(c.until), 10))
		}
		if c.market != "" {
			where.Eq("market", c.market)
		}
		page, err := src.Liquidates(ctx, sdk.ManyArgs{
			First:          sdk.Int(pageSize),
			Skip:           sdk.Int(skip),
			OrderBy:        "timestamp",
			OrderDirection: models.OrderDirectionAsc,
			Where:          where,
		})
		if err != nil {
			return all, err
		}
		added := 0
		for _, l := range page {
			if seen[l.ID] {
				continue
			}
			seen[l.ID] = true
			all = append(all, l)
			added++
			ts := l.Timestamp.String()
			if ts != since {
				since = ts
				skip = 0
			}
			skip++
		}
		if len(page) < pageSize || added == 0 {
			return all, nil
		}
	}
}

type tokenCache struct {
	src    source
	tokens map[string]*models.Token
}

func (t *tokenCache) get(ctx context.Context, id string) (*models.Token, error) {
	if tok, ok := t.tokens[id]; ok {
		return tok, nil
	}
	tok, err := t.src.Token(ctx, sdk.OneArgs{ID: id})
	if err != nil {
		return nil, err
	}
	t.tokens[id] = tok
	return tok, nil
}

func writeCSV(ctx context.Context, w io.Writer, src source, rows []*models.Liquidate) error {
	tokens := &tokenCache{src: src, tokens: map[string]*models.Token{}}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range rows {
		amount := l.Amount.String()
		symbol := ""
		if l.Asset != nil {
			tok, err := tokens.get(ctx, l.Asset.ID)
			if err != nil {
				return errors.Wrapf(err, "failed to get token %s", l.Asset.ID)
			}
			if tok != nil {
				symbol = tok.Symbol
				amount = l.Amount.Scaled(int32(tok.Decimals)).String()
			}
		}
		market := ""
		if l.Market != nil {
			market = l.Market.ID
		}
		if err := cw.Write([]string{
			l.ID,
			l.Hash,
			strconv.Itoa(l.LogIndex),
			l.BlockNumber.String(),
			l.Timestamp.String(),
			market,
			symbol,
			l.From,
			l.To,
			amount,
			usd(l.AmountUSD),
			usd(l.ProfitUSD),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func usd(v models.NullBigDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}

func (c exportCmd) run(ctx context.Context, src source) (string, error) {
	marketName := ""
	if c.market != "" {
		m, err := src.Market(ctx, sdk.OneArgs{ID: c.market})
		if err != nil {
			return "", err
		}
		if m == nil {
			return "", errors.Errorf("market %s not found", c.market)
		}
		marketName = m.DisplayName()
	}
	rows, err := c.fetch(ctx, src)
	if err != nil {
		return "", err
	}
	if err := config.EnsureDirs(c.out); err != nil {
		return "", err
	}
	path := filepath.Join(c.out, c.fileName(marketName))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := writeCSV(ctx, f, src, rows); err != nil {
		return "", err
	}
	log.Infof("exported %d liquidations to %s", len(rows), path)
	return path, f.Close()
}

func NewExportCmd() *cobra.Command {
	c := &exportCmd{}
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Exports liquidations to CSV",
		Long:    exportDesc,
		Example: exportExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.validate(); err != nil {
				return err
			}
			if c.out == "" {
				c.out = config.MustGetPaths().ExportsDir()
			}
			conf, err := common.LoadConfig(cmd)
			if err != nil {
				return err
			}
			m, err := common.NewMesh(conf)
			if err != nil {
				return err
			}
			defer m.Close()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			path, err := c.run(ctx, m.Sdk())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.market, "market", "", "market id to export")
	f.StringVar(&c.since, "since", "", "first day to export (inclusive)")
	f.StringVar(&c.until, "until", "", "last day to export (exclusive)")
	f.StringVar(&c.out, "out", "", "output directory, defaults to ~/.liquidated/exports")
	return cmd
}
