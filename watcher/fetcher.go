package watcher

import (
	"context"
	"net/http"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/pkg/errors"
	"github.com/shurcooL/graphql"
)

// Fetcher returns liquidations with timestamp >= since in ascending
// timestamp order, skipping the first skip of them.
type Fetcher interface {
	Liquidations(ctx context.Context, since models.BigInt, skip, first int) ([]*models.Liquidate, error)
}

type liquidation struct {
	ID          string                `graphql:"id"`
	Hash        string                `graphql:"hash"`
	LogIndex    int                   `graphql:"logIndex"`
	To          string                `graphql:"to"`
	From        string                `graphql:"from"`
	BlockNumber models.BigInt         `graphql:"blockNumber"`
	Timestamp   models.BigInt         `graphql:"timestamp"`
	Amount      models.BigInt         `graphql:"amount"`
	AmountUSD   models.NullBigDecimal `graphql:"amountUSD"`
	ProfitUSD   models.NullBigDecimal `graphql:"profitUSD"`
	Market      struct {
		ID   string  `graphql:"id"`
		Name *string `graphql:"name"`
	} `graphql:"market"`
	Asset struct {
		ID       string `graphql:"id"`
		Symbol   string `graphql:"symbol"`
		Decimals int    `graphql:"decimals"`
	} `graphql:"asset"`
}

type liquidatesQuery struct {
	Liquidates []liquidation `graphql:"liquidates(first: $first, skip: $skip, orderBy: timestamp, orderDirection: asc, where: {timestamp_gte: $since})"`
}

// GraphqlFetcher queries a subgraph, or the gateway in front of it, with a
// typed GraphQL client.
type GraphqlFetcher struct {
	client *graphql.Client
}

func NewGraphqlFetcher(endpoint string, httpClient *http.Client) *GraphqlFetcher {
	return &GraphqlFetcher{client: graphql.NewClient(endpoint, httpClient)}
}

func (f *GraphqlFetcher) Liquidations(ctx context.Context, since models.BigInt, skip, first int) ([]*models.Liquidate, error) {
	var q liquidatesQuery
	vars := map[string]interface{}{
		"first": graphql.Int(first),
		"skip":  graphql.Int(skip),
		"since": since,
	}
	if err := f.client.Query(ctx, &q, vars); err != nil {
		return nil, errors.Wrap(err, "failed to query liquidations")
	}
	out := make([]*models.Liquidate, 0, len(q.Liquidates))
	for _, l := range q.Liquidates {
		out = append(out, &models.Liquidate{
			ID:          l.ID,
			Hash:        l.Hash,
			LogIndex:    l.LogIndex,
			To:          l.To,
			From:        l.From,
			BlockNumber: l.BlockNumber,
			Timestamp:   l.Timestamp,
			Amount:      l.Amount,
			AmountUSD:   l.AmountUSD,
			ProfitUSD:   l.ProfitUSD,
			Market:      &models.Market{ID: l.Market.ID, Name: l.Market.Name},
			Asset:       &models.Token{ID: l.Asset.ID, Symbol: l.Asset.Symbol, Decimals: l.Asset.Decimals},
		})
	}
	return out, nil
}
