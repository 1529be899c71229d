package sink

import (
	"context"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/0xbe1/liquidated/log"
)

// Log writes each liquidation as a structured log line.
type Log struct{}

func (Log) Publish(_ context.Context, l *models.Liquidate) error {
	fields := log.Fields{
		"id":         l.ID,
		"hash":       l.Hash,
		"block":      l.BlockNumber.String(),
		"timestamp":  l.Timestamp.String(),
		"market":     marketID(l),
		"liquidator": Checksum(l.From),
		"liquidatee": Checksum(l.To),
		"amount":     l.Amount.String(),
	}
	if l.Asset != nil {
		fields["asset"] = l.Asset.Symbol
		fields["amount"] = l.Amount.Scaled(int32(l.Asset.Decimals)).String()
	}
	if l.AmountUSD.Valid {
		fields["amountUSD"] = l.AmountUSD.Decimal.StringFixed(2)
	}
	if l.ProfitUSD.Valid {
		fields["profitUSD"] = l.ProfitUSD.Decimal.StringFixed(2)
	}
	log.WithFields(fields).Info("liquidation")
	return nil
}

func (Log) Close() error {
	return nil
}
