package sink

import (
	"context"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Sink receives every liquidation the watcher finds.
type Sink interface {
	Publish(ctx context.Context, l *models.Liquidate) error
	Close() error
}

// Multi publishes to every sink in order and stops at the first failure.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, l *models.Liquidate) error {
	for _, s := range m {
		if err := s.Publish(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "failed to close sink")
		}
	}
	return first
}

// Checksum returns the EIP-55 form of an address, or s unchanged if it is
// not an address.
func Checksum(s string) string {
	if !common.IsHexAddress(s) {
		return s
	}
	return common.HexToAddress(s).Hex()
}

func marketID(l *models.Liquidate) string {
	if l.Market == nil {
		return ""
	}
	return l.Market.ID
}
