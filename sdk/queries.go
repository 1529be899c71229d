package sdk

import (
	"context"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/vektah/gqlparser/v2/ast"
)

// Meta returns the indexing status of the subgraph, optionally at a block.
func (s *Sdk) Meta(ctx context.Context, block *BlockHeight) (*models.Meta, error) {
	vars := map[string]interface{}{}
	if block != nil {
		vars["block"] = block.variable()
	}
	var out *models.Meta
	req, err := s.Request(ast.Query, "_meta", vars)
	if err != nil {
		return nil, err
	}
	resp, err := s.exec.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	err = decode(resp, "_meta", Deny, &out)
	return out, err
}

func (s *Sdk) Token(ctx context.Context, args OneArgs) (*models.Token, error) {
	return one[models.Token](ctx, s, "token", args)
}

func (s *Sdk) Tokens(ctx context.Context, args ManyArgs) ([]*models.Token, error) {
	return many[models.Token](ctx, s, "tokens", args)
}

func (s *Sdk) SubscribeTokens(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Token], error) {
	return subscribe[models.Token](ctx, s, "tokens", args)
}

func (s *Sdk) RewardToken(ctx context.Context, args OneArgs) (*models.RewardToken, error) {
	return one[models.RewardToken](ctx, s, "rewardToken", args)
}

func (s *Sdk) RewardTokens(ctx context.Context, args ManyArgs) ([]*models.RewardToken, error) {
	return many[models.RewardToken](ctx, s, "rewardTokens", args)
}

func (s *Sdk) SubscribeRewardTokens(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.RewardToken], error) {
	return subscribe[models.RewardToken](ctx, s, "rewardTokens", args)
}

func (s *Sdk) LendingProtocol(ctx context.Context, args OneArgs) (*models.LendingProtocol, error) {
	return one[models.LendingProtocol](ctx, s, "lendingProtocol", args)
}

func (s *Sdk) LendingProtocols(ctx context.Context, args ManyArgs) ([]*models.LendingProtocol, error) {
	return many[models.LendingProtocol](ctx, s, "lendingProtocols", args)
}

func (s *Sdk) SubscribeLendingProtocols(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.LendingProtocol], error) {
	return subscribe[models.LendingProtocol](ctx, s, "lendingProtocols", args)
}

func (s *Sdk) UsageMetricsDailySnapshot(ctx context.Context, args OneArgs) (*models.UsageMetricsDailySnapshot, error) {
	return one[models.UsageMetricsDailySnapshot](ctx, s, "usageMetricsDailySnapshot", args)
}

func (s *Sdk) UsageMetricsDailySnapshots(ctx context.Context, args ManyArgs) ([]*models.UsageMetricsDailySnapshot, error) {
	return many[models.UsageMetricsDailySnapshot](ctx, s, "usageMetricsDailySnapshots", args)
}

func (s *Sdk) SubscribeUsageMetricsDailySnapshots(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.UsageMetricsDailySnapshot], error) {
	return subscribe[models.UsageMetricsDailySnapshot](ctx, s, "usageMetricsDailySnapshots", args)
}

func (s *Sdk) UsageMetricsHourlySnapshot(ctx context.Context, args OneArgs) (*models.UsageMetricsHourlySnapshot, error) {
	return one[models.UsageMetricsHourlySnapshot](ctx, s, "usageMetricsHourlySnapshot", args)
}

func (s *Sdk) UsageMetricsHourlySnapshots(ctx context.Context, args ManyArgs) ([]*models.UsageMetricsHourlySnapshot, error) {
	return many[models.UsageMetricsHourlySnapshot](ctx, s, "usageMetricsHourlySnapshots", args)
}

func (s *Sdk) SubscribeUsageMetricsHourlySnapshots(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.UsageMetricsHourlySnapshot], error) {
	return subscribe[models.UsageMetricsHourlySnapshot](ctx, s, "usageMetricsHourlySnapshots", args)
}

func (s *Sdk) FinancialsDailySnapshot(ctx context.Context, args OneArgs) (*models.FinancialsDailySnapshot, error) {
	return one[models.FinancialsDailySnapshot](ctx, s, "financialsDailySnapshot", args)
}

func (s *Sdk) FinancialsDailySnapshots(ctx context.Context, args ManyArgs) ([]*models.FinancialsDailySnapshot, error) {
	return many[models.FinancialsDailySnapshot](ctx, s, "financialsDailySnapshots", args)
}

func (s *Sdk) SubscribeFinancialsDailySnapshots(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.FinancialsDailySnapshot], error) {
	return subscribe[models.FinancialsDailySnapshot](ctx, s, "financialsDailySnapshots", args)
}

func (s *Sdk) Market(ctx context.Context, args OneArgs) (*models.Market, error) {
	return one[models.Market](ctx, s, "market", args)
}

func (s *Sdk) Markets(ctx context.Context, args ManyArgs) ([]*models.Market, error) {
	return many[models.Market](ctx, s, "markets", args)
}

func (s *Sdk) SubscribeMarkets(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Market], error) {
	return subscribe[models.Market](ctx, s, "markets", args)
}

func (s *Sdk) MarketDailySnapshot(ctx context.Context, args OneArgs) (*models.MarketDailySnapshot, error) {
	return one[models.MarketDailySnapshot](ctx, s, "marketDailySnapshot", args)
}

func (s *Sdk) MarketDailySnapshots(ctx context.Context, args ManyArgs) ([]*models.MarketDailySnapshot, error) {
	return many[models.MarketDailySnapshot](ctx, s, "marketDailySnapshots", args)
}

func (s *Sdk) SubscribeMarketDailySnapshots(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.MarketDailySnapshot], error) {
	return subscribe[models.MarketDailySnapshot](ctx, s, "marketDailySnapshots", args)
}

func (s *Sdk) MarketHourlySnapshot(ctx context.Context, args OneArgs) (*models.MarketHourlySnapshot, error) {
	return one[models.MarketHourlySnapshot](ctx, s, "marketHourlySnapshot", args)
}

func (s *Sdk) MarketHourlySnapshots(ctx context.Context, args ManyArgs) ([]*models.MarketHourlySnapshot, error) {
	return many[models.MarketHourlySnapshot](ctx, s, "marketHourlySnapshots", args)
}

func (s *Sdk) SubscribeMarketHourlySnapshots(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.MarketHourlySnapshot], error) {
	return subscribe[models.MarketHourlySnapshot](ctx, s, "marketHourlySnapshots", args)
}

func (s *Sdk) Event(ctx context.Context, args OneArgs) (*models.Event, error) {
	return one[models.Event](ctx, s, "event", args)
}

func (s *Sdk) Events(ctx context.Context, args ManyArgs) ([]*models.Event, error) {
	return many[models.Event](ctx, s, "events", args)
}

func (s *Sdk) SubscribeEvents(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Event], error) {
	return subscribe[models.Event](ctx, s, "events", args)
}

func (s *Sdk) Deposit(ctx context.Context, args OneArgs) (*models.Deposit, error) {
	return one[models.Deposit](ctx, s, "deposit", args)
}

func (s *Sdk) Deposits(ctx context.Context, args ManyArgs) ([]*models.Deposit, error) {
	return many[models.Deposit](ctx, s, "deposits", args)
}

func (s *Sdk) SubscribeDeposits(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Deposit], error) {
	return subscribe[models.Deposit](ctx, s, "deposits", args)
}

func (s *Sdk) Withdraw(ctx context.Context, args OneArgs) (*models.Withdraw, error) {
	return one[models.Withdraw](ctx, s, "withdraw", args)
}

func (s *Sdk) Withdraws(ctx context.Context, args ManyArgs) ([]*models.Withdraw, error) {
	return many[models.Withdraw](ctx, s, "withdraws", args)
}

func (s *Sdk) SubscribeWithdraws(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Withdraw], error) {
	return subscribe[models.Withdraw](ctx, s, "withdraws", args)
}

func (s *Sdk) Borrow(ctx context.Context, args OneArgs) (*models.Borrow, error) {
	return one[models.Borrow](ctx, s, "borrow", args)
}

func (s *Sdk) Borrows(ctx context.Context, args ManyArgs) ([]*models.Borrow, error) {
	return many[models.Borrow](ctx, s, "borrows", args)
}

func (s *Sdk) SubscribeBorrows(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Borrow], error) {
	return subscribe[models.Borrow](ctx, s, "borrows", args)
}

func (s *Sdk) Repay(ctx context.Context, args OneArgs) (*models.Repay, error) {
	return one[models.Repay](ctx, s, "repay", args)
}

func (s *Sdk) Repays(ctx context.Context, args ManyArgs) ([]*models.Repay, error) {
	return many[models.Repay](ctx, s, "repays", args)
}

func (s *Sdk) SubscribeRepays(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Repay], error) {
	return subscribe[models.Repay](ctx, s, "repays", args)
}

func (s *Sdk) Liquidate(ctx context.Context, args OneArgs) (*models.Liquidate, error) {
	return one[models.Liquidate](ctx, s, "liquidate", args)
}

func (s *Sdk) Liquidates(ctx context.Context, args ManyArgs) ([]*models.Liquidate, error) {
	return many[models.Liquidate](ctx, s, "liquidates", args)
}

func (s *Sdk) SubscribeLiquidates(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.Liquidate], error) {
	return subscribe[models.Liquidate](ctx, s, "liquidates", args)
}

func (s *Sdk) CircularBuffer(ctx context.Context, args OneArgs) (*models.CircularBuffer, error) {
	return one[models.CircularBuffer](ctx, s, "_circularBuffer", args)
}

func (s *Sdk) CircularBuffers(ctx context.Context, args ManyArgs) ([]*models.CircularBuffer, error) {
	return many[models.CircularBuffer](ctx, s, "_circularBuffers", args)
}

func (s *Sdk) SubscribeCircularBuffers(ctx context.Context, args ManyArgs) (<-chan Result[[]*models.CircularBuffer], error) {
	return subscribe[models.CircularBuffer](ctx, s, "_circularBuffers", args)
}
