package models

// References to other entities are decoded into the referenced type with
// only the fields that were selected (by default just ID).

type Token struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type RewardToken struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	Decimals int             `json:"decimals"`
	Type     RewardTokenType `json:"type"`
}

type LendingProtocol struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Slug                string       `json:"slug"`
	SchemaVersion       string       `json:"schemaVersion"`
	SubgraphVersion     string       `json:"subgraphVersion"`
	MethodologyVersion  string       `json:"methodologyVersion"`
	Network             Network      `json:"network"`
	Type                ProtocolType `json:"type"`
	LendingType         *LendingType `json:"lendingType"`
	RiskType            *RiskType    `json:"riskType"`
	TotalUniqueUsers    int          `json:"totalUniqueUsers"`
	TotalValueLockedUSD BigDecimal   `json:"totalValueLockedUSD"`
	TotalVolumeUSD      BigDecimal   `json:"totalVolumeUSD"`
	TotalDepositUSD     BigDecimal   `json:"totalDepositUSD"`
	TotalBorrowUSD      BigDecimal   `json:"totalBorrowUSD"`

	UsageMetrics       []*UsageMetricsDailySnapshot  `json:"usageMetrics,omitempty"`
	HourlyUsageMetrics []*UsageMetricsHourlySnapshot `json:"hourlyUsageMetrics,omitempty"`
	FinancialMetrics   []*FinancialsDailySnapshot    `json:"financialMetrics,omitempty"`
	Markets            []*Market                     `json:"markets,omitempty"`
}

type UsageMetricsDailySnapshot struct {
	ID                    string           `json:"id"`
	Protocol              *LendingProtocol `json:"protocol"`
	ActiveUsers           int              `json:"activeUsers"`
	TotalUniqueUsers      int              `json:"totalUniqueUsers"`
	DailyTransactionCount int              `json:"dailyTransactionCount"`
	BlockNumber           BigInt           `json:"blockNumber"`
	Timestamp             BigInt           `json:"timestamp"`
}

type UsageMetricsHourlySnapshot struct {
	ID                     string           `json:"id"`
	Protocol               *LendingProtocol `json:"protocol"`
	HourlyActiveUsers      int              `json:"hourlyActiveUsers"`
	TotalUniqueUsers       int              `json:"totalUniqueUsers"`
	HourlyTransactionCount int              `json:"hourlyTransactionCount"`
	BlockNumber            BigInt           `json:"blockNumber"`
	Timestamp              BigInt           `json:"timestamp"`
}

type FinancialsDailySnapshot struct {
	ID                     string           `json:"id"`
	Protocol               *LendingProtocol `json:"protocol"`
	TotalValueLockedUSD    BigDecimal       `json:"totalValueLockedUSD"`
	TotalVolumeUSD         BigDecimal       `json:"totalVolumeUSD"`
	TotalDepositUSD        BigDecimal       `json:"totalDepositUSD"`
	TotalBorrowUSD         BigDecimal       `json:"totalBorrowUSD"`
	SupplySideRevenueUSD   BigDecimal       `json:"supplySideRevenueUSD"`
	ProtocolSideRevenueUSD BigDecimal       `json:"protocolSideRevenueUSD"`
	TotalRevenueUSD        BigDecimal       `json:"totalRevenueUSD"`
	BlockNumber            BigInt           `json:"blockNumber"`
	Timestamp              BigInt           `json:"timestamp"`
}

type Market struct {
	ID                         string           `json:"id"`
	Protocol                   *LendingProtocol `json:"protocol"`
	Name                       *string          `json:"name"`
	IsActive                   bool             `json:"isActive"`
	CanUseAsCollateral         bool             `json:"canUseAsCollateral"`
	CanBorrowFrom              bool             `json:"canBorrowFrom"`
	MaximumLTV                 BigDecimal       `json:"maximumLTV"`
	LiquidationThreshold       BigDecimal       `json:"liquidationThreshold"`
	LiquidationPenalty         BigDecimal       `json:"liquidationPenalty"`
	InputTokens                []*Token         `json:"inputTokens"`
	OutputToken                *Token           `json:"outputToken"`
	RewardTokens               []*RewardToken   `json:"rewardTokens"`
	TotalValueLockedUSD        BigDecimal       `json:"totalValueLockedUSD"`
	TotalVolumeUSD             BigDecimal       `json:"totalVolumeUSD"`
	TotalDepositUSD            BigDecimal       `json:"totalDepositUSD"`
	TotalBorrowUSD             BigDecimal       `json:"totalBorrowUSD"`
	InputTokenBalances         []BigInt         `json:"inputTokenBalances"`
	InputTokenPricesUSD        []BigDecimal     `json:"inputTokenPricesUSD"`
	OutputTokenSupply          BigInt           `json:"outputTokenSupply"`
	OutputTokenPriceUSD        BigDecimal       `json:"outputTokenPriceUSD"`
	RewardTokenEmissionsAmount []BigInt         `json:"rewardTokenEmissionsAmount"`
	RewardTokenEmissionsUSD    []BigDecimal     `json:"rewardTokenEmissionsUSD"`
	DepositRate                BigDecimal       `json:"depositRate"`
	StableBorrowRate           BigDecimal       `json:"stableBorrowRate"`
	VariableBorrowRate         BigDecimal       `json:"variableBorrowRate"`
	CreatedTimestamp           BigInt           `json:"createdTimestamp"`
	CreatedBlockNumber         BigInt           `json:"createdBlockNumber"`

	DailySnapshots  []*MarketDailySnapshot  `json:"dailySnapshots,omitempty"`
	HourlySnapshots []*MarketHourlySnapshot `json:"hourlySnapshots,omitempty"`
	Deposits        []*Deposit              `json:"deposits,omitempty"`
	Withdraws       []*Withdraw             `json:"withdraws,omitempty"`
	Borrows         []*Borrow               `json:"borrows,omitempty"`
	Repays          []*Repay                `json:"repays,omitempty"`
	Liquidates      []*Liquidate            `json:"liquidates,omitempty"`
}

// DisplayName returns the market name, falling back to its id.
func (m *Market) DisplayName() string {
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	return m.ID
}

type MarketDailySnapshot struct {
	ID                         string           `json:"id"`
	Protocol                   *LendingProtocol `json:"protocol"`
	Market                     *Market          `json:"market"`
	TotalValueLockedUSD        BigDecimal       `json:"totalValueLockedUSD"`
	TotalVolumeUSD             BigDecimal       `json:"totalVolumeUSD"`
	TotalDepositUSD            BigDecimal       `json:"totalDepositUSD"`
	TotalBorrowUSD             BigDecimal       `json:"totalBorrowUSD"`
	InputTokenBalances         []BigInt         `json:"inputTokenBalances"`
	InputTokenPricesUSD        []BigDecimal     `json:"inputTokenPricesUSD"`
	OutputTokenSupply          BigInt           `json:"outputTokenSupply"`
	OutputTokenPriceUSD        BigDecimal       `json:"outputTokenPriceUSD"`
	RewardTokenEmissionsAmount []BigInt         `json:"rewardTokenEmissionsAmount"`
	RewardTokenEmissionsUSD    []BigDecimal     `json:"rewardTokenEmissionsUSD"`
	DepositRate                BigDecimal       `json:"depositRate"`
	StableBorrowRate           BigDecimal       `json:"stableBorrowRate"`
	VariableBorrowRate         BigDecimal       `json:"variableBorrowRate"`
	BlockNumber                BigInt           `json:"blockNumber"`
	Timestamp                  BigInt           `json:"timestamp"`
}

type MarketHourlySnapshot struct {
	ID                  string           `json:"id"`
	Protocol            *LendingProtocol `json:"protocol"`
	Market              *Market          `json:"market"`
	TotalValueLockedUSD BigDecimal       `json:"totalValueLockedUSD"`
	TotalVolumeUSD      BigDecimal       `json:"totalVolumeUSD"`
	TotalDepositUSD     BigDecimal       `json:"totalDepositUSD"`
	TotalBorrowUSD      BigDecimal       `json:"totalBorrowUSD"`
	InputTokenBalances  []BigInt         `json:"inputTokenBalances"`
	InputTokenPricesUSD []BigDecimal     `json:"inputTokenPricesUSD"`
	OutputTokenSupply   BigInt           `json:"outputTokenSupply"`
	OutputTokenPriceUSD BigDecimal       `json:"outputTokenPriceUSD"`
	DepositRate         BigDecimal       `json:"depositRate"`
	StableBorrowRate    BigDecimal       `json:"stableBorrowRate"`
	VariableBorrowRate  BigDecimal       `json:"variableBorrowRate"`
	BlockNumber         BigInt           `json:"blockNumber"`
	Timestamp           BigInt           `json:"timestamp"`
}

// Event holds the fields shared by every event entity. Typename tells which
// variant the upstream returned.
type Event struct {
	Typename    string           `json:"__typename"`
	ID          string           `json:"id"`
	Hash        string           `json:"hash"`
	LogIndex    int              `json:"logIndex"`
	Protocol    *LendingProtocol `json:"protocol"`
	To          string           `json:"to"`
	From        string           `json:"from"`
	BlockNumber BigInt           `json:"blockNumber"`
	Timestamp   BigInt           `json:"timestamp"`
}

// AssetEvent is the shape of Deposit, Withdraw, Borrow and Repay.
type AssetEvent struct {
	ID          string           `json:"id"`
	Hash        string           `json:"hash"`
	LogIndex    int              `json:"logIndex"`
	Protocol    *LendingProtocol `json:"protocol"`
	To          string           `json:"to"`
	From        string           `json:"from"`
	BlockNumber BigInt           `json:"blockNumber"`
	Timestamp   BigInt           `json:"timestamp"`
	Market      *Market          `json:"market"`
	Asset       *Token           `json:"asset"`
	Amount      BigInt           `json:"amount"`
	AmountUSD   NullBigDecimal   `json:"amountUSD"`
}

type Deposit AssetEvent

type Withdraw AssetEvent

type Borrow AssetEvent

type Repay AssetEvent

type Liquidate struct {
	ID          string           `json:"id"`
	Hash        string           `json:"hash"`
	LogIndex    int              `json:"logIndex"`
	Protocol    *LendingProtocol `json:"protocol"`
	To          string           `json:"to"`
	From        string           `json:"from"`
	BlockNumber BigInt           `json:"blockNumber"`
	Timestamp   BigInt           `json:"timestamp"`
	Market      *Market          `json:"market"`
	Asset       *Token           `json:"asset"`
	Amount      BigInt           `json:"amount"`
	AmountUSD   NullBigDecimal   `json:"amountUSD"`
	ProfitUSD   NullBigDecimal   `json:"profitUSD"`
}

// CircularBuffer is the subgraph's internal block-speed bookkeeping entity.
type CircularBuffer struct {
	ID               string     `json:"id"`
	Blocks           []int      `json:"blocks"`
	WindowStartIndex int        `json:"windowStartIndex"`
	NextIndex        int        `json:"nextIndex"`
	BufferSize       int        `json:"bufferSize"`
	BlocksPerDay     BigDecimal `json:"blocksPerDay"`
}

type Block struct {
	Hash       *Bytes `json:"hash"`
	Number     int    `json:"number"`
	Timestamp  *int   `json:"timestamp"`
	ParentHash *Bytes `json:"parentHash,omitempty"`
}

// Meta is the subgraph's indexing status (_Meta_).
type Meta struct {
	Block             Block  `json:"block"`
	Deployment        string `json:"deployment"`
	HasIndexingErrors bool   `json:"hasIndexingErrors"`
}
