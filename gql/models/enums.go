package models

import (
	"fmt"
	"io"
	"strconv"
)

type Network string

const (
	NetworkArbitrum  Network = "ARBITRUM"
	NetworkAvalanche Network = "AVALANCHE"
	NetworkAurora    Network = "AURORA"
	NetworkBsc       Network = "BSC"
	NetworkCelo      Network = "CELO"
	NetworkCronos    Network = "CRONOS"
	NetworkEthereum  Network = "ETHEREUM"
	NetworkFantom    Network = "FANTOM"
	NetworkFuse      Network = "FUSE"
	NetworkHarmony   Network = "HARMONY"
	NetworkMoonbeam  Network = "MOONBEAM"
	NetworkMoonriver Network = "MOONRIVER"
	NetworkOptimism  Network = "OPTIMISM"
	NetworkPolygon   Network = "POLYGON"
	NetworkXdai      Network = "XDAI"
)

var AllNetwork = []Network{
	NetworkArbitrum,
	NetworkAvalanche,
	NetworkAurora,
	NetworkBsc,
	NetworkCelo,
	NetworkCronos,
	NetworkEthereum,
	NetworkFantom,
	NetworkFuse,
	NetworkHarmony,
	NetworkMoonbeam,
	NetworkMoonriver,
	NetworkOptimism,
	NetworkPolygon,
	NetworkXdai,
}

func (e Network) IsValid() bool {
	switch e {
	case NetworkArbitrum, NetworkAvalanche, NetworkAurora, NetworkBsc, NetworkCelo, NetworkCronos, NetworkEthereum, NetworkFantom, NetworkFuse, NetworkHarmony, NetworkMoonbeam, NetworkMoonriver, NetworkOptimism, NetworkPolygon, NetworkXdai:
		return true
	}
	return false
}

func (e Network) String() string {
	return string(e)
}

func (e *Network) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = Network(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid Network", str)
	}
	return nil
}

func (e Network) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type ProtocolType string

const (
	ProtocolTypeExchange ProtocolType = "EXCHANGE"
	ProtocolTypeLending  ProtocolType = "LENDING"
	ProtocolTypeYield    ProtocolType = "YIELD"
	ProtocolTypeBridge   ProtocolType = "BRIDGE"
	ProtocolTypeGeneric  ProtocolType = "GENERIC"
)

var AllProtocolType = []ProtocolType{
	ProtocolTypeExchange,
	ProtocolTypeLending,
	ProtocolTypeYield,
	ProtocolTypeBridge,
	ProtocolTypeGeneric,
}

func (e ProtocolType) IsValid() bool {
	switch e {
	case ProtocolTypeExchange, ProtocolTypeLending, ProtocolTypeYield, ProtocolTypeBridge, ProtocolTypeGeneric:
		return true
	}
	return false
}

func (e ProtocolType) String() string {
	return string(e)
}

func (e *ProtocolType) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = ProtocolType(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid ProtocolType", str)
	}
	return nil
}

func (e ProtocolType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type LendingType string

const (
	LendingTypeCdp    LendingType = "CDP"
	LendingTypePooled LendingType = "POOLED"
)

var AllLendingType = []LendingType{
	LendingTypeCdp,
	LendingTypePooled,
}

func (e LendingType) IsValid() bool {
	switch e {
	case LendingTypeCdp, LendingTypePooled:
		return true
	}
	return false
}

func (e LendingType) String() string {
	return string(e)
}

func (e *LendingType) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = LendingType(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid LendingType", str)
	}
	return nil
}

func (e LendingType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type RiskType string

const (
	RiskTypeGlobal   RiskType = "GLOBAL"
	RiskTypeIsolated RiskType = "ISOLATED"
)

var AllRiskType = []RiskType{
	RiskTypeGlobal,
	RiskTypeIsolated,
}

func (e RiskType) IsValid() bool {
	switch e {
	case RiskTypeGlobal, RiskTypeIsolated:
		return true
	}
	return false
}

func (e RiskType) String() string {
	return string(e)
}

func (e *RiskType) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = RiskType(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid RiskType", str)
	}
	return nil
}

func (e RiskType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type RewardTokenType string

const (
	RewardTokenTypeDeposit RewardTokenType = "DEPOSIT"
	RewardTokenTypeBorrow  RewardTokenType = "BORROW"
)

var AllRewardTokenType = []RewardTokenType{
	RewardTokenTypeDeposit,
	RewardTokenTypeBorrow,
}

func (e RewardTokenType) IsValid() bool {
	switch e {
	case RewardTokenTypeDeposit, RewardTokenTypeBorrow:
		return true
	}
	return false
}

func (e RewardTokenType) String() string {
	return string(e)
}

func (e *RewardTokenType) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = RewardTokenType(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid RewardTokenType", str)
	}
	return nil
}

func (e RewardTokenType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type OrderDirection string

const (
	OrderDirectionAsc  OrderDirection = "asc"
	OrderDirectionDesc OrderDirection = "desc"
)

var AllOrderDirection = []OrderDirection{
	OrderDirectionAsc,
	OrderDirectionDesc,
}

func (e OrderDirection) IsValid() bool {
	switch e {
	case OrderDirectionAsc, OrderDirectionDesc:
		return true
	}
	return false
}

func (e OrderDirection) String() string {
	return string(e)
}

func (e *OrderDirection) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = OrderDirection(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid OrderDirection", str)
	}
	return nil
}

func (e OrderDirection) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}

type SubgraphErrorPolicy string

const (
	SubgraphErrorPolicyAllow SubgraphErrorPolicy = "allow"
	SubgraphErrorPolicyDeny  SubgraphErrorPolicy = "deny"
)

var AllSubgraphErrorPolicy = []SubgraphErrorPolicy{
	SubgraphErrorPolicyAllow,
	SubgraphErrorPolicyDeny,
}

func (e SubgraphErrorPolicy) IsValid() bool {
	switch e {
	case SubgraphErrorPolicyAllow, SubgraphErrorPolicyDeny:
		return true
	}
	return false
}

func (e SubgraphErrorPolicy) String() string {
	return string(e)
}

func (e *SubgraphErrorPolicy) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = SubgraphErrorPolicy(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid _SubgraphErrorPolicy_", str)
	}
	return nil
}

func (e SubgraphErrorPolicy) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}
