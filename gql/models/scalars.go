package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BigDecimal is the subgraph's arbitrary precision decimal scalar.
type BigDecimal = decimal.Decimal

// NullBigDecimal is a nullable BigDecimal.
type NullBigDecimal = decimal.NullDecimal

// Bytes is a 0x-prefixed hex encoded byte string.
type Bytes = hexutil.Bytes

// BigInt is the subgraph's arbitrary precision integer scalar. It is sent and
// received as a decimal string. The zero value is 0.
type BigInt struct {
	v *big.Int
}

func NewBigInt(v int64) BigInt {
	return BigInt{v: big.NewInt(v)}
}

func BigIntFrom(v *big.Int) BigInt {
	if v == nil {
		return BigInt{}
	}
	return BigInt{v: new(big.Int).Set(v)}
}

func ParseBigInt(s string) (BigInt, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigInt{}, errors.Errorf("invalid BigInt %q", s)
	}
	return BigInt{v: v}, nil
}

// Int returns a copy of the value.
func (b BigInt) Int() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.v)
}

func (b BigInt) Int64() int64 {
	if b.v == nil {
		return 0
	}
	return b.v.Int64()
}

func (b BigInt) Cmp(o BigInt) int {
	return b.Int().Cmp(o.Int())
}

// Scaled divides the value by 10^decimals, e.g. to turn a raw token amount into units.
func (b BigInt) Scaled(decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(b.Int(), -decimals)
}

func (b BigInt) String() string {
	if b.v == nil {
		return "0"
	}
	return b.v.String()
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(b.String())), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		b.v = nil
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := ParseBigInt(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b *BigInt) UnmarshalGQL(v interface{}) error {
	switch v := v.(type) {
	case string:
		parsed, err := ParseBigInt(v)
		if err != nil {
			return err
		}
		*b = parsed
		return nil
	case json.Number:
		return b.UnmarshalGQL(v.String())
	case int64:
		*b = NewBigInt(v)
		return nil
	case int:
		*b = NewBigInt(int64(v))
		return nil
	}
	return fmt.Errorf("BigInt must be a string, got %T", v)
}

func (b BigInt) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(b.String()))
}
