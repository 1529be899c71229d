package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka produces one message per liquidation, keyed by market id so the
// liquidations of a market stay ordered within a partition.
type Kafka struct {
	writer messageWriter
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka sink requires at least one broker")
	}
	if topic == "" {
		return nil, errors.New("kafka sink requires a topic")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &Kafka{writer: writer}, nil
}

func (k *Kafka) Publish(ctx context.Context, l *models.Liquidate) error {
	data, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(err, "failed to encode liquidation")
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(marketID(l)),
		Value: data,
		Time:  time.Unix(l.Timestamp.Int64(), 0),
	})
	return errors.Wrapf(err, "failed to produce liquidation %s", l.ID)
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
