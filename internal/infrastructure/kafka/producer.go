package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// ChangeSignal is the store-updated event relayed between clients. It carries
// no domain data; only the origin travels with it so a client can ignore its
// own echo, and everyone else does a full re-fetch.
type ChangeSignal struct {
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// PublishChange broadcasts a change signal tagged with the given origin.
func (p *Producer) PublishChange(ctx context.Context, origin string) error {
	data, err := json.Marshal(ChangeSignal{Origin: origin, At: time.Now()})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(origin),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
