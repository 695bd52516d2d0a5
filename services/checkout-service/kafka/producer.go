package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes checkout events keyed by order id.
type Producer struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	log.Info("kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: writer, topic: topic, log: log}
}

// PublishOrderPlaced sends evt to the order topic.
func (p *Producer) PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order_placed: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(evt.Event)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish order_placed",
			zap.String("order_id", evt.OrderID),
			zap.String("topic", p.topic),
			zap.Error(err),
		)
		return err
	}
	p.log.Info("order_placed published", zap.String("order_id", evt.OrderID), zap.Float64("total", evt.Total))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
