package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

const topic = "order-placed"

// OrderPublisher announces accepted orders on Kafka so downstream
// consumers (fulfilment, notifications) can react without polling the
// orders table.
type OrderPublisher struct {
	writer *kafka.Writer
}

func NewOrderPublisher(brokers ...string) *OrderPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OrderPublisher{writer: w}
}

func (p *OrderPublisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID), // order id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("OrderPlaced")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}
