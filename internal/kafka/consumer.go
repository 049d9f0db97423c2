package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Domenick1991/cargobooking/config"
	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded shipment event.
type EventHandler func(ctx context.Context, event ShipmentEvent) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg config.KafkaConfig, topic string) *Consumer {
	heartbeat := time.Duration(cfg.HeartbeatIntervalSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = 3 * time.Second
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session <= 0 {
		session = 30 * time.Second
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             topic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes shipment events and feeds them to the handler until the
// context is canceled or the reader fails. A malformed message or a handler
// error is logged and skipped; one bad notification must not stall the rest.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		dispatch(ctx, msg, handler)
	}
}

func dispatch(ctx context.Context, msg kafka.Message, handler EventHandler) {
	var event ShipmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("skip malformed shipment event at offset %d: %v", msg.Offset, err)
		return
	}
	if err := handler(ctx, event); err != nil {
		log.Printf("handle shipment event for booking %s: %v", event.RefID, err)
	}
}
