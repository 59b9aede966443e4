// Package events публикует события каталога товаров.
//
// События уходят в Kafka (topic из конфига, по умолчанию product_events).
// Ключ сообщения — id товара, значение — JSON ProductEvent. Если Kafka
// выключена, используется NopPublisher.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
)

// Типы событий
const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
)

// ProductEvent — сообщение об изменении товара.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Size       string    `json:"size"`
	Image      string    `json:"image"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProductEvent собирает событие из серверной модели.
func NewProductEvent(typ string, p models.Product) ProductEvent {
	return ProductEvent{
		Type:       typ,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Size:       p.Size,
		Image:      p.Image,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher отправляет события. Реализации безопасны для конкурентного использования.
type Publisher interface {
	Publish(ctx context.Context, ev ProductEvent) error
}

// NopPublisher ничего не отправляет.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ProductEvent) error { return nil }

// messageWriter — то, что KafkaPublisher использует от kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет события в один topic через kafka-go.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

// NewKafkaPublisher создаёт writer для brokers/topic.
// Соединение открывается лениво при первой записи.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

// Publish сериализует событие и отправляет его синхронно.
// События одного товара попадают в одну партицию (ключ — id товара).
func (p *KafkaPublisher) Publish(ctx context.Context, ev ProductEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.ProductID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", p.topic, err)
	}
	return nil
}

// Close дожидается отправки буфера и закрывает соединения.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
