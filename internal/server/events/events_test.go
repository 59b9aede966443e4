package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w, topic: "product_events"}

	id := uuid.New()
	ev := NewProductEvent(ProductCreated, models.Product{
		ID: id, Name: "Shirt", Price: 19.99, Size: "M", Image: "uploads/a.png",
	})

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, id.String(), string(msg.Key))
	require.Equal(t, "type", msg.Headers[0].Key)
	require.Equal(t, ProductCreated, string(msg.Headers[0].Value))

	var got ProductEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, id, got.ProductID)
	require.Equal(t, "Shirt", got.Name)
	require.Equal(t, 19.99, got.Price)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}, topic: "product_events"}

	err := p.Publish(context.Background(), ProductEvent{Type: ProductDeleted})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "product_events")
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "product_events")

	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	require.Equal(t, "product_events", w.Topic)
	require.Equal(t, "localhost:9092", w.Addr.String())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), ProductEvent{}))
}
