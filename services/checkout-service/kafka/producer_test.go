package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublishOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "orders.placed", log: zap.NewNop()}

	evt := models.OrderPlacedEvent{Event: "order_placed", OrderID: "o-9", UserID: "u-1", ItemCount: 2, Total: 630, Timestamp: time.Unix(0, 0).UTC()}
	require.NoError(t, p.PublishOrderPlaced(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("o-9"), w.msgs[0].Key)
	assert.Equal(t, "event", w.msgs[0].Headers[0].Key)

	var got models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, evt, got)
}

func TestPublishOrderPlaced_WriterError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}, topic: "t", log: zap.NewNop()}
	err := p.PublishOrderPlaced(context.Background(), models.OrderPlacedEvent{OrderID: "o"})
	assert.EqualError(t, err, "broker down")
}
