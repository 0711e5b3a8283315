package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes rendered markers to a Kafka topic, one message per marker.
// It implements pipeline.Renderer.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaMarkerTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Render publishes every marker in the scene in a single WriteMessages call.
// Messages are keyed by marker ID so repeated renders of the same event land
// on the same partition.
func (w *Writer) Render(ctx context.Context, scene domain.Scene) error {
	if len(scene.Markers) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(scene.Markers))
	for i := range scene.Markers {
		msg, err := serializeToMessage(scene.Markers[i], scene.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish markers: %w", err)
	}
	w.logger.Debug("markers published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Marker into a Kafka message.
func serializeToMessage(m domain.Marker, renderedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(m.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("earthquake")},
			{Key: "depth_color", Value: []byte(m.FillColor)},
			{Key: "rendered_at", Value: []byte(renderedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
