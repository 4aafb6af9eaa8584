// Package kafka publishes ranking responses to a sink topic for downstream
// consumers. Publishing is feature-flagged and never blocks the API response.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/bite-score-service/internal/config"
	"github.com/couchcryptid/bite-score-service/internal/observability"
	"github.com/couchcryptid/bite-score-service/internal/ranking"
)

// Publisher produces ranking responses to a Kafka topic.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// PublishRanking serializes and publishes one ranking response, keyed by
// species so a partition sees a consistent per-species stream.
func (p *Publisher) PublishRanking(ctx context.Context, resp *ranking.Response) error {
	msg, err := serializeToMessage(resp)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish ranking: %w", err)
	}
	p.metrics.RankingsPublished.Inc()
	p.logger.Debug("ranking published",
		"species", resp.Species,
		"returned", resp.Returned,
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ranking response into a Kafka message.
func serializeToMessage(resp *ranking.Response) (kafkago.Message, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize ranking: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(resp.Species),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "species", Value: []byte(resp.Species)},
			{Key: "generated_at", Value: []byte(resp.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
