//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/bite-score-service/internal/adapter/kafka"
	"github.com/couchcryptid/bite-score-service/internal/config"
	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/observability"
	"github.com/couchcryptid/bite-score-service/internal/ranking"
)

const testSinkTopic = "test-spot-rankings"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("bite-score-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishRanking verifies that a ranking response published through the
// adapter arrives on the sink topic with the expected key, headers, and body.
func TestPublishRanking(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, observability.NewMetricsForTesting(), discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	generated := time.Date(2026, 3, 15, 6, 30, 0, 0, time.UTC)
	resp := &ranking.Response{
		Timestamp:  generated,
		Species:    "walleye",
		TotalSpots: 3,
		Returned:   1,
		Spots: []ranking.SpotResult{
			{
				ID:        "101",
				Name:      "Rocky Shoal",
				Latitude:  45.1,
				Longitude: -79.4,
				BiteScore: 95,
				Status:    domain.StatusGreat,
				Reasoning: "Prime walleye habitat; Prime feeding time",
				Weather:   domain.WeatherReading{Temperature: 15, Pressure: 1005, WindSpeed: 5},
			},
		},
	}
	require.NoError(t, publisher.PublishRanking(ctx, resp))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	assert.Equal(t, []byte("walleye"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "walleye", headers["species"])
	assert.Equal(t, generated.Format(time.RFC3339), headers["generated_at"])

	var got ranking.Response
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "walleye", got.Species)
	assert.Equal(t, 3, got.TotalSpots)
	require.Len(t, got.Spots, 1)
	assert.Equal(t, "Rocky Shoal", got.Spots[0].Name)
	assert.Equal(t, 95, got.Spots[0].BiteScore)
	assert.Equal(t, domain.StatusGreat, got.Spots[0].Status)
}
