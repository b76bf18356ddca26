package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/movie-catalog/pkg/logger"
)

// Publisher wraps a Kafka sync producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishFavouriteAdded publishes an insertion notification for a freshly
// committed favourite edge. Messages are keyed by movie id, so ordering is
// best-effort per partition only; consumers must not rely on it.
func (p *Publisher) PublishFavouriteAdded(ctx context.Context, event FavouriteAddedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.favourite_added",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicFavouriteAdded),
			attribute.String("event.type", EventTypeFavouriteAdded),
			attribute.String("favourite.username", event.Username),
			attribute.Int64("favourite.movie_id", int64(event.MovieID)),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeFavouriteAdded
	event.Timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", event.EventID))

	key := fmt.Sprintf("movie_%d", event.MovieID)
	partition, offset, err := p.publish(ctx, span, TopicFavouriteAdded, EventTypeFavouriteAdded, event.EventID, key, event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicFavouriteAdded).
			Str("username", event.Username).
			Uint("movie_id", event.MovieID).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish favourite added event")
		return err
	}

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("username", event.Username).
		Uint("movie_id", event.MovieID).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Favourite added event published")

	return nil
}

// PublishUserRegistered publishes a registration notification consumed by
// the email confirmation worker
func (p *Publisher) PublishUserRegistered(ctx context.Context, event UserRegisteredEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.user_registered",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicUserRegistered),
			attribute.String("event.type", EventTypeUserRegistered),
			attribute.Int64("user.id", int64(event.UserID)),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeUserRegistered
	event.Timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", event.EventID))

	key := fmt.Sprintf("user_%d", event.UserID)
	_, _, err := p.publish(ctx, span, TopicUserRegistered, EventTypeUserRegistered, event.EventID, key, event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicUserRegistered).
			Uint("user_id", event.UserID).
			Msg("Failed to publish user registered event")
		return err
	}

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Uint("user_id", event.UserID).
		Str("username", event.Username).
		Msg("User registered event published")

	return nil
}

func (p *Publisher) publish(ctx context.Context, span trace.Span, topic, eventType, eventID, key string, event interface{}) (int32, int64, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return 0, 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		return 0, 0, fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	return partition, offset, nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
