package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/movie-catalog/pkg/logger"
)

// FavouriteAddedHandler handles favourite insertion notifications
type FavouriteAddedHandler func(ctx context.Context, event FavouriteAddedEvent) error

// UserRegisteredHandler handles user registration notifications
type UserRegisteredHandler func(ctx context.Context, event UserRegisteredEvent) error

// Consumer wraps a Kafka consumer group. Delivery is at-least-once: an
// event is only marked consumed after its handler returns nil, so a failed
// or timed-out event becomes eligible for redelivery. Handlers must be
// safe under duplicate delivery.
type Consumer struct {
	consumer       sarama.ConsumerGroup
	brokers        []string
	groupID        string
	topics         []string
	handlerTimeout time.Duration

	mu                sync.RWMutex
	favouriteHandler  FavouriteAddedHandler
	registeredHandler UserRegisteredHandler
}

// NewConsumer creates a new Kafka consumer group client
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return &Consumer{
		consumer:       consumer,
		brokers:        brokers,
		groupID:        groupID,
		topics:         topics,
		handlerTimeout: 30 * time.Second,
	}, nil
}

// RegisterFavouriteAddedHandler registers the handler for favourite.added events
func (c *Consumer) RegisterFavouriteAddedHandler(handler FavouriteAddedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.favouriteHandler = handler
	logger.Logger.Info().
		Str("event_type", EventTypeFavouriteAdded).
		Msg("Event handler registered")
}

// RegisterUserRegisteredHandler registers the handler for user.registered events
func (c *Consumer) RegisterUserRegisteredHandler(handler UserRegisteredHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registeredHandler = handler
	logger.Logger.Info().
		Str("event_type", EventTypeUserRegistered).
		Msg("Event handler registered")
}

// Start starts consuming messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
				return
			default:
				if err := c.consumer.Consume(ctx, c.topics, handler); err != nil {
					logger.Logger.Error().
						Err(err).
						Msg("Error from consumer")
				}
			}
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			logger.Logger.Error().
				Err(err).
				Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")

	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c.consumer != nil {
		return c.consumer.Close()
	}
	return nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	// Per-event failure isolation: a failed message is logged and left
	// unmarked, the rest of the claim keeps going.
	for message := range claim.Messages() {
		if err := h.handleMessage(session.Context(), message); err != nil {
			logger.Logger.Error().
				Err(err).
				Str("topic", message.Topic).
				Int32("partition", message.Partition).
				Int64("offset", message.Offset).
				Msg("Event handling failed, message left for redelivery")
			continue
		}
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	// Extract trace context from Kafka headers
	carrier := propagation.MapCarrier{}
	for _, header := range message.Headers {
		key := string(header.Key)
		if key == "traceparent" || key == "tracestate" {
			carrier[key] = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	ctx, cancel := context.WithTimeout(ctx, h.consumer.handlerTimeout)
	defer cancel()

	tracer := otel.Tracer("kafka-consumer")
	ctx, span := tracer.Start(ctx, "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
		),
	)
	defer span.End()

	eventType := ""
	eventID := ""
	for _, header := range message.Headers {
		if string(header.Key) == "event_type" {
			eventType = string(header.Value)
		}
		if string(header.Key) == "event_id" {
			eventID = string(header.Value)
		}
	}

	if eventType == "" {
		// Unparseable message: marking it is the only way forward
		span.SetStatus(codes.Error, "Message without event_type header")
		logger.Logger.Warn().Msg("Message without event_type header, skipping")
		return nil
	}

	span.SetAttributes(
		attribute.String("event.type", eventType),
		attribute.String("event.id", eventID),
	)

	switch eventType {
	case EventTypeFavouriteAdded:
		h.consumer.mu.RLock()
		handler := h.consumer.favouriteHandler
		h.consumer.mu.RUnlock()
		if handler == nil {
			span.SetStatus(codes.Error, "No handler registered")
			logger.Logger.Warn().
				Str("event_type", eventType).
				Msg("No handler registered for event type")
			return nil
		}

		var event FavouriteAddedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to unmarshal event")
			logger.Logger.Error().
				Err(err).
				Str("event_type", eventType).
				Msg("Failed to unmarshal event, skipping")
			return nil
		}

		span.SetAttributes(
			attribute.String("favourite.username", event.Username),
			attribute.Int64("favourite.movie_id", int64(event.MovieID)),
		)

		if err := handler(ctx, event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to handle event")
			return err
		}

	case EventTypeUserRegistered:
		h.consumer.mu.RLock()
		handler := h.consumer.registeredHandler
		h.consumer.mu.RUnlock()
		if handler == nil {
			span.SetStatus(codes.Error, "No handler registered")
			logger.Logger.Warn().
				Str("event_type", eventType).
				Msg("No handler registered for event type")
			return nil
		}

		var event UserRegisteredEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to unmarshal event")
			logger.Logger.Error().
				Err(err).
				Str("event_type", eventType).
				Msg("Failed to unmarshal event, skipping")
			return nil
		}

		if err := handler(ctx, event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to handle event")
			return err
		}

	default:
		span.SetStatus(codes.Error, "Unknown event type")
		logger.Logger.Warn().
			Str("event_type", eventType).
			Msg("Unknown event type, skipping")
		return nil
	}

	span.SetStatus(codes.Ok, "Event handled successfully")
	logger.Logger.Debug().
		Str("event_type", eventType).
		Str("event_id", eventID).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Event handled successfully")

	return nil
}
