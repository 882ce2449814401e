package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/middleware"
)

// Domain event topics.
const (
	TopicChatMessageCreated = "chat.message.created"
	TopicTaskCompleted      = "gamification.task.completed"
	TopicStreakReset        = "gamification.streak.reset"
)

// EventPublisher fans domain events out to other consumers.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Event is the envelope written to every transport.
type Event struct {
	Source        string          `json:"source"`
	Topic         string          `json:"topic"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	SentAt        time.Time       `json:"sent_at"`
}

type eventBus struct {
	redis       *redis.Client
	redisPrefix string
	nats        *nats.Conn
	natsPrefix  string
	nodeID      string
	logger      zerolog.Logger
}

// NewEventBus publishes on Redis pub/sub and NATS. Either transport may be nil; with both nil events are dropped.
func NewEventBus(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) EventPublisher {
	channelBase = strings.TrimSpace(channelBase)
	if channelBase == "" {
		channelBase = "classroom"
	}

	return &eventBus{
		redis:       redisClient,
		redisPrefix: channelBase + ":events:",
		nats:        natsConn,
		natsPrefix:  strings.ReplaceAll(channelBase, ":", ".") + ".events.",
		nodeID:      uuid.NewString(),
		logger:      logger.With().Str("component", "event_bus").Logger(),
	}
}

// RedisChannel returns the pub/sub channel a topic is published on.
func (b *eventBus) RedisChannel(topic string) string {
	return b.redisPrefix + topic
}

func (b *eventBus) Publish(ctx context.Context, topic string, payload interface{}) error {
	if b.redis == nil && b.nats == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event, err := json.Marshal(Event{
		Source:        b.nodeID,
		Topic:         topic,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		Payload:       body,
		SentAt:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	var errs []error
	if b.redis != nil {
		if err := b.redis.Publish(ctx, b.RedisChannel(topic), event).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.nats != nil {
		if err := b.nats.Publish(b.natsPrefix+topic, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	b.logger.Debug().Str("topic", topic).Msg("event published")
	return nil
}
