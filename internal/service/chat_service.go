package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/repository"
)

const chatRedisTTL = 30 * time.Minute

// ChatService manages direct messages between accounts.
type ChatService interface {
	List(ctx context.Context, actor Actor, query dto.ChatListQuery) ([]dto.ChatMessageResponse, error)
	Send(ctx context.Context, actor Actor, payload dto.ChatSendRequest) (dto.ChatMessageResponse, error)
	Contacts(ctx context.Context, actor Actor) ([]dto.ChatContactResponse, error)
}

type chatService struct {
	messages   repository.ChatRepository
	users      repository.UserRepository
	redis      *redis.Client
	redisCache string
	events     EventPublisher
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewChatService constructs the messaging service. Redis is optional and only backs the last-message cache.
func NewChatService(messages repository.ChatRepository, users repository.UserRepository, redisClient *redis.Client, cachePrefix string, events EventPublisher, validate *validator.Validate, logger zerolog.Logger) ChatService {
	cachePrefix = strings.TrimSpace(cachePrefix)
	if cachePrefix == "" {
		cachePrefix = "classroom"
	}

	return &chatService{
		messages:   messages,
		users:      users,
		redis:      redisClient,
		redisCache: cachePrefix + ":chat:last",
		events:     events,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "chat_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/classroom-api/internal/service/chat"),
	}
}

func (s *chatService) List(ctx context.Context, actor Actor, query dto.ChatListQuery) ([]dto.ChatMessageResponse, error) {
	messages, err := s.messages.ListConversation(ctx, actor.ID, query.UserID)
	if err != nil {
		return nil, err
	}
	return dto.NewChatMessageResponseSlice(messages), nil
}

func (s *chatService) Send(ctx context.Context, actor Actor, payload dto.ChatSendRequest) (dto.ChatMessageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "chat.send", trace.WithAttributes(
		attribute.Int64("chat.sender", int64(actor.ID)),
		attribute.Int64("chat.receiver", int64(payload.Receiver)),
	))
	defer span.End()

	payload.Content = s.plainText(payload.Content)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChatMessageResponse{}, err
	}
	if payload.Receiver == actor.ID {
		return dto.ChatMessageResponse{}, NewValidationError("receiver", "cannot send a message to yourself")
	}

	if _, err := s.users.GetByID(ctx, payload.Receiver); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChatMessageResponse{}, ErrAccountNotFound
		}
		return dto.ChatMessageResponse{}, err
	}

	message := models.ChatMessage{
		SenderID:   actor.ID,
		ReceiverID: payload.Receiver,
		Content:    payload.Content,
	}
	if err := s.messages.Save(ctx, &message); err != nil {
		span.RecordError(err)
		return dto.ChatMessageResponse{}, err
	}

	response := dto.NewChatMessageResponse(message)
	observability.ChatMessagesSent().Inc()
	s.cacheLastMessage(ctx, response)

	if s.events != nil {
		if err := s.events.Publish(ctx, TopicChatMessageCreated, response); err != nil {
			s.logger.Warn().Err(err).Uint("message_id", message.ID).Msg("failed to publish chat event")
		}
	}

	return response, nil
}

// Contacts lists every account the actor has exchanged messages with, each with the latest message.
func (s *chatService) Contacts(ctx context.Context, actor Actor) ([]dto.ChatContactResponse, error) {
	ids, err := s.messages.ListCounterpartIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.ChatContactResponse{}, nil
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	self, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	contacts := make([]dto.ChatContactResponse, 0, len(users))
	for _, user := range users {
		last, err := s.lastMessage(ctx, self, user)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, dto.ChatContactResponse{
			User:        dto.NewUserSummary(user),
			LastMessage: last,
		})
	}
	return contacts, nil
}

// plainText strips markup and keeps the remaining text as typed.
func (s *chatService) plainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(content)))
}

// cachedMessage holds only message fields; names are resolved on read.
type cachedMessage struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *chatService) lastMessage(ctx context.Context, self, other models.User) (*dto.ChatMessageResponse, error) {
	if cached := s.fetchLastMessage(ctx, self.ID, other.ID); cached != nil {
		summaries := map[uint]dto.UserSummary{
			self.ID:  dto.NewUserSummary(self),
			other.ID: dto.NewUserSummary(other),
		}
		return &dto.ChatMessageResponse{
			ID:        cached.ID,
			Sender:    summaries[cached.SenderID],
			Receiver:  summaries[cached.ReceiverID],
			Content:   cached.Content,
			Timestamp: cached.Timestamp,
		}, nil
	}

	messages, err := s.messages.ListConversation(ctx, self.ID, &other.ID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}

	last := dto.NewChatMessageResponse(messages[len(messages)-1])
	s.cacheLastMessage(ctx, last)
	return &last, nil
}

func (s *chatService) cacheKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%d:%d", s.redisCache, a, b)
}

func (s *chatService) cacheLastMessage(ctx context.Context, message dto.ChatMessageResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(cachedMessage{
		ID:         message.ID,
		SenderID:   message.Sender.ID,
		ReceiverID: message.Receiver.ID,
		Content:    message.Content,
		Timestamp:  message.Timestamp,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal chat message for cache")
		return
	}

	key := s.cacheKey(message.Sender.ID, message.Receiver.ID)
	if err := s.redis.Set(ctx, key, payload, chatRedisTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache chat message")
	}
}

func (s *chatService) fetchLastMessage(ctx context.Context, a, b uint) *cachedMessage {
	if s.redis == nil {
		return nil
	}

	result, err := s.redis.Get(ctx, s.cacheKey(a, b)).Result()
	if err != nil {
		return nil
	}

	var message cachedMessage
	if err := json.Unmarshal([]byte(result), &message); err != nil {
		s.logger.Warn().Err(err).Msg("failed to unmarshal cached chat message")
		return nil
	}
	return &message
}
