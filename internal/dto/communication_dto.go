package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// ChatSendRequest is the payload for sending a direct message.
type ChatSendRequest struct {
	Receiver uint   `json:"receiver" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,min=1,max=4000"`
}

// ChatListQuery narrows the conversation listing to one counterpart.
type ChatListQuery struct {
	UserID *uint
}

// ChatMessageResponse is the serialized representation of a chat message.
type ChatMessageResponse struct {
	ID        uint        `json:"id"`
	Sender    UserSummary `json:"sender"`
	Receiver  UserSummary `json:"receiver"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewChatMessageResponse converts a model into a DTO. Sender and receiver should be preloaded.
func NewChatMessageResponse(message models.ChatMessage) ChatMessageResponse {
	sender := UserSummary{ID: message.SenderID}
	if message.Sender != nil {
		sender = NewUserSummary(*message.Sender)
	}
	receiver := UserSummary{ID: message.ReceiverID}
	if message.Receiver != nil {
		receiver = NewUserSummary(*message.Receiver)
	}

	return ChatMessageResponse{
		ID:        message.ID,
		Sender:    sender,
		Receiver:  receiver,
		Content:   message.Content,
		Timestamp: message.Timestamp,
	}
}

// NewChatMessageResponseSlice converts a slice of models into DTOs.
func NewChatMessageResponseSlice(messages []models.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewChatMessageResponse(message))
	}
	return out
}

// ChatContactResponse is a counterpart of the caller with the last exchanged message when cached.
type ChatContactResponse struct {
	User        UserSummary          `json:"user"`
	LastMessage *ChatMessageResponse `json:"last_message,omitempty"`
}
