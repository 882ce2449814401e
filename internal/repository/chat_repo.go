package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// ChatRepository persists direct messages.
type ChatRepository interface {
	Save(ctx context.Context, message *models.ChatMessage) error
	ListConversation(ctx context.Context, userID uint, otherID *uint) ([]models.ChatMessage, error)
	ListCounterpartIDs(ctx context.Context, userID uint) ([]uint, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository constructs a chat repository backed by GORM.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Save(ctx context.Context, message *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Omit("Sender", "Receiver").Create(message).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Sender").Preload("Receiver").First(message, message.ID).Error
}

// ListConversation returns messages the user sent or received, oldest first. When otherID is set only the
// exchange with that account is returned.
func (r *chatRepository) ListConversation(ctx context.Context, userID uint, otherID *uint) ([]models.ChatMessage, error) {
	query := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver")
	if otherID != nil {
		query = query.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, *otherID, *otherID, userID,
		)
	} else {
		query = query.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}

	var messages []models.ChatMessage
	if err := query.Order("timestamp ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *chatRepository) ListCounterpartIDs(ctx context.Context, userID uint) ([]uint, error) {
	var pairs []struct {
		SenderID   uint
		ReceiverID uint
	}
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Distinct("sender_id", "receiver_id").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(pairs))
	for _, pair := range pairs {
		for _, id := range []uint{pair.SenderID, pair.ReceiverID} {
			if id == userID {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
