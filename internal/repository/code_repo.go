package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/classroom-api/internal/models"
)

// IdentifierCodeRepository stores the scannable code of each account.
type IdentifierCodeRepository interface {
	GetByUser(ctx context.Context, userID uint) (models.IdentifierCode, error)
	Upsert(ctx context.Context, code *models.IdentifierCode) error
}

type identifierCodeRepository struct {
	db *gorm.DB
}

// NewIdentifierCodeRepository constructs the repository.
func NewIdentifierCodeRepository(db *gorm.DB) IdentifierCodeRepository {
	return &identifierCodeRepository{db: db}
}

func (r *identifierCodeRepository) GetByUser(ctx context.Context, userID uint) (models.IdentifierCode, error) {
	var code models.IdentifierCode
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&code).Error; err != nil {
		return models.IdentifierCode{}, err
	}
	return code, nil
}

// Upsert inserts the code or, when the owner already has one, replaces its payload and image.
func (r *identifierCodeRepository) Upsert(ctx context.Context, code *models.IdentifierCode) error {
	err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "image", "updated_at"}),
		}).
		Create(code).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByUser(ctx, code.UserID)
	if err != nil {
		return err
	}
	*code = stored
	return nil
}
