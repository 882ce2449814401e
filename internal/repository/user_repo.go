package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// UserFilter narrows account listings.
type UserFilter struct {
	Search    string
	ExcludeID uint
	Role      string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	CreateAccount(ctx context.Context, user *models.User, code *models.IdentifierCode) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, id uint, url string) error
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed account repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateAccount stores the user, the profile matching its role and its identifier code in one transaction.
func (r *userRepository) CreateAccount(ctx context.Context, user *models.User, code *models.IdentifierCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("StudentProfile", "TeacherProfile").Create(user).Error; err != nil {
			return err
		}

		switch user.Role {
		case models.RoleStudent:
			profile := models.StudentProfile{UserID: user.ID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			user.StudentProfile = &profile
		case models.RoleTeacher:
			profile := models.TeacherProfile{UserID: user.ID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			user.TeacherProfile = &profile
		}

		if code != nil {
			code.UserID = user.ID
			if err := tx.Omit("User").Create(code).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByEmailAndRole(ctx context.Context, email, role string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND role = ?", models.NormalizeEmail(email), role).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", models.NormalizeEmail(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).Select("Name", "Email", "UpdatedAt").Updates(user).Error
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uint, url string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("avatar_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if filter.ExcludeID != 0 {
		query = query.Where("id <> ?", filter.ExcludeID)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var users []models.User
	if err := query.Order("name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
