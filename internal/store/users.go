package store

import (
	"errors"
	"strings"

	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

// Users is the identity store: user records keyed by ID, username or email.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user. Duplicate username or email surfaces as
// gorm.ErrDuplicatedKey for the caller to map.
func (u *Users) Create(user *models.User) error {
	return u.db.Create(user).Error
}

// GetByID fetches a user by primary key.
func (u *Users) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByLogin fetches a user by username or email.
func (u *Users) GetByLogin(login string) (*models.User, error) {
	var user models.User
	if err := u.db.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs fetches all users whose ID appears in ids.
func (u *Users) GetByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := u.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Search returns users whose username or email contains the query,
// case-insensitive, paginated. An empty query matches everyone.
func (u *Users) Search(query string, page, limit int) ([]models.User, int64, error) {
	q := u.db.Model(&models.User{})
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var totalItems int64
	if err := q.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (page - 1) * limit
	if err := q.Limit(limit).Offset(offset).Order("id").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, totalItems, nil
}
