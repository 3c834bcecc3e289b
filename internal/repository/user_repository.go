package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askdata/internal/model"
)

// UserRepository relies on the unique username index and on the connection
// being opened with TranslateError so duplicates surface as ErrDuplicatedKey.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	err := r.db.Create(user).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("create user %q failed: %w", user.Username, ErrUsernameTaken)
	default:
		return fmt.Errorf("create user failed: %w", err)
	}
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	return r.first("username = ?", username)
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	return r.first("id = ?", id)
}

func (r *UserRepository) first(query string, arg any) (*model.User, error) {
	var user model.User
	err := r.db.Where(query, arg).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user failed: %w", err)
	}
	return &user, nil
}
