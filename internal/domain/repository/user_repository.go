package repository

import "github.com/hamrorooms/rooms-api/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	UpdatePassword(id, passwordHash string) error
	ListAll() ([]*entity.User, error)
	Count() (int64, error)
}
