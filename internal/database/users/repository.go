// Package users provides database operations for destination author accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.FindByUsername("bob")
package users

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mrivero/blogsync/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByIDAndUsername retrieves the user whose destination id and
// username both match. Returns (nil, nil) when no such user exists.
// Source ids and destination ids only coincide after a clean full
// import, so callers fall back to FindByUsername on a miss.
func (r *Repository) FindByIDAndUsername(id uint, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("id = ? AND username = ?", id, username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves a user by username alone.
// Returns (nil, nil) when no such user exists.
func (r *Repository) FindByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user account. Imported accounts get a bcrypt
// hash of a random secret so they cannot be logged into until a
// password reset.
func (r *Repository) Create(username, firstName, lastName string, isStaff, isActive, isSuperuser bool) (*entities.User, error) {
	hash, err := unusablePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	user := &entities.User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		IsStaff:      isStaff,
		IsActive:     isActive,
		IsSuperuser:  isSuperuser,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func unusablePassword() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)[:64]), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
