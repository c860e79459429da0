package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// UserRepo provides access to registered accounts.
type UserRepo struct {
	db *gorm.DB
}

// Exists reports whether an account with the given username is registered.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("storage: user exists: %w", err)
	}
	return count > 0, nil
}

// Create registers a new account with an already-hashed password.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	user := &User{Username: username, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("storage: create user: %w", err)
	}
	return user, nil
}

// FindByUsername returns the account for a username, or (nil, nil) when no
// such account exists.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: find user: %w", err)
	}
	return &user, nil
}
