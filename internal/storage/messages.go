package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// MessageRepo provides access to board messages.
type MessageRepo struct {
	db *gorm.DB
}

// MessagePatch carries the mutable message fields for partial updates.
// The author and timestamp are immutable after creation.
type MessagePatch struct {
	Body   *string `json:"message"`
	Secret *bool   `json:"secret"`
}

// Create stores a new message. The id and timestamp are assigned by the store.
func (r *MessageRepo) Create(ctx context.Context, msg *Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("storage: create message: %w", err)
	}
	return nil
}

// FindByID returns the message with the given id, or (nil, nil) when no such
// message exists.
func (r *MessageRepo) FindByID(ctx context.Context, id string) (*Message, error) {
	var msg Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: find message: %w", err)
	}
	return &msg, nil
}

// UpdateByID applies the patch to the message with the given id and returns
// the number of modified rows. A missing id modifies zero rows, not an error.
func (r *MessageRepo) UpdateByID(ctx context.Context, id string, patch MessagePatch) (int64, error) {
	updates := make(map[string]interface{}, 2)
	if patch.Body != nil {
		updates["body"] = *patch.Body
	}
	if patch.Secret != nil {
		updates["secret"] = *patch.Secret
	}
	if len(updates) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&Message{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("storage: update message: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByID removes the message with the given id and returns the number of
// deleted rows. A missing id deletes zero rows, not an error.
func (r *MessageRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Message{})
	if result.Error != nil {
		return 0, fmt.Errorf("storage: delete message: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListByVisibility returns all messages with the given visibility flag,
// newest first.
func (r *MessageRepo) ListByVisibility(ctx context.Context, secret bool) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("secret = ?", secret).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("storage: list messages: %w", err)
	}
	return msgs, nil
}
