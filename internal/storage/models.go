package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. The username is the identity claimed by
// session tokens; only the password hash is stored.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// BeforeCreate generates a UUID if not already set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Message is a board entry. The author is the owning identity and never
// changes after creation. Secret controls the visibility gate on reads.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Body      string    `gorm:"column:body" json:"message"`
	Author    string    `gorm:"column:author;index" json:"user"`
	Secret    bool      `gorm:"index" json:"secret"`
	CreatedAt time.Time `json:"date"`
}

// BeforeCreate generates a UUID if not already set.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
