// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is the storage identifier. It is never exposed over HTTP.
	ID uint `gorm:"primaryKey" json:"id"`

	// Username identifies the user and must be unique across all users.
	// It is immutable after creation. The 255 character limit is checked at the
	// HTTP boundary because sqlite does not enforce varchar sizes.
	Username string `gorm:"uniqueIndex;size:255;not null" json:"username"`

	// PasswordHash is the hex digest of the password.
	// Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:64;not null" json:"password_hash"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name regardless of naming strategy.
func (User) TableName() string {
	return "users"
}
