package models

import "time"

// Demo is an audio sample uploaded by a user.
type Demo struct {
	ID         uint      `json:"id" db:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" db:"user_id" gorm:"not null;index"`
	StorageKey string    `json:"key" db:"storage_key" gorm:"type:varchar(512);not null"`
	Title      string    `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	MimeType   string    `json:"mime" db:"mime_type" gorm:"type:varchar(100);not null"`
	IsPublic   bool      `json:"is_public" db:"is_public" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
