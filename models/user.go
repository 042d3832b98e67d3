package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered member. Media fields hold storage keys, never URLs.
type User struct {
	ID           uint        `json:"id" db:"id" gorm:"primaryKey"`
	Username     string      `json:"username" db:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string      `json:"email" db:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string      `json:"-" db:"password_hash" gorm:"type:varchar(255);not null"`
	ContactInfo  string      `json:"contact_info" db:"contact_info" gorm:"type:varchar(255)"`
	AvatarKey    *string     `json:"-" db:"avatar_key" gorm:"type:varchar(512)"`
	Bio          *string     `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	Skills       []UserSkill `json:"skills,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Demos        []Demo      `json:"demos,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// SetPassword replaces the stored hash with a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
