package models

import "time"

// Application is a user's request to join a project.
type Application struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID   uint      `json:"project_id" db:"project_id" gorm:"not null;index"`
	ApplicantID uint      `json:"applicant_id" db:"applicant_id" gorm:"not null;index"`
	Applicant   User      `json:"-" gorm:"foreignKey:ApplicantID;references:ID;constraint:OnDelete:CASCADE"`
	Information string    `json:"information" db:"information" gorm:"type:text"`
	Skills      string    `json:"skills" db:"skills" gorm:"type:text"`
	ContactInfo string    `json:"contact_info" db:"contact_info" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"timestamp" db:"created_at"`
}
