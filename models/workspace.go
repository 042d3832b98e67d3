package models

import "time"

type Task struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" db:"project_id" gorm:"not null;index"`
	Title     string    `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	IsDone    bool      `json:"is_done" db:"is_done" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ProjectLink struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" db:"project_id" gorm:"not null;index"`
	Label     string    `json:"label" db:"label" gorm:"type:varchar(200);not null"`
	URL       string    `json:"url" db:"url" gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ChatMessage struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" db:"project_id" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" db:"author_id" gorm:"not null"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Body      string    `json:"body" db:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}

// ProjectNote is free text kept by one author inside a project.
// The workspace edits the single note whose Title is nil.
type ProjectNote struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" db:"project_id" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" db:"author_id" gorm:"not null;index"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Title     *string   `json:"title" db:"title" gorm:"type:varchar(200)"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Progress summarises task completion for a project.
type Progress struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// ComputeProgress returns floor(100*done/total), or zero when there are no tasks.
func ComputeProgress(tasks []Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsDone {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = 100 * p.Done / p.Total
	}
	return p
}
