package database

import (
	"context"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

// WorkspaceRepo stores the collaboration rows that hang off a project.
// Every lookup is scoped by project id.
type WorkspaceRepo struct {
	db *gorm.DB
}

func NewWorkspaceRepo(db *gorm.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db}
}

func (r *WorkspaceRepo) FindTasks(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *WorkspaceRepo) FindTask(ctx context.Context, projectID, taskID uint) (*models.Task, error) {
	return first[models.Task](r.db.WithContext(ctx).Where("id = ? AND project_id = ?", taskID, projectID))
}

func (r *WorkspaceRepo) AddTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *WorkspaceRepo) SetTaskDone(ctx context.Context, task *models.Task, done bool) error {
	if err := r.db.WithContext(ctx).Model(task).Update("is_done", done).Error; err != nil {
		return err
	}
	task.IsDone = done
	return nil
}

func (r *WorkspaceRepo) DeleteTask(ctx context.Context, projectID, taskID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", taskID, projectID).Delete(&models.Task{})
	return res.RowsAffected > 0, res.Error
}

func (r *WorkspaceRepo) FindLinks(ctx context.Context, projectID uint) ([]models.ProjectLink, error) {
	var links []models.ProjectLink
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").Find(&links).Error
	return links, err
}

func (r *WorkspaceRepo) AddLink(ctx context.Context, link *models.ProjectLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *WorkspaceRepo) DeleteLink(ctx context.Context, projectID, linkID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", linkID, projectID).Delete(&models.ProjectLink{})
	return res.RowsAffected > 0, res.Error
}

// FindMessages returns the chat history oldest first with authors loaded.
func (r *WorkspaceRepo) FindMessages(ctx context.Context, projectID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).Preload("Author").
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *WorkspaceRepo) AddMessage(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindUntitledNote returns the author's untitled note in the project, or nil.
func (r *WorkspaceRepo) FindUntitledNote(ctx context.Context, projectID, authorID uint) (*models.ProjectNote, error) {
	return first[models.ProjectNote](r.db.WithContext(ctx).
		Where("project_id = ? AND author_id = ? AND title IS NULL", projectID, authorID).
		Order("id ASC"))
}

func (r *WorkspaceRepo) SaveNote(ctx context.Context, note *models.ProjectNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}
