package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/models"
)

// Actions accepted by the workspace form.
const (
	ActionAddTask     = "add_task"
	ActionToggleTask  = "toggle_task"
	ActionDeleteTask  = "delete_task"
	ActionAddLink     = "add_link"
	ActionDeleteLink  = "delete_link"
	ActionSendMessage = "send_message"
	ActionSaveNote    = "save_note"
)

// Workspace is the per-project collaboration surface.
type Workspace struct {
	db     database.Database
	logger zerolog.Logger
}

func NewWorkspace(db database.Database) *Workspace {
	return &Workspace{db: db, logger: serviceLogger("workspace")}
}

type MessageView struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

type NoteView struct {
	ID        uint       `json:"id,omitempty"`
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type WorkspaceView struct {
	Project   models.ProjectView   `json:"project"`
	IsCreator bool                 `json:"is_creator"`
	Tasks     []models.Task        `json:"tasks"`
	Links     []models.ProjectLink `json:"links"`
	Messages  []MessageView        `json:"messages"`
	Note      NoteView             `json:"note"`
	Progress  models.Progress      `json:"progress"`
}

func (s *Workspace) project(ctx context.Context, db database.Database, projectID uint) (*models.Project, error) {
	project, err := db.ProjectRepo().FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("Project not found")
	}
	return project, nil
}

// View composes everything the workspace page shows for requesterID.
func (s *Workspace) View(ctx context.Context, projectID, requesterID uint) (WorkspaceView, error) {
	project, err := s.project(ctx, s.db, projectID)
	if err != nil {
		return WorkspaceView{}, err
	}
	repo := s.db.WorkspaceRepo()

	tasks, err := repo.FindTasks(ctx, project.ID)
	if err != nil {
		return WorkspaceView{}, errs.NewDatabaseError("find", "tasks", err)
	}
	links, err := repo.FindLinks(ctx, project.ID)
	if err != nil {
		return WorkspaceView{}, errs.NewDatabaseError("find", "links", err)
	}
	messages, err := repo.FindMessages(ctx, project.ID)
	if err != nil {
		return WorkspaceView{}, errs.NewDatabaseError("find", "messages", err)
	}
	note, err := repo.FindUntitledNote(ctx, project.ID, requesterID)
	if err != nil {
		return WorkspaceView{}, errs.NewDatabaseError("find", "note", err)
	}

	view := WorkspaceView{
		Project:   project.View(),
		IsCreator: project.IsCreator(requesterID),
		Tasks:     tasks,
		Links:     links,
		Messages:  make([]MessageView, 0, len(messages)),
		Progress:  models.ComputeProgress(tasks),
	}
	if view.Tasks == nil {
		view.Tasks = []models.Task{}
	}
	if view.Links == nil {
		view.Links = []models.ProjectLink{}
	}
	for _, m := range messages {
		view.Messages = append(view.Messages, MessageView{
			ID: m.ID, AuthorID: m.AuthorID, Author: m.Author.Username, Body: m.Body, Timestamp: m.CreatedAt,
		})
	}
	if note != nil {
		updated := note.UpdatedAt
		view.Note = NoteView{ID: note.ID, Content: note.Content, UpdatedAt: &updated}
	}
	return view, nil
}

func (s *Workspace) AddTask(ctx context.Context, projectID uint, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.NewMissingRequiredFieldError("title", "Task title is required")
	}
	if runeLen(title) > maxTitleLength {
		return nil, errs.NewInvalidFieldError("title", "Task title must be at most 200 characters")
	}
	if _, err := s.project(ctx, s.db, projectID); err != nil {
		return nil, err
	}
	task := &models.Task{ProjectID: projectID, Title: title}
	if err := s.db.WorkspaceRepo().AddTask(ctx, task); err != nil {
		return nil, errs.NewDatabaseError("create", "task", err)
	}
	return task, nil
}

// ToggleTask flips the completion flag of a task in the project.
func (s *Workspace) ToggleTask(ctx context.Context, projectID, taskID uint) (*models.Task, error) {
	var task *models.Task
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if _, err := s.project(ctx, tx, projectID); err != nil {
			return err
		}
		found, err := tx.WorkspaceRepo().FindTask(ctx, projectID, taskID)
		if err != nil {
			return errs.NewDatabaseError("find", "task", err)
		}
		if found == nil {
			return errs.NewNotFoundError("Task not found")
		}
		if err := tx.WorkspaceRepo().SetTaskDone(ctx, found, !found.IsDone); err != nil {
			return errs.NewDatabaseError("update", "task", err)
		}
		task = found
		return nil
	})
	return task, err
}

func (s *Workspace) DeleteTask(ctx context.Context, projectID, taskID uint) error {
	if _, err := s.project(ctx, s.db, projectID); err != nil {
		return err
	}
	deleted, err := s.db.WorkspaceRepo().DeleteTask(ctx, projectID, taskID)
	if err != nil {
		return errs.NewDatabaseError("delete", "task", err)
	}
	if !deleted {
		return errs.NewNotFoundError("Task not found")
	}
	return nil
}

// AddLink stores an http(s) link. The label defaults to the URL.
func (s *Workspace) AddLink(ctx context.Context, projectID uint, label, rawURL string) (*models.ProjectLink, error) {
	label = strings.TrimSpace(label)
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errs.NewMissingRequiredFieldError("url", "Link URL is required")
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errs.NewInvalidFieldError("url", "Link URL must start with http:// or https://")
	}
	if runeLen(rawURL) > maxURLLength {
		return nil, errs.NewInvalidFieldError("url", "Link URL must be at most 1000 characters")
	}
	if label == "" {
		label = rawURL
	}
	label = truncate(label, maxTitleLength)
	if _, err := s.project(ctx, s.db, projectID); err != nil {
		return nil, err
	}
	link := &models.ProjectLink{ProjectID: projectID, Label: label, URL: rawURL}
	if err := s.db.WorkspaceRepo().AddLink(ctx, link); err != nil {
		return nil, errs.NewDatabaseError("create", "link", err)
	}
	return link, nil
}

func (s *Workspace) DeleteLink(ctx context.Context, projectID, linkID uint) error {
	if _, err := s.project(ctx, s.db, projectID); err != nil {
		return err
	}
	deleted, err := s.db.WorkspaceRepo().DeleteLink(ctx, projectID, linkID)
	if err != nil {
		return errs.NewDatabaseError("delete", "link", err)
	}
	if !deleted {
		return errs.NewNotFoundError("Link not found")
	}
	return nil
}

func (s *Workspace) PostMessage(ctx context.Context, projectID, authorID uint, body string) (*MessageView, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.NewMissingRequiredFieldError("body", "Message cannot be empty")
	}
	if _, err := s.project(ctx, s.db, projectID); err != nil {
		return nil, err
	}
	author, err := s.db.UserRepo().FindByID(ctx, authorID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if author == nil {
		return nil, errs.NewNotFoundError("User not found")
	}
	msg := &models.ChatMessage{ProjectID: projectID, AuthorID: authorID, Body: body}
	if err := s.db.WorkspaceRepo().AddMessage(ctx, msg); err != nil {
		return nil, errs.NewDatabaseError("create", "message", err)
	}
	return &MessageView{ID: msg.ID, AuthorID: authorID, Author: author.Username, Body: msg.Body, Timestamp: msg.CreatedAt}, nil
}

// SaveNote creates or replaces the requester's untitled note.
func (s *Workspace) SaveNote(ctx context.Context, projectID, authorID uint, content string) (*models.ProjectNote, error) {
	var note *models.ProjectNote
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if _, err := s.project(ctx, tx, projectID); err != nil {
			return err
		}
		found, err := tx.WorkspaceRepo().FindUntitledNote(ctx, projectID, authorID)
		if err != nil {
			return errs.NewDatabaseError("find", "note", err)
		}
		if found == nil {
			found = &models.ProjectNote{ProjectID: projectID, AuthorID: authorID}
		}
		found.Content = content
		if err := tx.WorkspaceRepo().SaveNote(ctx, found); err != nil {
			return errs.NewDatabaseError("save", "note", err)
		}
		note = found
		return nil
	})
	return note, err
}

// ActionInput holds the fields a workspace form may submit.
type ActionInput struct {
	Action  string
	TaskID  string
	LinkID  string
	Title   string
	Label   string
	URL     string
	Body    string
	Content string
}

// Dispatch performs a workspace form action and returns a flash message.
func (s *Workspace) Dispatch(ctx context.Context, projectID, userID uint, in ActionInput) (string, error) {
	switch in.Action {
	case ActionAddTask:
		if _, err := s.AddTask(ctx, projectID, in.Title); err != nil {
			return "", err
		}
		return "Task added", nil
	case ActionToggleTask:
		id, err := parseID("task_id", in.TaskID)
		if err != nil {
			return "", err
		}
		if _, err := s.ToggleTask(ctx, projectID, id); err != nil {
			return "", err
		}
		return "Task updated", nil
	case ActionDeleteTask:
		id, err := parseID("task_id", in.TaskID)
		if err != nil {
			return "", err
		}
		if err := s.DeleteTask(ctx, projectID, id); err != nil {
			return "", err
		}
		return "Task deleted", nil
	case ActionAddLink:
		if _, err := s.AddLink(ctx, projectID, in.Label, in.URL); err != nil {
			return "", err
		}
		return "Link added", nil
	case ActionDeleteLink:
		id, err := parseID("link_id", in.LinkID)
		if err != nil {
			return "", err
		}
		if err := s.DeleteLink(ctx, projectID, id); err != nil {
			return "", err
		}
		return "Link deleted", nil
	case ActionSendMessage:
		if _, err := s.PostMessage(ctx, projectID, userID, in.Body); err != nil {
			return "", err
		}
		return "Message sent", nil
	case ActionSaveNote:
		if _, err := s.SaveNote(ctx, projectID, userID, in.Content); err != nil {
			return "", err
		}
		return "Note saved", nil
	default:
		return "", errs.NewBadRequestErrorWithField("Unknown action", "action")
	}
}

func parseID(field, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError(field, "Invalid "+field)
	}
	return uint(id), nil
}
