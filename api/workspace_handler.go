package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/services"
)

type workspaceHandler struct {
	responder Responder
	logger    zerolog.Logger
	workspace *services.Workspace
}

func newWorkspaceHandler(workspace *services.Workspace) workspaceHandler {
	logger := log.With().Str("handlerName", "workspaceHandler").Logger()
	return workspaceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		workspace: workspace,
	}
}

func (h workspaceHandler) view(r *http.Request) (services.WorkspaceView, error) {
	userID, _ := ctxUserID(r.Context())
	projectID, err := urlID(r, "id")
	if err != nil {
		return services.WorkspaceView{}, err
	}
	return h.workspace.View(r.Context(), projectID, userID)
}

func (h workspaceHandler) page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.view(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, envelope{"workspace": view})
	}
}

// actionForm runs the action named by the "action" field and returns to
// the workspace page.
func (h workspaceHandler) actionForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		back := projectPath(projectID, "/gui")
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, back)
			return
		}
		msg, err := h.workspace.Dispatch(r.Context(), projectID, userID, services.ActionInput{
			Action:  formValue(r, "action"),
			TaskID:  formValue(r, "task_id"),
			LinkID:  formValue(r, "link_id"),
			Title:   formValue(r, "title"),
			Label:   formValue(r, "label"),
			URL:     formValue(r, "url"),
			Body:    formValue(r, "body"),
			Content: r.Form.Get("content"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, back)
			return
		}
		h.responder.FlashSuccess(w, r, msg, back)
	}
}

func (h workspaceHandler) apiView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.view(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", envelope{"workspace": view})
	}
}

type taskRequest struct {
	Title string `json:"title"`
}

func (h workspaceHandler) apiAddTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req taskRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		task, err := h.workspace.AddTask(r.Context(), projectID, req.Title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Task added", envelope{"task": task})
	}
}

func (h workspaceHandler) apiToggleTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := urlID(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		task, err := h.workspace.ToggleTask(r.Context(), projectID, taskID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Task updated", envelope{"task": task})
	}
}

func (h workspaceHandler) apiDeleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := urlID(r, "taskID")
		if err == nil {
			err = h.workspace.DeleteTask(r.Context(), projectID, taskID)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Task deleted", nil)
	}
}

type linkRequest struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func (h workspaceHandler) apiAddLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req linkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		link, err := h.workspace.AddLink(r.Context(), projectID, req.Label, req.URL)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Link added", envelope{"link": link})
	}
}

func (h workspaceHandler) apiDeleteLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		linkID, err := urlID(r, "linkID")
		if err == nil {
			err = h.workspace.DeleteLink(r.Context(), projectID, linkID)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Link deleted", nil)
	}
}

type messageRequest struct {
	Body string `json:"body"`
}

func (h workspaceHandler) apiPostMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req messageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		msg, err := h.workspace.PostMessage(r.Context(), projectID, userID, req.Body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Message sent", envelope{"chat_message": msg})
	}
}

type noteRequest struct {
	Content string `json:"content"`
}

func (h workspaceHandler) apiSaveNote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req noteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		note, err := h.workspace.SaveNote(r.Context(), projectID, userID, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Note saved", envelope{"note": services.NoteView{
			ID: note.ID, Content: note.Content, UpdatedAt: &note.UpdatedAt,
		}})
	}
}
