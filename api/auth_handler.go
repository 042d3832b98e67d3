package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	identity  *services.Identity
	sessions  sessionManager
}

func newAuthHandler(identity *services.Identity, sessions sessionManager) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		identity:  identity,
		sessions:  sessions,
	}
}

func (h authHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxUserID(r.Context()); ok {
			redirect(w, r, "/dashboard")
			return
		}
		h.responder.WritePage(w, r, envelope{"page": "login"})
	}
}

func (h authHandler) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, "/login")
			return
		}
		user, err := h.identity.Login(r.Context(), services.LoginInput{
			Username: formValue(r, "username"),
			Password: r.Form.Get("password"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, "/login")
			return
		}
		if _, err := h.sessions.issue(w, user.ID); err != nil {
			h.responder.FlashError(w, r, errs.NewInternalErrorWithCause("issue session", err), "/login")
			return
		}
		h.responder.FlashSuccess(w, r, "Logged in successfully", "/dashboard")
	}
}

func (h authHandler) registerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WritePage(w, r, envelope{"page": "register"})
	}
}

func (h authHandler) registerForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, "/register")
			return
		}
		_, err := h.identity.Register(r.Context(), services.RegisterInput{
			Username: formValue(r, "username"),
			Email:    formValue(r, "email"),
			Password: r.Form.Get("password"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, "/register")
			return
		}
		h.responder.FlashSuccess(w, r, "Registration successful! Please log in.", "/login")
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clear(w)
		setFlash(w, flash{Category: flashInfo, Message: "You have been logged out."})
		redirect(w, r, "/")
	}
}

func (h authHandler) apiLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.LoginInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user, err := h.identity.Login(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		token, err := h.sessions.issue(w, user.ID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("issue session", err))
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Login successful", envelope{"user": user, "token": token})
	}
}

func (h authHandler) apiRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.RegisterInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user, err := h.identity.Register(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Registration successful", envelope{"user": user})
	}
}

func (h authHandler) apiLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clear(w)
		h.responder.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
	}
}
