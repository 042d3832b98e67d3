package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/services"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	profile   *services.Profile
	maxUpload int64
}

func newProfileHandler(profile *services.Profile, maxUpload int64) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()
	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		profile:   profile,
		maxUpload: maxUpload,
	}
}

func (h profileHandler) page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		view, err := h.profile.Get(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, envelope{"profile": view, "skill_levels": models.SkillLevels})
	}
}

func (h profileHandler) publicPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.profile.GetPublic(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, envelope{"profile": view})
	}
}

func (h profileHandler) updateForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		_, err := h.profile.Update(r.Context(), userID, services.UpdateProfileInput{
			Username:    formValue(r, "username"),
			Email:       formValue(r, "email"),
			ContactInfo: formValue(r, "contact_info"),
			Bio:         formValue(r, "bio"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		h.responder.FlashSuccess(w, r, "Profile updated successfully", "/profile")
	}
}

func (h profileHandler) avatarForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.uploadAvatar(w, r); err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		h.responder.FlashSuccess(w, r, "Avatar updated", "/profile")
	}
}

func (h profileHandler) uploadAvatar(w http.ResponseWriter, r *http.Request) (string, error) {
	userID, _ := ctxUserID(r.Context())
	up, done, err := readUpload(w, r, h.maxUpload, "avatar_file", "avatar")
	if err != nil {
		return "", err
	}
	defer done()

	url, err := h.profile.UploadAvatar(r.Context(), userID, up)
	if err != nil {
		return "", err
	}
	uploadBytesTotal.WithLabelValues("avatar").Add(float64(up.Size))
	return url, nil
}

func (h profileHandler) demoForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.uploadDemo(w, r); err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		h.responder.FlashSuccess(w, r, "Demo uploaded", "/profile")
	}
}

func (h profileHandler) uploadDemo(w http.ResponseWriter, r *http.Request) (services.DemoView, error) {
	userID, _ := ctxUserID(r.Context())
	up, done, err := readUpload(w, r, h.maxUpload, "demo_file", "demo")
	if err != nil {
		return services.DemoView{}, err
	}
	defer done()

	// An absent checkbox on a fresh form means the default, public.
	isPublic := true
	if _, ok := r.Form["is_public"]; ok {
		isPublic = formBool(r, "is_public")
	}
	demo, err := h.profile.UploadDemo(r.Context(), userID, up, services.DemoInput{
		Title:    formValue(r, "title"),
		IsPublic: isPublic,
	})
	if err != nil {
		return services.DemoView{}, err
	}
	uploadBytesTotal.WithLabelValues("demo").Add(float64(up.Size))
	return demo, nil
}

func (h profileHandler) demoDeleteForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		demoID, err := urlID(r, "id")
		if err == nil {
			err = h.profile.DeleteDemo(r.Context(), userID, demoID)
		}
		if err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		h.responder.FlashSuccess(w, r, "Demo deleted", "/profile")
	}
}

func (h profileHandler) skillAddForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		_, err := h.profile.AddSkill(r.Context(), userID, services.AddSkillInput{
			Name:  formValue(r, "name"),
			Level: formValue(r, "level"),
			Years: formValue(r, "years"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		h.responder.FlashSuccess(w, r, "Skill added", "/profile")
	}
}

func (h profileHandler) skillDeleteForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		skillID, err := urlID(r, "id")
		if err == nil {
			err = h.profile.DeleteSkill(r.Context(), userID, skillID)
		}
		if err != nil {
			h.responder.FlashError(w, r, err, "/profile")
			return
		}
		h.responder.FlashSuccess(w, r, "Skill removed", "/profile")
	}
}

func (h profileHandler) apiGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		view, err := h.profile.Get(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", envelope{"profile": view})
	}
}

func (h profileHandler) apiPublic() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.profile.GetPublic(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", envelope{"profile": view})
	}
}

func (h profileHandler) apiUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		var in services.UpdateProfileInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.profile.Update(r.Context(), userID, in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		view, err := h.profile.Get(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Profile updated successfully", envelope{"profile": view})
	}
}

func (h profileHandler) apiAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := h.uploadAvatar(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Avatar updated", envelope{"avatar_url": url})
	}
}

func (h profileHandler) apiDemos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		demos, err := h.profile.ListDemos(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", envelope{"demos": demos})
	}
}

func (h profileHandler) apiDemoUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		demo, err := h.uploadDemo(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Demo uploaded", envelope{"demo": demo})
	}
}

func (h profileHandler) apiDemoDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		demoID, err := urlID(r, "id")
		if err == nil {
			err = h.profile.DeleteDemo(r.Context(), userID, demoID)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Demo deleted", nil)
	}
}

// skillRequest accepts years as a JSON number or string. Older clients send
// the skill name as instrument.
type skillRequest struct {
	Instrument string `json:"instrument"`
	Name       string `json:"name"`
	Level      string `json:"level"`
	Years      any    `json:"years"`
}

func (s skillRequest) input() services.AddSkillInput {
	in := services.AddSkillInput{Name: s.Instrument, Level: s.Level}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = s.Name
	}
	switch v := s.Years.(type) {
	case nil:
	case float64:
		in.Years = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		in.Years = v
	default:
		in.Years = fmt.Sprint(v)
	}
	return in
}

func (h profileHandler) apiSkillAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		var req skillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		entry, err := h.profile.AddSkill(r.Context(), userID, req.input())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Skill added", envelope{"skill": entry})
	}
}

func (h profileHandler) apiSkillDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		skillID, err := urlID(r, "id")
		if err == nil {
			err = h.profile.DeleteSkill(r.Context(), userID, skillID)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Skill removed", nil)
	}
}
