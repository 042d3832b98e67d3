package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/services"
)

const (
	flashCookieName = "flash"
	maxJSONBody     = 1 << 20
	maxFormMemory   = 8 << 20
)

// Flash categories.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

type flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// setFlash stores messages for the next page load.
func setFlash(w http.ResponseWriter, flashes ...flash) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns pending messages and expires the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []flash {
	out := []flash{}
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return out
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []flash{}
	}
	return out
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// WritePage writes a page model along with any pending flashes.
func (r Responder) WritePage(w http.ResponseWriter, req *http.Request, payload envelope) {
	if payload == nil {
		payload = envelope{}
	}
	payload["flashes"] = popFlashes(w, req)
	r.WriteSuccess(w, http.StatusOK, "", payload)
}

// FlashSuccess redirects to target with a success message.
func (r Responder) FlashSuccess(w http.ResponseWriter, req *http.Request, message, target string) {
	setFlash(w, flash{Category: flashSuccess, Message: message})
	redirect(w, req, target)
}

// FlashError redirects to target with the public message of err.
func (r Responder) FlashError(w http.ResponseWriter, req *http.Request, err error, target string) {
	status := errs.StatusCode(err)
	r.logError(err, status)

	message := errs.InternalMessage
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		message = apiErr.PublicMessage()
	}
	setFlash(w, flash{Category: flashError, Message: message})
	redirect(w, req, target)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.Malformed("request body")
	}
	return nil
}

// parseForm handles url-encoded and multipart bodies up to maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || r.ContentLength > maxBytes {
			return errs.NewMaxBodySizeExceededError(maxBytes)
		}
		return errs.Malformed("form")
	}
	return nil
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.Form.Get(key))
}

// formValues returns every non-blank value submitted for key.
func formValues(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.Form[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(formValue(r, key)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

func formInt(r *http.Request, key string) (int, error) {
	raw := formValue(r, key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError(key, "Invalid "+strings.ReplaceAll(key, "_", " "))
	}
	return n, nil
}

// readUpload reads the first of fields that carries a file.
// The caller must call the returned close function.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64, fields ...string) (services.Upload, func(), error) {
	if err := parseForm(w, r, maxBytes); err != nil {
		return services.Upload{}, nil, err
	}
	var (
		file   multipart.File
		header *multipart.FileHeader
		err    error = http.ErrMissingFile
	)
	for _, field := range fields {
		if file, header, err = r.FormFile(field); err == nil {
			break
		}
	}
	if err != nil {
		return services.Upload{}, nil, errs.NewMissingRequiredFieldError(fields[0], "No file uploaded")
	}
	up := services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return up, func() { file.Close() }, nil
}

// urlID parses a numeric path parameter. Anything else is treated as a
// missing resource.
func urlID(r *http.Request, param string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewNotFoundError("Not found")
	}
	return uint(id), nil
}
