package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/errs"
)

// envelope is the body of every JSON response.
type envelope map[string]any

const maxResponseSize = 10 * 1024 * 1024 // 10MB

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with status. The body is marshalled first so a
// failure still produces a clean 500.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(envelope{"success": false, "error": errs.InternalMessage})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess writes {"success": true, "message": message} merged with payload.
func (r Responder) WriteSuccess(w http.ResponseWriter, status int, message string, payload envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	r.WriteJSON(w, status, body)
}

// WriteError maps err onto the failure envelope. Internal details are
// logged and never sent.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	status := errs.StatusCode(err)
	body := envelope{"success": false}

	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		body["error"] = apiErr.PublicMessage()
		if apiErr.Field != "" && status < http.StatusInternalServerError {
			body["field"] = apiErr.Field
		}
	} else {
		body["error"] = errs.InternalMessage
	}

	r.logError(err, status)
	r.WriteJSON(w, status, body)
}

func (r Responder) logError(err error, status int) {
	full := err.Error()
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		full = apiErr.GetFullError()
	}
	if status >= http.StatusInternalServerError {
		r.logger.Error().Int("status", status).Msg(full)
	} else {
		r.logger.Debug().Int("status", status).Msg(full)
	}
}
