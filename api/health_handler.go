package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/errs"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          pinger
	startupTime time.Time
}

func newHealthHandler(db pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

// health answers liveness checks.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, http.StatusOK, envelope{"status": "ok"})
	}
}

// ready also checks the database.
func (h healthHandler) ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Readiness check failed")
			h.responder.WriteJSON(w, http.StatusServiceUnavailable, envelope{"status": "unavailable", "error": errs.InternalMessage})
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, envelope{
			"status":  "ok",
			"started": humanize.Time(h.startupTime),
		})
	}
}
