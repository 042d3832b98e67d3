package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/config"
	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/services"
	"github.com/rpupo63/teamforge-backend/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.Config, svc services.Services, db database.Database, store storage.Storage) (Server, error) {
	if cfg.SecretKey == "" {
		return Server{}, fmt.Errorf("secret key is required to sign sessions")
	}

	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	startupTime := time.Now()

	router := newRouter(svc, db, withConfig(cfg), withStartupTime(startupTime), withStorage(store))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Config
	startupTime time.Time
	store       storage.Storage
}

func withConfig(c config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// withStorage serves locally stored media when store is a LocalStorage.
func withStorage(store storage.Storage) func(*router) {
	return func(r *router) {
		r.store = store
	}
}

func newRouter(svc services.Services, db database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	c := router.config

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metricsMiddleware)
	if c.LogPretty {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	} else {
		chiRouter.Use(httpLogging(log.Logger))
	}
	chiRouter.Use(secureMiddleware(c.CookieSecure))
	chiRouter.Use(corsMiddleware(c.AcceptedOrigins))

	sessions := newSessionManager(c.SecretKey, c.SessionTTL, c.CookieSecure)
	authMiddleware := newAuthMiddleware(sessions)
	chiRouter.Use(authMiddleware.loadSession)

	handlers := initializeHandlers(svc, db, sessions, c.MaxUploadBytes(), router.startupTime)
	setupRoutes(chiRouter, routeTable(handlers), authMiddleware)

	chiRouter.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if local, ok := router.store.(*storage.LocalStorage); ok {
		chiRouter.Method(http.MethodGet, storage.MediaPath+"*", local.Handler())
	}

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
