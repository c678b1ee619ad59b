package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/akshay-builds/techkart/auth"
	"github.com/akshay-builds/techkart/config"
	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, store *storage.LocalStore) (Server, error) {
	c := config.New()

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	sessions := auth.NewSessionManager(
		config.GetString(c, "SECRET_KEY", "dev-secret-key-change-me"),
		auth.DefaultSessionTTL,
	)

	router := newRouter(database, store, sessions, withConfig(c), withStartupTime(startupTime))

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, store *storage.LocalStore, sessions *auth.SessionManager, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	maxUploadBytes := config.GetInt64(router.config, "MAX_UPLOAD_BYTES", 16<<20)

	// Initialize all handlers
	handlers := initializeHandlers(database, store, sessions, maxUploadBytes, router.startupTime)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(sessions, database.UserRepo())

	acceptedOrigins := config.GetString(router.config, "ACCEPTED_ORIGINS", "")
	if acceptedOrigins != "" {
		chiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   strings.Split(acceptedOrigins, ","),
			AllowedMethods:   []string{"GET", "POST"},
			AllowCredentials: true,
		}))
	}

	// Setup all route types
	setupRoutes(chiRouter, handlers, authMiddleware)

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
