package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dbobbgit/room-of-requirement/internal/config"
	"github.com/dbobbgit/room-of-requirement/internal/core"
	"github.com/dbobbgit/room-of-requirement/internal/utils"
)

type Server struct {
	config     *config.Config
	manager    *core.Manager
	logger     *utils.Logger
	httpServer *http.Server
	apiHandler *APIHandler
}

func NewServer(cfg *config.Config, manager *core.Manager, logger *utils.Logger) *Server {
	return &Server{
		config:     cfg,
		manager:    manager,
		logger:     logger,
		apiHandler: NewAPIHandler(manager, logger, cfg),
	}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth (mocked: a single shared password, no sessions)
	api.HandleFunc("/login", s.apiHandler.Login).Methods("POST")

	api.HandleFunc("/users", s.apiHandler.GetUsers).Methods("GET")
	api.HandleFunc("/media", s.apiHandler.SubmitMedia).Methods("POST")
	api.HandleFunc("/media/search", s.apiHandler.SearchCatalog).Methods("GET")
	api.HandleFunc("/media/autofill/{type}/{id}", s.apiHandler.Autofill).Methods("GET")
	api.HandleFunc("/search/ws", s.apiHandler.SearchSocket).Methods("GET")
	api.HandleFunc("/status", s.apiHandler.GetSystemStatus).Methods("GET")

	return router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Starting server on port", s.config.App.Port)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
