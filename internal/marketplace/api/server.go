package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
)

type Server struct {
	router     *mux.Router
	httpServer *http.Server
	logger     logging.Logger
}

func NewServer(store *cache.Store, port string, logger logging.Logger) *Server {
	router := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin"},
	})

	s := &Server{
		router: router,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: corsHandler.Handler(router),
		},
	}

	s.routes(store)
	return s
}

func (s *Server) routes(store *cache.Store) {
	handler := NewHandler(store, s.logger)

	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/health", handler.GetHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(mux.CORSMethodMiddleware(api)) // For preflight requests

	api.HandleFunc("/tasks", handler.GetTasks).Methods("GET")
	api.HandleFunc("/tasks/{id}", handler.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{id}/price", handler.GetTaskPrice).Methods("GET")
	api.HandleFunc("/tasks/{id}/deposit", handler.GetTaskDeposit).Methods("GET")
	api.HandleFunc("/tasks/{id}/dispute", handler.GetTaskDispute).Methods("GET")
}

func (s *Server) Start() error {
	s.logger.Infof("Starting read-model API on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
