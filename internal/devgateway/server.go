// Package devgateway is a self-contained implementation of the gateway
// contract the store layer consumes: product CRUD, auth, a websocket
// change feed, a read-only GraphQL endpoint, image storage, and
// Prometheus metrics. It backs local development and the integration
// tests; a production deployment points the client at a hosted gateway
// instead.
package devgateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"shopstream/config"
	"shopstream/database/seeders"
	"shopstream/pkg/logger"
	"shopstream/pkg/metrics"
	"shopstream/pkg/middleware"
	"shopstream/pkg/storage"
)

// Server is the embedded gateway.
type Server struct {
	db     *gorm.DB
	hub    *hub
	schema graphql.Schema
	router chi.Router
}

// New connects the database, migrates the schema, and builds the
// router.
func New() (*Server, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}

	s := &Server{db: db, hub: newHub()}
	if s.schema, err = s.buildSchema(); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.CORS)

	// The realtime feed hijacks the connection for the websocket
	// upgrade, so it stays outside the logging/metrics wrappers.
	r.Get("/api/realtime", s.hub.serve)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestLogger)
		r.Use(metrics.Middleware())

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", s.listProducts)
			r.Post("/", s.createProduct)
			r.Patch("/{id}", s.updateProduct)
			r.Delete("/{id}", s.deleteProduct)
		})

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/signup", s.signup)
			r.Post("/login", s.login)
			r.Post("/verify", s.verify)
			r.Post("/session", s.setSession)
			r.Get("/session", s.currentSession)
		})

		r.Post("/graphql", s.graphql)
	})

	r.Get("/metrics", metrics.Handler())

	// Product images from the local disk.
	fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(storage.LocalRoot())))
	r.Get("/storage/*", fs.ServeHTTP)

	return r
}

// Handler returns the gateway as an http.Handler, for httptest servers.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the gateway on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + config.GatewayPort()
	logger.Info("gateway listening", "addr", addr, "env", config.AppEnv())
	return http.ListenAndServe(addr, s.router)
}

// Seed runs the registered database seeders.
func (s *Server) Seed() error {
	return seeders.RunAll(s.db)
}

// Close disconnects realtime clients.
func (s *Server) Close() {
	s.hub.close()
}

// ─── Response envelopes ──────────────────────────────────────────────────────

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"data":   data,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"code":    code,
		"message": message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return false
	}
	return true
}
