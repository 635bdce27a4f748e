package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/models"
	"asset-tracking-api/internal/service"
	"asset-tracking-api/internal/store"
)

// Server wires the HTTP routes to the asset management service.
type Server struct {
	Assets  *service.AssetService
	Router  *chi.Mux
	Metrics *Metrics
}

// NewServer builds the router. With a nil config the server runs without the
// metrics endpoint, which is what the tests want.
func NewServer(svc *service.AssetService, cfg *config.Config) *Server {
	s := &Server{
		Assets:  svc,
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
	}

	// chi requires middleware before any route registration.
	if cfg != nil && cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	s.Router.Get("/assets", s.listAssets)
	s.Router.Post("/assets", s.createAsset)
	s.Router.Get("/assets/{kind}/{id}", s.getAsset)
	s.Router.Put("/assets/{kind}/{id}", s.updateAsset)
	s.Router.Delete("/assets/{kind}/{id}", s.deleteAsset)
	s.Router.Put("/assets/{kind}/{id}/office", s.assignOffice)
	s.Router.Post("/assets/{kind}/{id}/users", s.assignUser)

	s.Router.Get("/offices", s.listOffices)
	s.Router.Get("/offices/{id}/assets", s.officeAssets)
	s.Router.Get("/users", s.listUsers)
	s.Router.Get("/users/assets", s.usersWithAssets)
	s.Router.Get("/users/{id}/assets", s.userAssets)
	s.Router.Delete("/users/{id}", s.deleteUser)

	s.Router.Get("/stats", s.statsReport)
	s.Router.Get("/reports/statistics.xlsx", s.statsWorkbook)

	return s
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError maps service errors to status codes: invalid input is the
// caller's fault, a miss is 404, everything else is a server error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
