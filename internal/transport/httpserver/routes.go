package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"record-store-go/internal/config"
	"record-store-go/internal/transport/httpserver/handler"
	"record-store-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Get("/events/stats", handlers.Common.EventStats)

		r.Get("/documents", handlers.Documents.ListDocuments)
		r.Post("/documents", handlers.Documents.CreateDocument)
		r.Post("/documents/batch", handlers.Documents.CreateDocuments)
		r.Post("/documents/delete", handlers.Documents.DeleteDocuments)
		r.Get("/documents/{id}", handlers.Documents.GetDocument)
		r.Put("/documents/{id}", handlers.Documents.UpdateDocument)
		r.Delete("/documents/{id}", handlers.Documents.DeleteDocument)
	})

	return r
}
