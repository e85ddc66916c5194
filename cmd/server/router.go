package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/examforge/paper-api/internal/api"
	apiMiddleware "github.com/examforge/paper-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	paperHandler := api.NewPaperHandler(app.paperService)
	extractionHandler := api.NewExtractionHandler(app.extractionService)

	r.Post("/paper", paperHandler.CreatePaper)
	r.Route("/papers/{p_id}", func(r chi.Router) {
		r.Get("/", paperHandler.GetPaper)
		r.Put("/", paperHandler.UpdatePaper)
		r.Delete("/", paperHandler.DeletePaper)
	})

	r.Post("/extract/text", extractionHandler.SubmitFile)
	r.Get("/tasks/{task_id}", extractionHandler.GetTask)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
