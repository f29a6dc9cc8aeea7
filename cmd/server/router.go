package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/enlearn/internal/api"
	apiMiddleware "github.com/phrazzld/enlearn/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (a *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(a.logger))
	r.Use(middleware.Recoverer)

	entryHandler := api.NewEntryHandler(a.deps.Vocabulary, a.logger)
	reviewHandler := api.NewReviewHandler(a.deps.Review, a.logger)
	lookupHandler := api.NewLookupHandler(a.deps.Translator, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", entryHandler.ListEntries)
		r.Post("/entries", entryHandler.CreateEntry)
		r.Delete("/entries/{id}", entryHandler.DeleteEntry)
		r.Get("/export", entryHandler.ExportEntries)

		r.Get("/review/next", reviewHandler.GetNextEntry)
		r.Post("/review/{id}/result", reviewHandler.SubmitResult)
		r.Post("/review/{id}/skip", reviewHandler.SkipEntry)

		r.Get("/lookup", lookupHandler.Lookup)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			a.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
