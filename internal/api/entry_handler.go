package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/enlearn/internal/api/shared"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/redact"
	"github.com/phrazzld/enlearn/internal/service/vocabulary"
)

// EntryHandler handles vocabulary entry HTTP requests
type EntryHandler struct {
	vocabulary vocabulary.Service
	logger     *slog.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(vocabularyService vocabulary.Service, logger *slog.Logger) *EntryHandler {
	if vocabularyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("vocabularyService cannot be nil for EntryHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EntryHandler")
	}

	return &EntryHandler{
		vocabulary: vocabularyService,
		logger:     logger.With(slog.String("component", "entry_handler")),
	}
}

// ListEntries handles GET /api/entries requests.
// The optional limit query parameter truncates the sorted listing.
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Warn("invalid limit parameter", slog.String("limit", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	listing, err := h.vocabulary.List(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list entries")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListEntriesResponse{
		Entries: entriesToResponse(listing.Entries),
		Total:   listing.Total,
		Due:     listing.Due,
	})
}

// CreateEntry handles POST /api/entries requests
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateEntryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	entry, err := h.vocabulary.Add(r.Context(), vocabulary.AddInput{
		Word:       req.Word,
		Definition: req.Definition,
		Context:    req.Context,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create entry")
		return
	}

	log.Debug("entry created", slog.String("entry_id", entry.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, entryToResponse(entry))
}

// DeleteEntry handles DELETE /api/entries/{id} requests
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Entry ID is required")
		return
	}

	if err := h.vocabulary.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportEntries handles GET /api/export requests with the whole collection
// in its persisted JSON format.
func (h *EntryHandler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="vocab.json"`)

	n, err := h.vocabulary.Export(r.Context(), w)
	if err != nil {
		// Export encodes before writing, so nothing has been sent yet.
		w.Header().Del("Content-Disposition")
		HandleAPIError(w, r, err, "Failed to export entries")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("entries exported", slog.Int("count", n))
}
