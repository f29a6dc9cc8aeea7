package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/enlearn/internal/api/shared"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/redact"
	"github.com/phrazzld/enlearn/internal/service/review"
)

// ReviewHandler handles review session HTTP requests
type ReviewHandler struct {
	review review.Service
	logger *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		review: reviewService,
		logger: logger.With(slog.String("component", "review_handler")),
	}
}

// skippedIDs collects skip query values; each may be a comma separated list.
func skippedIDs(r *http.Request) []string {
	var ids []string
	for _, v := range r.URL.Query()["skip"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// GetNextEntry handles GET /api/review/next requests.
// It responds 204 when nothing unskipped is due.
func (h *ReviewHandler) GetNextEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	mode := review.ParseMode(r.URL.Query().Get("mode"))
	card, err := h.review.Next(r.Context(), mode, skippedIDs(r))
	if errors.Is(err, review.ErrNoEntriesDue) {
		log.Debug("no entries due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review entry")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewCardResponse{
		Entry:     entryToResponse(card.Entry),
		Mode:      string(card.Mode),
		Prompt:    card.Prompt,
		Answer:    card.Answer,
		Remaining: card.Remaining,
	})
}

// SubmitResult handles POST /api/review/{id}/result requests
func (h *ReviewHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id := chi.URLParam(r, "id")
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Entry ID is required")
		return
	}

	var req SubmitResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("entry_id", id))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		msg := GetSafeErrorMessage(err)
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, err)
		return
	}

	outcome, err := h.review.Submit(r.Context(), id, review.Answer{
		Mode:   review.ParseMode(req.Mode),
		Result: review.Result(req.Result),
		Typed:  req.Answer,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review result")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitResultResponse{
		Entry:      entryToResponse(outcome.Entry),
		Remembered: outcome.Remembered,
	})
}

// SkipEntry handles POST /api/review/{id}/skip requests. Skipping never
// changes the entry; clients pass skipped ids back to GET /api/review/next.
func (h *ReviewHandler) SkipEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Entry ID is required")
		return
	}

	if err := h.review.Skip(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to skip entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
