package api

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/phrazzld/enlearn/internal/api/shared"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/redact"
	"github.com/phrazzld/enlearn/internal/translate"
)

// maxLookupRunes bounds the word accepted by the lookup endpoint.
const maxLookupRunes = 200

// LookupHandler serves translation suggestions for the add-entry form.
type LookupHandler struct {
	translator translate.Translator
	logger     *slog.Logger
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(translator translate.Translator, logger *slog.Logger) *LookupHandler {
	if translator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("translator cannot be nil for LookupHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LookupHandler")
	}

	return &LookupHandler{
		translator: translator,
		logger:     logger.With(slog.String("component", "lookup_handler")),
	}
}

// Lookup handles GET /api/lookup?word= requests.
//
// A blank word answers status "empty". A provider failure is not an API
// error: the form still works without suggestions, so it answers
// "not_found" and logs a warning.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	word := translate.NormalizeWord(r.URL.Query().Get("word"))
	if word == "" {
		shared.RespondWithJSON(w, r, http.StatusOK, LookupResponse{
			Status:       LookupStatusEmpty,
			Translations: []string{},
		})
		return
	}
	if utf8.RuneCountInString(word) > maxLookupRunes {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word: too long")
		return
	}

	candidates, err := h.translator.Lookup(r.Context(), word)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		log.Warn("translation lookup failed",
			slog.String("word", word),
			slog.String("error", redact.Error(err)))
		candidates = nil
	}

	resp := LookupResponse{Status: LookupStatusNotFound, Translations: []string{}}
	if len(candidates) > 0 {
		resp = LookupResponse{
			Status:       LookupStatusOK,
			Translation:  candidates[0],
			Translations: candidates,
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
