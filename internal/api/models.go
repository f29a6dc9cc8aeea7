package api

import (
	"github.com/phrazzld/enlearn/internal/api/shared"
	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/service/review"
)

// EntryResponse is the wire form of a vocabulary entry.
type EntryResponse struct {
	ID            string `json:"id"`
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Context       string `json:"context"`
	CreatedAt     string `json:"created_at"`
	NextReview    string `json:"next_review"`
	IntervalDays  int    `json:"interval_days"`
	SuccessStreak int    `json:"success_streak"`
	ReviewCount   int    `json:"review_count"`
}

// ListEntriesResponse is returned by GET /api/entries.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
	Due     int             `json:"due"`
}

// CreateEntryRequest defines the payload for POST /api/entries.
type CreateEntryRequest struct {
	Word       string `json:"word"       validate:"required,max=200"`
	Definition string `json:"definition" validate:"required,max=2000"`
	Context    string `json:"context"    validate:"max=2000"`
}

// ReviewCardResponse is returned by GET /api/review/next.
type ReviewCardResponse struct {
	Entry     EntryResponse `json:"entry"`
	Mode      string        `json:"mode"`
	Prompt    string        `json:"prompt"`
	Answer    string        `json:"answer"`
	Remaining int           `json:"remaining"`
}

// SubmitResultRequest defines the payload for POST /api/review/{id}/result.
// Either Result or, in definition-first mode, a typed Answer is required.
type SubmitResultRequest struct {
	Result string `json:"result" validate:"omitempty,oneof=remembered forgotten"`
	Mode   string `json:"mode"   validate:"omitempty,oneof=word-first definition-first"`
	Answer string `json:"answer" validate:"max=200"`
}

var errResultRequired = domain.NewValidationError("result", "is required", domain.ErrValidation)

// Validate checks the struct tags and that the request decides an outcome.
func (r SubmitResultRequest) Validate() error {
	if err := shared.Validate.Struct(r); err != nil {
		return err
	}
	if r.Result == "" && (r.Answer == "" || review.ParseMode(r.Mode) != review.ModeDefinitionFirst) {
		return errResultRequired
	}
	return nil
}

// SubmitResultResponse is returned by POST /api/review/{id}/result.
type SubmitResultResponse struct {
	Entry      EntryResponse `json:"entry"`
	Remembered bool          `json:"remembered"`
}

// Lookup statuses.
const (
	LookupStatusOK       = "ok"
	LookupStatusNotFound = "not_found"
	LookupStatusEmpty    = "empty"
)

// LookupResponse is returned by GET /api/lookup.
type LookupResponse struct {
	Status       string   `json:"status"`
	Translation  string   `json:"translation,omitempty"`
	Translations []string `json:"translations"`
}

func entryToResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		Word:          e.Word,
		Definition:    e.Definition,
		Context:       e.Context,
		CreatedAt:     e.CreatedAt.String(),
		NextReview:    e.NextReview.String(),
		IntervalDays:  e.IntervalDays,
		SuccessStreak: e.SuccessStreak,
		ReviewCount:   e.ReviewCount,
	}
}

func entriesToResponse(entries []*domain.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToResponse(e))
	}
	return out
}

