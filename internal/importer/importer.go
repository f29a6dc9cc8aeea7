package importer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/redact"
	"github.com/phrazzld/enlearn/internal/translate"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel definition lookups.
const DefaultConcurrency = 4

// Skip reasons reported in Result.Skipped.
const (
	ReasonMissingWord       = "missing word"
	ReasonMissingDefinition = "missing definition"
	ReasonLookupFailed      = "definition lookup failed"
)

// Skipped describes a row that produced no entry.
type Skipped struct {
	Line   int
	Word   string
	Reason string
}

// Result is the outcome of Build.
type Result struct {
	Entries    []*domain.Entry
	Skipped    []Skipped
	Translated int // entries whose definition came from the translator
}

// Importer builds entries from rows, filling missing definitions through an
// optional translator.
type Importer struct {
	translator  translate.Translator
	concurrency int
	now         func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithTranslator enables definition lookups for rows without one.
func WithTranslator(t translate.Translator) Option {
	return func(im *Importer) {
		im.translator = t
	}
}

// WithConcurrency bounds the number of lookups in flight.
func WithConcurrency(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.concurrency = n
		}
	}
}

// WithClock overrides the creation time of new entries.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) {
		im.now = now
	}
}

// New returns an Importer.
func New(opts ...Option) *Importer {
	im := &Importer{
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Build converts rows to new entries in row order. A failed lookup skips
// only its row; cancellation of ctx aborts the whole build.
func (im *Importer) Build(ctx context.Context, rows []Row) (*Result, error) {
	log := logger.FromContext(ctx)

	definitions := make([]string, len(rows))
	failed := make([]bool, len(rows))
	for i, r := range rows {
		definitions[i] = r.Definition
	}

	if im.translator != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(im.concurrency)

		for i, r := range rows {
			if r.Word == "" || r.Definition != "" {
				continue
			}
			g.Go(func() error {
				candidates, err := im.translator.Lookup(gctx, r.Word)
				if err != nil {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					log.Warn("definition lookup failed",
						slog.Int("line", r.Line),
						slog.String("word", r.Word),
						slog.String("error", redact.Error(err)))
					failed[i] = true
					return nil
				}
				if len(candidates) > 0 {
					definitions[i] = candidates[0]
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &Result{Entries: make([]*domain.Entry, 0, len(rows))}
	now := im.now()

	for i, r := range rows {
		if r.Word == "" {
			result.Skipped = append(result.Skipped, Skipped{Line: r.Line, Reason: ReasonMissingWord})
			continue
		}
		if definitions[i] == "" {
			reason := ReasonMissingDefinition
			if failed[i] {
				reason = ReasonLookupFailed
			}
			result.Skipped = append(result.Skipped, Skipped{Line: r.Line, Word: r.Word, Reason: reason})
			continue
		}

		entry, err := domain.NewEntry(r.Word, definitions[i], r.Context, now)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				result.Skipped = append(result.Skipped, Skipped{Line: r.Line, Word: r.Word, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		if r.Definition == "" {
			result.Translated++
		}
		result.Entries = append(result.Entries, entry)
	}

	log.Info("import rows processed",
		slog.Int("rows", len(rows)),
		slog.Int("entries", len(result.Entries)),
		slog.Int("translated", result.Translated),
		slog.Int("skipped", len(result.Skipped)))

	return result, nil
}
