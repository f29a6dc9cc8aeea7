package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/importer"
	"github.com/phrazzld/enlearn/internal/service/vocabulary"
)

func runAdd(ctx context.Context, c *commandContext) error {
	if len(c.args) < 2 {
		return fmt.Errorf("%w: add command requires WORD and DEFINITION arguments", errUsage)
	}
	// Extra arguments are joined into the definition so unquoted phrases work.
	word := c.args[0]
	definition := strings.Join(c.args[1:], " ")
	contextText, _ := c.flags.GetString("context")

	entry, err := c.Vocabulary.Add(ctx, vocabulary.AddInput{
		Word:       word,
		Definition: definition,
		Context:    contextText,
	})
	if err != nil {
		var fieldErr *domain.ValidationError
		if errors.As(err, &fieldErr) {
			return fmt.Errorf("%w: %s", errUsage, fieldErr.Error())
		}
		return err
	}

	c.printf("Added '%s' to your vocabulary list. Next review: %s\n", entry.Word, entry.NextReview)
	return nil
}

func runList(ctx context.Context, c *commandContext) error {
	limit := c.Config.Review.Limit
	listing, err := c.Vocabulary.List(ctx, limit)
	if err != nil {
		return err
	}
	if listing.Total == 0 {
		c.println("No vocabulary saved yet. Use the add command to capture a new word.")
		return nil
	}

	c.printf("Showing up to %d entries (fewest reviews first, then newest):\n", limit)
	for _, e := range listing.Entries {
		c.printf("- %s :: %s (next review %s, streak %d, reviews %d)\n",
			e.Word, e.Definition, e.NextReview, e.SuccessStreak, e.ReviewCount)
	}
	c.printf("%d of %d entries due today.\n", listing.Due, listing.Total)
	return nil
}

func runDelete(ctx context.Context, c *commandContext) error {
	if len(c.args) != 1 {
		return fmt.Errorf("%w: delete command requires an ID argument", errUsage)
	}
	id := c.args[0]

	if err := c.Vocabulary.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return fmt.Errorf("no entry with id %s", id)
		}
		return err
	}
	c.printf("Deleted entry %s.\n", id)
	return nil
}

func runLookup(ctx context.Context, c *commandContext) error {
	if len(c.args) == 0 {
		return fmt.Errorf("%w: lookup command requires a WORD argument", errUsage)
	}
	word := strings.Join(c.args, " ")

	candidates, err := c.Translator.Lookup(ctx, word)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if len(candidates) == 0 {
		c.printf("No translation found for '%s'.\n", word)
		return nil
	}
	for _, candidate := range candidates {
		c.println(candidate)
	}
	return nil
}

func runImport(ctx context.Context, c *commandContext) error {
	if len(c.args) != 1 {
		return fmt.Errorf("%w: import command requires a FILE argument", errUsage)
	}

	rows, err := importer.ReadFile(c.args[0])
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return err
	}

	result, err := c.Importer.Build(ctx, rows)
	if err != nil {
		return err
	}

	added, err := c.Vocabulary.Import(ctx, result.Entries)
	if err != nil {
		return err
	}

	c.printf("Imported %d entries from %s", added, filepath.Base(c.args[0]))
	if result.Translated > 0 {
		c.printf(" (%d definitions looked up)", result.Translated)
	}
	c.println(".")
	for _, s := range result.Skipped {
		c.printf("  skipped line %d %q: %s\n", s.Line, s.Word, s.Reason)
	}
	return nil
}

func runExport(ctx context.Context, c *commandContext) error {
	output, _ := c.flags.GetString("output")
	if output == "" {
		_, err := c.Vocabulary.Export(ctx, c.io.Out)
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	n, err := c.Vocabulary.Export(ctx, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.io.Err, "Exported %d entries to %s\n", n, output)
	return nil
}
