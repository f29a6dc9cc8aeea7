package cli

import (
	"bufio"
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/service/review"
)

// reviewSession drives one interactive review over a line-oriented input.
type reviewSession struct {
	c       *commandContext
	in      *bufio.Scanner
	mode    review.Mode
	skipped []string
}

// readLine returns the next input line, or false at end of input.
func (s *reviewSession) readLine(prompt string) (string, bool) {
	s.c.printf("%s", prompt)
	if !s.in.Scan() {
		s.c.println()
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func runReview(ctx context.Context, c *commandContext) error {
	listing, err := c.Vocabulary.List(ctx, 0)
	if err != nil {
		return err
	}
	if listing.Total == 0 {
		c.println("Your list is empty. Add words first.")
		return nil
	}

	mode := review.ParseMode(c.Config.Review.Mode)
	if c.flags.Changed("mode") {
		raw, _ := c.flags.GetString("mode")
		mode = review.ParseMode(raw)
	}

	s := &reviewSession{c: c, in: bufio.NewScanner(c.io.In), mode: mode}
	reviewed, err := s.run(ctx, c.Config.Review.Limit)
	if err != nil {
		return err
	}
	if reviewed < 0 {
		c.println("No words are due for review today. Great job!")
		return nil
	}

	c.println("Review session complete. Keep going!")
	return nil
}

// run reviews up to limit entries and returns how many outcomes were
// recorded, or -1 when nothing was due at the start.
func (s *reviewSession) run(ctx context.Context, limit int) (int, error) {
	reviewed := 0
	first := true
	for reviewed < limit {
		card, err := s.c.Review.Next(ctx, s.mode, s.skipped)
		if errors.Is(err, review.ErrNoEntriesDue) {
			if first {
				return -1, nil
			}
			return reviewed, nil
		}
		if err != nil {
			return reviewed, err
		}
		if first {
			s.c.println("Type 'y' if you remembered the meaning, 'n' if not, 's' to skip, or 'q' to stop.")
			first = false
		}

		answer, quit := s.ask(card)
		if quit {
			return reviewed, nil
		}
		if answer == nil {
			if err := s.c.Review.Skip(ctx, card.Entry.ID); err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
				return reviewed, err
			}
			s.skipped = append(s.skipped, card.Entry.ID)
			continue
		}

		outcome, err := s.c.Review.Submit(ctx, card.Entry.ID, *answer)
		if errors.Is(err, domain.ErrEntryNotFound) {
			s.c.println("This entry was deleted meanwhile; moving on.")
			s.skipped = append(s.skipped, card.Entry.ID)
			continue
		}
		if err != nil {
			return reviewed, err
		}
		reviewed++
		s.c.printf("Next review: %s (every %d days)\n", outcome.Entry.NextReview, outcome.Entry.IntervalDays)
	}
	return reviewed, nil
}

// ask presents card and reads the user's verdict. A nil answer means skip.
func (s *reviewSession) ask(card *review.Card) (*review.Answer, bool) {
	e := card.Entry
	if card.Mode == review.ModeDefinitionFirst {
		s.c.printf("\nDefinition: %s\n", e.Definition)
		if e.Context != "" {
			s.c.printf("Context: %s\n", maskWord(e.Context, e.Word))
		}
		typed, ok := s.readLine("Type the word, or press Enter to reveal it: ")
		if !ok {
			return nil, true
		}
		if typed != "" {
			answer := &review.Answer{Mode: card.Mode, Typed: typed}
			if strings.EqualFold(typed, strings.TrimSpace(e.Word)) {
				s.c.println("Correct!")
			} else {
				s.c.printf("Not quite. The word was: %s\n", e.Word)
			}
			return answer, false
		}
		s.c.printf("Word: %s\n", e.Word)
	} else {
		s.c.printf("\nWord: %s\n", e.Word)
		if e.Context != "" {
			s.c.printf("Context: %s\n", e.Context)
		}
		if _, ok := s.readLine("Press Enter to reveal the definition..."); !ok {
			return nil, true
		}
		s.c.printf("Definition: %s\n", e.Definition)
	}

	for {
		response, ok := s.readLine("Did you remember correctly? [y/n/s/q]: ")
		if !ok {
			return nil, true
		}
		switch strings.ToLower(response) {
		case "y":
			return &review.Answer{Mode: card.Mode, Result: review.ResultRemembered}, false
		case "n":
			return &review.Answer{Mode: card.Mode, Result: review.ResultForgotten}, false
		case "s":
			return nil, false
		case "q":
			return nil, true
		default:
			s.c.println("Please respond with 'y', 'n', 's', or 'q'.")
		}
	}
}

// maskWord hides occurrences of word in text so the context does not give
// the answer away.
func maskWord(text, word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return text
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat("_", utf8.RuneCountInString(m))
	})
}
