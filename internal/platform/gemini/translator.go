package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/phrazzld/enlearn/internal/translate"
	"google.golang.org/genai"
)

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the translator cannot be constructed.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrEmptyResponse is returned when the model returned no text.
	ErrEmptyResponse = errors.New("gemini returned an empty response")
)

// Config contains the settings needed to call Gemini.
type Config struct {
	APIKey    string
	ModelName string
	// LangPair uses the MyMemory notation, e.g. "auto|zh-TW".
	LangPair string
}

// contentGenerator is the subset of the genai client used by Translator.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// promptData represents the data passed to the prompt template
type promptData struct {
	Word   string
	Target string
}

var promptTemplate = template.Must(template.New("translate").Parse(
	`Translate the English word or phrase "{{.Word}}" into {{.Target}}.
Reply with only a JSON array of up to five short candidate translations,
most common first, for example ["translation one", "translation two"].
Reply with [] if there is no sensible translation.`))

// Translator implements translate.Translator with Gemini.
type Translator struct {
	logger    *slog.Logger
	generator contentGenerator
	model     string
	target    string
}

// Ensure Translator implements translate.Translator.
var _ translate.Translator = (*Translator)(nil)

// NewTranslator creates a Translator backed by the Gemini API.
func NewTranslator(ctx context.Context, logger *slog.Logger, cfg Config) (*Translator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newTranslator(logger, client.Models, cfg)
}

func newTranslator(logger *slog.Logger, generator contentGenerator, cfg Config) (*Translator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	return &Translator{
		logger:    logger,
		generator: generator,
		model:     cfg.ModelName,
		target:    targetLanguage(cfg.LangPair),
	}, nil
}

// targetLanguage returns the target half of a "source|target" pair.
func targetLanguage(pair string) string {
	if _, target, ok := strings.Cut(pair, "|"); ok && strings.TrimSpace(target) != "" {
		return strings.TrimSpace(target)
	}
	if strings.TrimSpace(pair) != "" && !strings.Contains(pair, "|") {
		return strings.TrimSpace(pair)
	}
	return "zh-TW"
}

// Lookup asks the model for translations of word.
func (t *Translator) Lookup(ctx context.Context, word string) ([]string, error) {
	word = translate.NormalizeWord(word)
	if word == "" {
		return nil, nil
	}

	var prompt bytes.Buffer
	if err := promptTemplate.Execute(&prompt, promptData{Word: word, Target: t.target}); err != nil {
		return nil, fmt.Errorf("%w: failed to build prompt: %v", translate.ErrLookupFailed, err)
	}

	t.logger.DebugContext(ctx, "requesting translation from gemini",
		"word", word,
		"model", t.model)

	resp, err := t.generator.GenerateContent(ctx, t.model, genai.Text(prompt.String()),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", translate.ErrLookupFailed, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: %w", translate.ErrLookupFailed, ErrEmptyResponse)
	}

	candidates, err := parseCandidates(text)
	if err != nil {
		t.logger.WarnContext(ctx, "could not parse gemini response",
			"word", word,
			"error", err)
		return nil, fmt.Errorf("%w: %w", translate.ErrLookupFailed, err)
	}

	return translate.Clean(word, candidates), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseCandidates accepts a JSON array of strings, optionally wrapped in a
// markdown code fence, or an object with a "translations" array.
func parseCandidates(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var list []string
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Translations []string `json:"translations"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, fmt.Errorf("response is not a JSON list of strings: %w", err)
	}
	return wrapped.Translations, nil
}
