// internal/gen/gemini.go
//
// Gemini-backed Generator. One client, one model name, short single-turn
// prompts; responses are plain text extracted from the first candidate.

package gen

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash-exp"

// Gemini implements Generator against the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini generator with the given API key.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: defaultModel}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) PuzzleWord(ctx context.Context) (string, error) {
	return g.generate(ctx, puzzleWordPrompt)
}

func (g *Gemini) Secret(ctx context.Context, category string) (string, error) {
	return g.generate(ctx, secretPrompt(category))
}

func (g *Gemini) Answer(ctx context.Context, category, secret, question string) (string, error) {
	return g.generate(ctx, answerPrompt(category, secret, question))
}

func (g *Gemini) Verdict(ctx context.Context, secret, guess string) (bool, string, error) {
	text, err := g.generate(ctx, verdictPrompt(secret, guess))
	if err != nil {
		return false, "", err
	}
	return VerdictFromText(text), text, nil
}

// generate runs one prompt and returns the trimmed response text.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(getText(resp))
	if text == "" {
		return "", errors.New("gen: empty response")
	}
	return text, nil
}

// getText concatenates the text parts of the first candidate.
func getText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}
