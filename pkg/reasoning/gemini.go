package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	genai "google.golang.org/genai"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/selector"
)

const geminiAttempts = 3

// GeminiClient is a Client backed by the Gemini API.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient creates a client for the given model. The API key is
// read from the environment by the genai SDK.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// judgementEnvelope is the JSON shape the prompt asks the model for.
type judgementEnvelope struct {
	Reasoning  string   `json:"reasoning"`
	Confidence *float64 `json:"confidence"`
}

// Judge implements Client. Transient failures retry with backoff up to
// three attempts; a cancelled context aborts immediately.
func (g *GeminiClient) Judge(ctx context.Context, taskDescription string, candidates selector.CandidateSet) (Judgement, error) {
	prompt := BuildPrompt(taskDescription, candidates)

	var lastErr error
	for attempt := 0; attempt < geminiAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Judgement{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
			}
		}

		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("empty response from model")
			continue
		}

		return parseEnvelope(resp.Candidates[0].Content.Parts[0].Text), nil
	}
	return Judgement{}, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// parseEnvelope decodes the model's JSON envelope. A model that ignored
// the JSON instruction still yields a usable judgement: the raw text
// becomes the reasoning and no self-reported confidence is carried.
func parseEnvelope(text string) Judgement {
	var envelope judgementEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil || envelope.Reasoning == "" {
		return Judgement{ReasoningText: text}
	}
	confidence := envelope.Confidence
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		confidence = nil
	}
	return Judgement{
		ReasoningText:          envelope.Reasoning,
		SelfReportedConfidence: confidence,
	}
}
