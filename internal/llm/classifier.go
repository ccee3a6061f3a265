// Package llm adapts an OpenAI chat model to the pipeline's intent
// classification capability. The core never loads models on demand; this
// client is built once and injected at pipeline construction.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/intent"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/internalerr"
)

const systemPrompt = `You classify hotel emails. Reply with a JSON object
{"intent": "<label>", "confidence": <0..1>} where <label> is one of:
booking_request, booking_modification, cancellation, price_inquiry,
availability_check, other. Use only these labels.`

// input cap keeps token usage bounded on pathological emails
const maxPromptChars = 4000

var validLabels = map[string]struct{}{
	intent.BookingRequest:      {},
	intent.BookingModification: {},
	intent.Cancellation:        {},
	intent.PriceInquiry:        {},
	intent.AvailabilityCheck:   {},
	intent.Other:               {},
}

// Classifier calls an OpenAI chat model to label email intent
type Classifier struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewClassifier creates a rate-limited OpenAI classifier. An empty model
// selects gpt-3.5-turbo.
func NewClassifier(apiKey, model string) *Classifier {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Classifier{
		client: openai.NewClient(apiKey),
		model:  model,
		// 3 requests per second, burst of 5
		limiter: rate.NewLimiter(rate.Limit(3), 5),
	}
}

type labelResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classify labels one email body. Errors are returned to the caller; the
// hybrid wrapper in pkg/hotelmail/intent degrades to keyword rules.
func (c *Classifier) Classify(ctx context.Context, text string) (intent.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return intent.Result{}, fmt.Errorf("%w: %v", internalerr.ErrClassifierBusy, err)
	}

	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return intent.Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return intent.Result{}, fmt.Errorf("chat completion: empty response")
	}

	var label labelResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &label); err != nil {
		return intent.Result{}, fmt.Errorf("parse label: %w", err)
	}
	if _, ok := validLabels[label.Intent]; !ok {
		return intent.Result{}, fmt.Errorf("parse label: unknown intent %q", label.Intent)
	}
	if label.Confidence < 0 || label.Confidence > 1 {
		return intent.Result{}, fmt.Errorf("parse label: confidence %v out of range", label.Confidence)
	}

	return intent.Result{
		Intent:     label.Intent,
		Confidence: label.Confidence,
		Method:     intent.MethodML,
	}, nil
}
