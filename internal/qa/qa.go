// Package qa is the question-answering boundary: it ships the report
// context and a user question to the completion service and returns the
// first completion verbatim.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/reportcheck-cli/internal/ai"
)

// SystemInstruction frames every Q&A call. Fixed; changing it changes the
// contract with the model.
const SystemInstruction = "You are a senior data analyst. " +
	"Answer strictly using the provided report context."

// DefaultTemperature favors deterministic, consistent answers over creative ones.
const DefaultTemperature = 0.2

// ErrEmptyQuestion is returned before any network I/O when the question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// Answerer sends (system instruction, context, question) to the service.
type Answerer struct {
	client      *ai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewAnswerer wires a client to a model. A non-positive temperature falls
// back to DefaultTemperature.
func NewAnswerer(client *ai.Client, model string, temperature float64, maxTokens int) *Answerer {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &Answerer{client: client, model: model, temperature: temperature, maxTokens: maxTokens}
}

// Ask submits the question against the report context and returns the
// service's first completion text verbatim. A blank question short-circuits
// with ErrEmptyQuestion; no request is made.
func (a *Answerer) Ask(ctx context.Context, reportContext, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	resp, err := a.client.Generate(ctx, ai.GenerateRequest{
		Model: a.model,
		Messages: []ai.Message{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: reportContext},
			{Role: "user", Content: question},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion service returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
