// Package classifier implements types.Classifier on top of an LLM provider.
package classifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/user/autothread/internal/types"
	"github.com/user/autothread/pkg/llm"
)

const op = "classify"

// maxOutputTokens bounds the model reply; the object is tiny.
const maxOutputTokens = 200

// Classifier asks an LLM for a short title and code-formatting flags.
type Classifier struct {
	provider llm.Provider
	budget   *budget
}

// New creates a Classifier. model selects the tokenizer used to trim input
// to maxInputTokens.
func New(provider llm.Provider, model string, maxInputTokens int) (*Classifier, error) {
	b, err := newBudget(model, maxInputTokens)
	if err != nil {
		return nil, err
	}
	return &Classifier{provider: provider, budget: b}, nil
}

// Classify returns the classification of text. Failures are kinded:
// KindClassifierTransient when the provider may recover on retry,
// KindClassifierPermanent otherwise.
func (c *Classifier) Classify(ctx context.Context, text string) (*types.Classification, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: c.budget.trim(text)},
	}

	resp, err := c.provider.Complete(ctx, messages, &llm.Options{JSONObject: true, MaxTokens: maxOutputTokens})
	if err != nil {
		return nil, types.E(kindForProviderError(err), op, err)
	}

	result, err := parseClassification(resp.Content)
	if err != nil {
		slog.Debug("unusable classifier output", "content", resp.Content, "error", err)
		return nil, types.E(types.KindClassifierPermanent, op, err)
	}
	return result, nil
}

// kindForProviderError treats transport failures and retryable API statuses
// as transient. Malformed bodies and a canceled context are permanent.
func kindForProviderError(err error) types.Kind {
	if errors.Is(err, context.Canceled) || errors.Is(err, llm.ErrMalformedResponse) {
		return types.KindClassifierPermanent
	}
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Temporary() {
			return types.KindClassifierTransient
		}
		return types.KindClassifierPermanent
	}
	return types.KindClassifierTransient
}

var _ types.Classifier = (*Classifier)(nil)
