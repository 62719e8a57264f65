// Package autothread opens a discussion thread for every eligible message
// posted in a channel whose topic carries the configured keyword.
package autothread

import (
	"context"
	"log/slog"

	"github.com/user/autothread/internal/types"
)

// AutoArchiveMinutes is the inactivity period after which the platform
// archives a created thread.
const AutoArchiveMinutes = 1440

// Opener runs the per-message pipeline: classify, create the thread, post
// the controls, then the optional code fence hint. Steps run strictly in
// that order.
type Opener struct {
	filter     *Filter
	classifier types.Classifier
	rest       types.ThreadREST
	retry      *RetryPolicy
}

// Option configures an Opener.
type Option func(*Opener)

// WithRetryPolicy overrides the classifier retry policy.
func WithRetryPolicy(p *RetryPolicy) Option {
	return func(o *Opener) { o.retry = p }
}

// NewOpener creates an Opener.
func NewOpener(filter *Filter, classifier types.Classifier, rest types.ThreadREST, opts ...Option) *Opener {
	o := &Opener{
		filter:     filter,
		classifier: classifier,
		rest:       rest,
		retry:      ClassifierRetryPolicy(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleMessage is the message-create entry point. Ineligible messages are
// dropped silently.
func (o *Opener) HandleMessage(ctx context.Context, msg *types.IncomingMessage) error {
	decision, err := o.filter.Evaluate(ctx, msg)
	if err != nil {
		return err
	}
	if !decision.Eligible {
		slog.Debug("message not eligible", "message_id", msg.ID, "channel_id", msg.ChannelID, "reason", string(decision.Reason))
		return nil
	}

	thread, err := o.Open(ctx, msg)
	if err != nil {
		return err
	}
	slog.Info("thread opened", "thread_id", thread.ID, "message_id", msg.ID, "author_id", thread.AuthorID)
	return nil
}

// Open creates the thread for an already eligible message.
func (o *Opener) Open(ctx context.Context, msg *types.IncomingMessage) (*types.ThreadHandle, error) {
	classification := o.Classify(ctx, msg)

	thread, err := o.rest.StartThreadFromMessage(ctx, msg.ChannelID, msg.ID, types.ThreadParams{
		Name:                       ThreadName(classification.ShortTitle),
		AutoArchiveDurationMinutes: AutoArchiveMinutes,
	})
	if err != nil {
		return nil, types.E(types.KindMutationFailed, "start thread", err)
	}
	thread.ParentMessageID = msg.ID
	thread.AuthorID = msg.Author.ID

	if err := o.rest.CreateMessage(ctx, thread.ID, ControlsMessage(msg.Author.ID)); err != nil {
		return thread, types.E(types.KindMutationFailed, "post controls", err)
	}

	if classification.NeedsFenceHint() {
		if err := o.rest.CreateMessage(ctx, thread.ID, HintMessage()); err != nil {
			return thread, types.E(types.KindMutationFailed, "post hint", err)
		}
	}
	return thread, nil
}

// Classify returns the classifier's result, or the fallback classification
// when every attempt failed or a failure was not retryable. It never fails.
func (o *Opener) Classify(ctx context.Context, msg *types.IncomingMessage) types.Classification {
	return ClassifyOrFallback(ctx, o.classifier, o.retry, msg)
}

// ClassifyOrFallback runs c under policy and falls back to
// FallbackClassification once the policy gives up.
func ClassifyOrFallback(ctx context.Context, c types.Classifier, policy *RetryPolicy, msg *types.IncomingMessage) types.Classification {
	var result *types.Classification
	attempt := 0
	err := policy.Execute(ctx, func() error {
		attempt++
		var out *types.Classification
		err := policy.Attempt(ctx, func(ctx context.Context) error {
			res, err := c.Classify(ctx, msg.Content)
			if err == nil {
				out = res
			}
			return err
		})
		if err != nil {
			slog.Debug("classification attempt failed", "message_id", msg.ID, "attempt", attempt, "kind", types.KindOf(err).String(), "error", err)
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		slog.Warn("classification unavailable, using fallback title", "message_id", msg.ID, "attempts", attempt, "error", err)
		return FallbackClassification(msg)
	}
	return *result
}
