package autothread

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/autothread/internal/types"
)

// Reason explains why a message was not eligible.
type Reason string

const (
	ReasonFeatureDisabled    Reason = "feature-disabled"
	ReasonNonDefaultType     Reason = "non-default-message-type"
	ReasonFromBot            Reason = "from-bot"
	ReasonNonTextChannel     Reason = "non-text-channel"
	ReasonChannelNotEligible Reason = "channel-not-eligible"
)

// Decision is the outcome of Filter.Evaluate. Channel is set only when
// Eligible is true.
type Decision struct {
	Eligible bool
	Reason   Reason
	Channel  *types.ChannelMetadata
}

func rejected(r Reason) Decision { return Decision{Reason: r} }

// Filter decides whether a message should get a thread.
type Filter struct {
	directory types.ChannelDirectory
	enabled   bool
	keyword   string
}

// NewFilter creates a Filter accepting text channels whose topic contains
// keyword.
func NewFilter(directory types.ChannelDirectory, enabled bool, keyword string) *Filter {
	return &Filter{directory: directory, enabled: enabled, keyword: keyword}
}

// Evaluate applies the rules in order and stops at the first failure. An
// error is returned only when the channel lookup fails for a reason other
// than the channel not existing.
func (f *Filter) Evaluate(ctx context.Context, msg *types.IncomingMessage) (Decision, error) {
	if !f.enabled {
		return rejected(ReasonFeatureDisabled), nil
	}
	if msg.Type != types.MessageTypeDefault {
		return rejected(ReasonNonDefaultType), nil
	}
	if msg.Author.IsBot {
		return rejected(ReasonFromBot), nil
	}

	channel, err := f.directory.Get(ctx, msg.GuildID, msg.ChannelID)
	if err != nil {
		if types.IsKind(err, types.KindNotFound) {
			return rejected(ReasonChannelNotEligible), nil
		}
		return Decision{}, fmt.Errorf("lookup channel %s: %w", msg.ChannelID, err)
	}
	if channel.Type != types.ChannelTypeText {
		return rejected(ReasonNonTextChannel), nil
	}
	if !strings.Contains(channel.Topic, f.keyword) {
		return rejected(ReasonChannelNotEligible), nil
	}
	return Decision{Eligible: true, Channel: channel}, nil
}
