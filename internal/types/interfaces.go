// internal/types/interfaces.go
package types

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// ChannelDirectory resolves channel metadata. Implementations must be safe
// for concurrent use. A missing channel is reported as KindNotFound.
type ChannelDirectory interface {
	Get(ctx context.Context, guildID, channelID string) (*ChannelMetadata, error)
}

// Classifier classifies message text. Transient failures carry
// KindClassifierTransient, everything else KindClassifierPermanent.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// ThreadREST is the subset of the platform REST API used by the pipeline.
type ThreadREST interface {
	StartThreadFromMessage(ctx context.Context, channelID, messageID string, params ThreadParams) (*ThreadHandle, error)
	CreateMessage(ctx context.Context, channelID string, msg OutgoingMessage) error
	ModifyChannel(ctx context.Context, channelID string, edit ChannelEdit) error
}

// Responder delivers interaction responses.
type Responder interface {
	RespondInteraction(ctx context.Context, ic *InteractionContext, resp *discordgo.InteractionResponse) error
}
