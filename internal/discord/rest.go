package discord

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

// REST implements types.ThreadREST and types.Responder on a discordgo
// session.
type REST struct {
	session *discordgo.Session
}

func NewREST(session *discordgo.Session) *REST {
	return &REST{session: session}
}

var (
	_ types.ThreadREST = (*REST)(nil)
	_ types.Responder  = (*REST)(nil)
)

func (r *REST) StartThreadFromMessage(ctx context.Context, channelID, messageID string, params types.ThreadParams) (*types.ThreadHandle, error) {
	ch, err := r.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                params.Name,
		AutoArchiveDuration: params.AutoArchiveDurationMinutes,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &types.ThreadHandle{ID: ch.ID}, nil
}

func (r *REST) CreateMessage(ctx context.Context, channelID string, msg types.OutgoingMessage) error {
	_, err := r.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Components: msg.Components,
	}, discordgo.WithContext(ctx))
	return err
}

// ModifyChannel sends a PATCH containing only the fields set in edit. The
// payload is built by hand because discordgo's ChannelEdit drops an empty
// name.
func (r *REST) ModifyChannel(ctx context.Context, channelID string, edit types.ChannelEdit) error {
	body := make(map[string]any, 2)
	if edit.Name != nil {
		body["name"] = *edit.Name
	}
	if edit.Archived != nil {
		body["archived"] = *edit.Archived
	}
	endpoint := discordgo.EndpointChannel(channelID)
	_, err := r.session.RequestWithBucketID(http.MethodPatch, endpoint, body, endpoint, discordgo.WithContext(ctx))
	return err
}

func (r *REST) RespondInteraction(ctx context.Context, ic *types.InteractionContext, resp *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(&discordgo.Interaction{
		ID:    ic.InteractionID,
		Token: ic.Token,
	}, resp, discordgo.WithContext(ctx))
}

// FetchChannel loads channel metadata. A 404 is reported as KindNotFound.
func (r *REST) FetchChannel(ctx context.Context, channelID string) (*types.ChannelMetadata, error) {
	ch, err := r.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, types.E(types.KindNotFound, "fetch channel", err)
		}
		return nil, err
	}
	return channelMetadata(ch), nil
}

func channelMetadata(ch *discordgo.Channel) *types.ChannelMetadata {
	kind := types.ChannelType(ch.Type)
	if ch.Type == discordgo.ChannelTypeGuildText {
		kind = types.ChannelTypeText
	}
	return &types.ChannelMetadata{
		ID:    ch.ID,
		Name:  ch.Name,
		Topic: ch.Topic,
		Type:  kind,
	}
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
