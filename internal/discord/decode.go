package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

// DecodeMessage converts a message-create event into an IncomingMessage.
// Events missing the fields the pipeline relies on fail with
// KindValidationFailed.
func DecodeMessage(m *discordgo.MessageCreate) (*types.IncomingMessage, error) {
	if m == nil || m.Message == nil {
		return nil, types.E(types.KindValidationFailed, "decode message", errors.New("empty event"))
	}
	if m.ID == "" || m.ChannelID == "" {
		return nil, types.E(types.KindValidationFailed, "decode message", errors.New("missing message or channel id"))
	}
	if m.Author == nil || m.Author.ID == "" {
		return nil, types.E(types.KindValidationFailed, "decode message", errors.New("missing author"))
	}

	msg := &types.IncomingMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Type:      types.MessageType(m.Type),
		Author: types.Author{
			ID:       m.Author.ID,
			Username: m.Author.Username,
			IsBot:    m.Author.Bot,
		},
		Content: m.Content,
	}
	if m.Member != nil {
		msg.MemberNickname = m.Member.Nick
	}
	return msg, nil
}

// DecodeInteraction converts a component or modal-submit interaction into an
// InteractionContext. Other interaction types are rejected.
func DecodeInteraction(i *discordgo.InteractionCreate) (*types.InteractionContext, error) {
	if i == nil || i.Interaction == nil {
		return nil, types.E(types.KindValidationFailed, "decode interaction", errors.New("empty event"))
	}
	if i.ID == "" || i.Token == "" || i.ChannelID == "" {
		return nil, types.E(types.KindValidationFailed, "decode interaction", errors.New("missing id, token or channel"))
	}

	ic := &types.InteractionContext{
		InteractionID: i.ID,
		Token:         i.Token,
		ChannelID:     i.ChannelID,
		GuildID:       i.GuildID,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		ic.UserID = i.Member.User.ID
		ic.Permissions = i.Member.Permissions
	case i.User != nil:
		ic.UserID = i.User.ID
	default:
		return nil, types.E(types.KindValidationFailed, "decode interaction", errors.New("missing invoking user"))
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		ic.Kind = types.InteractionComponent
		ic.CustomID = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		ic.Kind = types.InteractionModalSubmit
		ic.CustomID = data.CustomID
		ic.ModalValues = modalValues(data.Components)
	default:
		return nil, types.E(types.KindValidationFailed, "decode interaction", fmt.Errorf("unsupported interaction type %d", i.Type))
	}
	return ic, nil
}

// modalValues flattens the text inputs of a submitted modal by custom id.
func modalValues(components []discordgo.MessageComponent) map[string]string {
	values := make(map[string]string)
	var walk func([]discordgo.MessageComponent)
	walk = func(cs []discordgo.MessageComponent) {
		for _, c := range cs {
			switch v := c.(type) {
			case *discordgo.ActionsRow:
				walk(v.Components)
			case discordgo.ActionsRow:
				walk(v.Components)
			case *discordgo.TextInput:
				values[v.CustomID] = v.Value
			case discordgo.TextInput:
				values[v.CustomID] = v.Value
			}
		}
	}
	walk(components)
	return values
}
