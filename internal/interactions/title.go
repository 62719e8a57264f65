package interactions

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/errgroup"

	"github.com/user/autothread/internal/autothread"
	"github.com/user/autothread/internal/types"
)

// TitleEditor implements the two steps of renaming a thread: opening the
// modal from the "Edit title" button and applying the submitted title.
type TitleEditor struct {
	directory types.ChannelDirectory
	rest      types.ThreadREST
	responder types.Responder
}

func NewTitleEditor(directory types.ChannelDirectory, rest types.ThreadREST, responder types.Responder) *TitleEditor {
	return &TitleEditor{directory: directory, rest: rest, responder: responder}
}

// OpenModal answers an edit button press with a modal pre-filled with the
// thread's current name.
func (e *TitleEditor) OpenModal(ctx context.Context, ic *types.InteractionContext) error {
	if err := Authorize(ic, ActionEdit, SubjectThread); err != nil {
		return err
	}

	channel, err := e.directory.Get(ctx, ic.GuildID, ic.ChannelID)
	if err != nil {
		return err
	}

	if err := e.responder.RespondInteraction(ctx, ic, EditModal(channel.Name)); err != nil {
		return types.E(types.KindMutationFailed, "open edit modal", err)
	}
	return nil
}

// AcceptSubmission renames the thread to the submitted title. The title is
// not validated beyond the modal's own length limit; an empty title is sent
// as is.
func (e *TitleEditor) AcceptSubmission(ctx context.Context, ic *types.InteractionContext) error {
	var (
		title   string
		oldName string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		title = ic.ModalValues[types.TitleFieldID]
		return nil
	})
	g.Go(func() error {
		// Only used for logging, so a failed lookup is not fatal.
		channel, err := e.directory.Get(gctx, ic.GuildID, ic.ChannelID)
		if err != nil {
			slog.Debug("channel lookup before rename failed", "channel_id", ic.ChannelID, "error", err)
			return nil
		}
		oldName = channel.Name
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := e.rest.ModifyChannel(ctx, ic.ChannelID, types.ChannelEdit{Name: &title}); err != nil {
		return types.E(types.KindMutationFailed, "rename thread", err)
	}
	slog.Info("thread renamed", "channel_id", ic.ChannelID, "user_id", ic.UserID, "old_name", oldName, "new_name", title)

	if err := e.responder.RespondInteraction(ctx, ic, deferredUpdate()); err != nil {
		return types.E(types.KindMutationFailed, "acknowledge rename", err)
	}
	return nil
}

// EditModal builds the title edit form.
func EditModal(current string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: types.EditModalID,
			Title:    "Edit thread title",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  types.TitleFieldID,
							Label:     "Title",
							Style:     discordgo.TextInputShort,
							Value:     current,
							MaxLength: autothread.MaxThreadNameLength,
						},
					},
				},
			},
		},
	}
}
