package interactions

import (
	"context"
	"log/slog"

	"github.com/user/autothread/internal/types"
)

// Archiver handles the "Archive" control button.
type Archiver struct {
	rest      types.ThreadREST
	responder types.Responder
}

func NewArchiver(rest types.ThreadREST, responder types.Responder) *Archiver {
	return &Archiver{rest: rest, responder: responder}
}

// Archive archives the thread the button was pressed in.
func (a *Archiver) Archive(ctx context.Context, ic *types.InteractionContext) error {
	if err := Authorize(ic, ActionArchive, SubjectThread); err != nil {
		return err
	}

	archived := true
	if err := a.rest.ModifyChannel(ctx, ic.ChannelID, types.ChannelEdit{Archived: &archived}); err != nil {
		return types.E(types.KindMutationFailed, "archive thread", err)
	}
	slog.Info("thread archived", "channel_id", ic.ChannelID, "user_id", ic.UserID)

	if err := a.responder.RespondInteraction(ctx, ic, deferredUpdate()); err != nil {
		return types.E(types.KindMutationFailed, "acknowledge archive", err)
	}
	return nil
}
