package interactions

import (
	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

// Actions and subjects used in denial messages.
const (
	ActionEdit    = "edit"
	ActionArchive = "archive"
	SubjectThread = "thread"
)

// Authorize permits the interaction when the invoking user is the author
// embedded in the custom id, or holds the manage channels permission.
// Otherwise it returns an *types.AuthorizationError.
func Authorize(ic *types.InteractionContext, action, subject string) error {
	if authorID, ok := types.AuthorFromCustomID(ic.CustomID); ok && authorID != "" && authorID == ic.UserID {
		return nil
	}
	if ic.Permissions&discordgo.PermissionManageChannels != 0 {
		return nil
	}
	return &types.AuthorizationError{Action: action, Subject: subject}
}
