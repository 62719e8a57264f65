package autothread

import (
	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

// FenceHint is posted when a message contains code without code fences.
const FenceHint = "Looks like your message contains code that isn't wrapped in a code block. " +
	"Wrapping code in a code block keeps the formatting intact and adds syntax highlighting, " +
	"which makes it much easier for others to help.\n\n" +
	"Start and end the block with three backticks, and put the language name after the opening ones:\n" +
	"```\n" +
	fenceExample +
	"```"

// fenceExample shows the fence syntax inside a real code block. Zero-width
// spaces between the backticks keep them from closing the outer block.
const fenceExample = "`\u200b`\u200b`go\n" +
	"func main() {\n" +
	"\tfmt.Println(\"hello\")\n" +
	"}\n" +
	"`\u200b`\u200b`\n"

// ControlsMessage builds the control panel posted into every new thread: one
// action row with [Edit title, Archive], both tagged with the author id.
func ControlsMessage(authorID string) types.OutgoingMessage {
	return types.OutgoingMessage{
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Edit title",
						Style:    discordgo.PrimaryButton,
						CustomID: types.EditButtonID(authorID),
					},
					discordgo.Button{
						Label:    "Archive",
						Style:    discordgo.DangerButton,
						CustomID: types.ArchiveButtonID(authorID),
					},
				},
			},
		},
	}
}

// HintMessage wraps FenceHint for posting.
func HintMessage() types.OutgoingMessage {
	return types.OutgoingMessage{Content: FenceHint}
}
