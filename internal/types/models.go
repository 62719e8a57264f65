// internal/types/models.go
package types

import "github.com/bwmarrin/discordgo"

// MessageType mirrors the platform message type. Only MessageTypeDefault is
// eligible for thread creation.
type MessageType int

const MessageTypeDefault MessageType = 0

// ChannelType mirrors the platform channel type.
type ChannelType int

const ChannelTypeText ChannelType = 0

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsBot    bool   `json:"is_bot"`
}

// IncomingMessage is a decoded message-create event.
type IncomingMessage struct {
	ID             string      `json:"id"`
	ChannelID      string      `json:"channel_id"`
	GuildID        string      `json:"guild_id"`
	Type           MessageType `json:"type"`
	Author         Author      `json:"author"`
	MemberNickname string      `json:"member_nickname,omitempty"`
	Content        string      `json:"content"`
}

// DisplayName is the member nickname when set, otherwise the username.
func (m *IncomingMessage) DisplayName() string {
	if m.MemberNickname != "" {
		return m.MemberNickname
	}
	return m.Author.Username
}

type ChannelMetadata struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Topic string      `json:"topic"`
	Type  ChannelType `json:"type"`
}

type Classification struct {
	ShortTitle      string `json:"short_title"`
	HasCodeExamples bool   `json:"has_code_examples"`
	HasCodeFences   bool   `json:"has_code_fences"`
}

// NeedsFenceHint reports whether code was mentioned without fencing.
func (c Classification) NeedsFenceHint() bool {
	return c.HasCodeExamples && !c.HasCodeFences
}

type ThreadHandle struct {
	ID              string `json:"id"`
	ParentMessageID string `json:"parent_message_id"`
	AuthorID        string `json:"author_id"`
}

type ThreadParams struct {
	Name                       string
	AutoArchiveDurationMinutes int
}

type OutgoingMessage struct {
	Content    string
	Components []discordgo.MessageComponent
}

// ChannelEdit is a partial channel update. Nil fields are left untouched.
type ChannelEdit struct {
	Name     *string
	Archived *bool
}

type InteractionKind int

const (
	InteractionComponent InteractionKind = iota + 1
	InteractionModalSubmit
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionComponent:
		return "component"
	case InteractionModalSubmit:
		return "modal_submit"
	default:
		return "unknown"
	}
}

// InteractionContext is a decoded interaction event. Token is needed to
// respond and is never logged.
type InteractionContext struct {
	InteractionID string
	Token         string
	Kind          InteractionKind
	CustomID      string
	UserID        string
	Permissions   int64
	ChannelID     string
	GuildID       string
	ModalValues   map[string]string
}
