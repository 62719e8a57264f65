package interactions

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

type fakeResponder struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	err       error
}

func (r *fakeResponder) RespondInteraction(_ context.Context, _ *types.InteractionContext, resp *discordgo.InteractionResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.responses = append(r.responses, resp)
	return nil
}

type fakeREST struct {
	mu    sync.Mutex
	edits map[string]types.ChannelEdit
	err   error
}

func (r *fakeREST) StartThreadFromMessage(context.Context, string, string, types.ThreadParams) (*types.ThreadHandle, error) {
	return nil, errors.New("not used")
}

func (r *fakeREST) CreateMessage(context.Context, string, types.OutgoingMessage) error {
	return errors.New("not used")
}

func (r *fakeREST) ModifyChannel(_ context.Context, channelID string, edit types.ChannelEdit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.edits == nil {
		r.edits = make(map[string]types.ChannelEdit)
	}
	r.edits[channelID] = edit
	return nil
}

type fakeDirectory struct {
	channels map[string]*types.ChannelMetadata
	err      error
}

func (d *fakeDirectory) Get(_ context.Context, _, channelID string) (*types.ChannelMetadata, error) {
	if d.err != nil {
		return nil, d.err
	}
	ch, ok := d.channels[channelID]
	if !ok {
		return nil, types.E(types.KindNotFound, "get channel", errors.New(channelID))
	}
	return ch, nil
}

func buttonPress(customID, userID string, perms int64) *types.InteractionContext {
	return &types.InteractionContext{
		InteractionID: "i-1",
		Token:         "tok",
		Kind:          types.InteractionComponent,
		CustomID:      customID,
		UserID:        userID,
		Permissions:   perms,
		ChannelID:     "thread-1",
		GuildID:       "guild-1",
	}
}

func modalSubmit(userID, title string) *types.InteractionContext {
	return &types.InteractionContext{
		InteractionID: "i-2",
		Token:         "tok",
		Kind:          types.InteractionModalSubmit,
		CustomID:      types.EditModalID,
		UserID:        userID,
		ChannelID:     "thread-1",
		GuildID:       "guild-1",
		ModalValues:   map[string]string{types.TitleFieldID: title},
	}
}

type harness struct {
	router    *Router
	rest      *fakeREST
	responder *fakeResponder
	directory *fakeDirectory
}

func newHarness() *harness {
	h := &harness{
		rest:      &fakeREST{},
		responder: &fakeResponder{},
		directory: &fakeDirectory{channels: map[string]*types.ChannelMetadata{
			"thread-1": {ID: "thread-1", Name: "Closing channels twice", Type: types.ChannelType(11)},
		}},
	}
	h.router = NewRouter(h.responder)
	Register(h.router,
		NewTitleEditor(h.directory, h.rest, h.responder),
		NewArchiver(h.rest, h.responder),
	)
	return h
}
