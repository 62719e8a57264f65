package autothread

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/autothread/internal/types"
)

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
		return nil, types.E(types.KindNotFound, "get channel", fmt.Errorf("channel %s", channelID))
	}
	return ch, nil
}

// fakeClassifier returns errs in order, then result.
type fakeClassifier struct {
	mu     sync.Mutex
	errs   []error
	result *types.Classification
	calls  []time.Time
}

func (c *fakeClassifier) Classify(_ context.Context, _ string) (*types.Classification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, time.Now())
	if n := len(c.calls); n <= len(c.errs) {
		return nil, c.errs[n-1]
	}
	if c.result == nil {
		return nil, types.E(types.KindClassifierPermanent, "classify", errors.New("no result configured"))
	}
	out := *c.result
	return &out, nil
}

func (c *fakeClassifier) attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// hangingClassifier ignores its context and blocks until release is closed.
type hangingClassifier struct {
	release chan struct{}
	calls   atomic.Int32
}

func (c *hangingClassifier) Classify(context.Context, string) (*types.Classification, error) {
	c.calls.Add(1)
	<-c.release
	return &types.Classification{ShortTitle: "too late"}, nil
}

type postedMessage struct {
	ChannelID string
	Message   types.OutgoingMessage
}

type startedThread struct {
	ChannelID string
	MessageID string
	Params    types.ThreadParams
}

type fakeREST struct {
	mu          sync.Mutex
	threads     []startedThread
	posts       []postedMessage
	edits       map[string]types.ChannelEdit
	startErr    error
	failPostsIn map[string]error
	nextID      int
}

func (r *fakeREST) StartThreadFromMessage(_ context.Context, channelID, messageID string, params types.ThreadParams) (*types.ThreadHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.threads = append(r.threads, startedThread{ChannelID: channelID, MessageID: messageID, Params: params})
	r.nextID++
	return &types.ThreadHandle{ID: "thread-for-" + messageID}, nil
}

func (r *fakeREST) CreateMessage(_ context.Context, channelID string, msg types.OutgoingMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failPostsIn[channelID]; ok {
		return err
	}
	r.posts = append(r.posts, postedMessage{ChannelID: channelID, Message: msg})
	return nil
}

func (r *fakeREST) ModifyChannel(_ context.Context, channelID string, edit types.ChannelEdit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.edits == nil {
		r.edits = make(map[string]types.ChannelEdit)
	}
	r.edits[channelID] = edit
	return nil
}

func (r *fakeREST) postsIn(channelID string) []types.OutgoingMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.OutgoingMessage
	for _, p := range r.posts {
		if p.ChannelID == channelID {
			out = append(out, p.Message)
		}
	}
	return out
}

func textChannel(id, topic string) *types.ChannelMetadata {
	return &types.ChannelMetadata{ID: id, Name: "help", Topic: topic, Type: types.ChannelTypeText}
}

func userMessage(id, channelID, content string) *types.IncomingMessage {
	return &types.IncomingMessage{
		ID:        id,
		ChannelID: channelID,
		GuildID:   "guild-1",
		Type:      types.MessageTypeDefault,
		Author:    types.Author{ID: "author-" + id, Username: "gopher"},
		Content:   content,
	}
}

func transient() error {
	return types.E(types.KindClassifierTransient, "classify", errors.New("status 503"))
}

func fastRetry() *RetryPolicy {
	p := ClassifierRetryPolicy()
	p.Delay = time.Millisecond
	return p
}
