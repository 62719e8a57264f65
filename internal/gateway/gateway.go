package gateway

import (
	"context"

	"github.com/user/autothread/internal/types"
)

// MessageHandler processes one decoded message-create event.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *types.IncomingMessage) error
}

// InteractionHandler processes one decoded interaction event.
type InteractionHandler interface {
	HandleInteraction(ctx context.Context, ic *types.InteractionContext) error
}

// Gateway turns inbound events into isolated tasks on the Queue.
type Gateway struct {
	Queue        *Queue
	messages     MessageHandler
	interactions InteractionHandler
}

// New creates a Gateway with the given concurrency limit for simultaneous
// task processing.
func New(messages MessageHandler, interactions InteractionHandler, maxConcurrent ...int64) *Gateway {
	var concurrency int64 = 8
	if len(maxConcurrent) > 0 && maxConcurrent[0] > 0 {
		concurrency = maxConcurrent[0]
	}
	return &Gateway{
		Queue:        NewQueue(concurrency),
		messages:     messages,
		interactions: interactions,
	}
}

// Start starts the internal queue.
func (g *Gateway) Start(ctx context.Context) {
	g.Queue.Start(ctx)
}

// Stop drains in-flight tasks.
func (g *Gateway) Stop() {
	g.Queue.Stop()
}

// HandleMessage enqueues msg for the message handler.
func (g *Gateway) HandleMessage(msg *types.IncomingMessage) error {
	task := NewTask(TaskKindMessage, func(ctx context.Context) error {
		return g.messages.HandleMessage(ctx, msg)
	}, "message_id", msg.ID, "channel_id", msg.ChannelID)
	return g.Queue.Enqueue(task)
}

// HandleInteraction enqueues ic for the interaction handler.
func (g *Gateway) HandleInteraction(ic *types.InteractionContext) error {
	task := NewTask(TaskKindInteraction, func(ctx context.Context) error {
		return g.interactions.HandleInteraction(ctx, ic)
	}, "interaction_id", ic.InteractionID, "custom_id", ic.CustomID, "channel_id", ic.ChannelID)
	return g.Queue.Enqueue(task)
}
