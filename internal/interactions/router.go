// Package interactions handles the thread control buttons and the title
// edit modal.
package interactions

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

// Handler processes one interaction. Returning a *types.AuthorizationError
// makes the router answer with an ephemeral denial.
type Handler func(ctx context.Context, ic *types.InteractionContext) error

type prefixRoute struct {
	prefix  string
	handler Handler
}

// Router dispatches component interactions by custom id prefix and modal
// submissions by exact id.
type Router struct {
	mu         sync.RWMutex
	components []prefixRoute
	modals     map[string]Handler
	responder  types.Responder
}

// NewRouter creates an empty router. responder delivers denial messages.
func NewRouter(responder types.Responder) *Router {
	return &Router{
		modals:    make(map[string]Handler),
		responder: responder,
	}
}

// Component registers h for component custom ids starting with prefix.
// Routes are matched in registration order.
func (r *Router) Component(prefix string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append(r.components, prefixRoute{prefix: prefix, handler: h})
}

// Modal registers h for modal submissions with the given id.
func (r *Router) Modal(id string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modals[id] = h
}

func (r *Router) lookup(ic *types.InteractionContext) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch ic.Kind {
	case types.InteractionComponent:
		for _, route := range r.components {
			if strings.HasPrefix(ic.CustomID, route.prefix) {
				return route.handler
			}
		}
	case types.InteractionModalSubmit:
		return r.modals[ic.CustomID]
	}
	return nil
}

// HandleInteraction runs the matching handler. Authorization denials are
// answered with an ephemeral message; any other failure is logged. It only
// returns an error when the denial itself cannot be delivered.
func (r *Router) HandleInteraction(ctx context.Context, ic *types.InteractionContext) error {
	h := r.lookup(ic)
	if h == nil {
		slog.Debug("no interaction handler", "kind", ic.Kind.String(), "custom_id", ic.CustomID)
		return nil
	}

	err := h(ctx, ic)
	if err == nil {
		return nil
	}

	var denied *types.AuthorizationError
	if errors.As(err, &denied) {
		slog.Debug("interaction denied", "custom_id", ic.CustomID, "user_id", ic.UserID, "action", denied.Action)
		return r.responder.RespondInteraction(ctx, ic, DenialResponse(denied))
	}

	slog.Error("interaction failed",
		"kind", ic.Kind.String(),
		"custom_id", ic.CustomID,
		"channel_id", ic.ChannelID,
		"error_kind", types.KindOf(err).String(),
		"error", err,
	)
	return nil
}

// DenialResponse is the ephemeral reply sent for a denied interaction.
func DenialResponse(denied *types.AuthorizationError) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: denied.Error(),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

func deferredUpdate() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
}
