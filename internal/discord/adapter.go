// Package discord connects the pipeline to Discord: the gateway session,
// event decoding, REST calls and the channel directory cache.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/user/autothread/internal/types"
)

// Dispatcher receives decoded events. *gateway.Gateway implements it.
type Dispatcher interface {
	HandleMessage(msg *types.IncomingMessage) error
	HandleInteraction(ic *types.InteractionContext) error
}

// Adapter bridges a Discord gateway session to a Dispatcher.
type Adapter struct {
	session   *discordgo.Session
	rest      *REST
	directory *Directory
	removers  []func()
}

// New creates an adapter for the bot token. cacheSize bounds the channel
// directory.
func New(token string, cacheSize int) (*Adapter, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	rest := NewREST(session)
	directory, err := NewDirectory(rest.FetchChannel, cacheSize)
	if err != nil {
		return nil, err
	}
	return &Adapter{session: session, rest: rest, directory: directory}, nil
}

func (a *Adapter) REST() *REST { return a.rest }

func (a *Adapter) Directory() *Directory { return a.directory }

// Start subscribes the dispatcher and opens the gateway connection.
func (a *Adapter) Start(d Dispatcher) error {
	a.removers = append(a.removers,
		a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			slog.Info("discord connected", "user", r.User.Username, "guilds", len(r.Guilds))
		}),
		a.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
			a.onMessage(d, m)
		}),
		a.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			a.onInteraction(d, i)
		}),
		a.session.AddHandler(func(_ *discordgo.Session, e *discordgo.ChannelUpdate) {
			a.invalidate(e.Channel)
		}),
		a.session.AddHandler(func(_ *discordgo.Session, e *discordgo.ChannelDelete) {
			a.invalidate(e.Channel)
		}),
		a.session.AddHandler(func(_ *discordgo.Session, e *discordgo.ThreadUpdate) {
			a.invalidate(e.Channel)
		}),
		a.session.AddHandler(func(_ *discordgo.Session, e *discordgo.ThreadDelete) {
			a.invalidate(e.Channel)
		}),
	)

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}

// Run starts the adapter and blocks until ctx is done.
func (a *Adapter) Run(ctx context.Context, d Dispatcher) error {
	if err := a.Start(d); err != nil {
		return err
	}
	<-ctx.Done()
	return a.Close()
}

// Close unsubscribes all handlers and closes the gateway connection.
func (a *Adapter) Close() error {
	for _, remove := range a.removers {
		remove()
	}
	a.removers = nil
	return a.session.Close()
}

func (a *Adapter) onMessage(d Dispatcher, m *discordgo.MessageCreate) {
	msg, err := DecodeMessage(m)
	if err != nil {
		slog.Debug("dropping message event", "error", err)
		return
	}
	if err := d.HandleMessage(msg); err != nil {
		slog.Error("dispatch message", "message_id", msg.ID, "error", err)
	}
}

func (a *Adapter) onInteraction(d Dispatcher, i *discordgo.InteractionCreate) {
	ic, err := DecodeInteraction(i)
	if err != nil {
		slog.Debug("dropping interaction event", "error", err)
		return
	}
	if err := d.HandleInteraction(ic); err != nil {
		slog.Error("dispatch interaction", "interaction_id", ic.InteractionID, "error", err)
	}
}

func (a *Adapter) invalidate(ch *discordgo.Channel) {
	if ch == nil {
		return
	}
	a.directory.Invalidate(ch.ID)
	slog.Debug("channel cache invalidated", "channel_id", ch.ID)
}
