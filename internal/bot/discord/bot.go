// Package discord adapts the bot's commands to the Discord gateway. It
// contains no business logic: command semantics live in internal/bot/command
// and internal/bot/gallery.
package discord

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"glimpse/internal/bot/command"

	"github.com/bwmarrin/discordgo"
)

// Bot wires a discordgo session to the command layer.
type Bot struct {
	session    *discordgo.Session
	commands   *command.Commands
	galleries  *sessionRegistry
	httpClient *http.Client
}

// New creates the bot. The session is configured but not yet connected.
func New(token string, cmds *command.Commands) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsAll
	session.Identify.Presence = discordgo.GatewayStatusUpdate{
		Status: "dnd",
		Game: discordgo.Activity{
			Name: "Starting...",
			Type: discordgo.ActivityTypeWatching,
		},
	}

	b := &Bot{
		session:    session,
		commands:   cmds,
		galleries:  newSessionRegistry(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("bot is ready", "user", r.User.Username)

	synced, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", applicationCommands)
	if err != nil {
		slog.Error("failed to sync commands", "error", err)
	} else {
		slog.Info("synced commands", "count", len(synced))
	}

	if err := s.UpdateWatchStatus(0, "you"); err != nil {
		slog.Error("failed to update presence", "error", err)
	}
}
