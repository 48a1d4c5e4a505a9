package bot

import (
	"cndash/bot/events"
	"cndash/bot/slashcommands"
	"context"
	"fmt"

	dgo "github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var guildIntents = dgo.IntentGuilds | dgo.IntentGuildMessages

// Connects to Discord and serves slash commands until ctx is cancelled.
func Run(ctx context.Context, botToken string, deps slashcommands.Deps) error {
	// Initialize a Discord Session
	s, err := dgo.New("Bot " + botToken)
	if err != nil {
		return fmt.Errorf("cannot create Discord session: %w", err)
	}

	// Never run handlers synchronously, always run them in a goroutine.
	s.SyncEvents = false

	registry := slashcommands.Default(deps)

	// Register funcs that handle specific gateway events.
	// https://discord.com/developers/docs/events/gateway-events#receive-events
	s.AddHandler(events.OnReady(registry))
	s.AddHandler(events.OnInteractionCreateApplicationCommand(registry, deps.KV)) // Slash cmds

	s.Identify.Intents = guildIntents

	log.Info("Establishing connection to Discord..")

	// Open WS connection to Discord.
	if err := s.Open(); err != nil {
		return fmt.Errorf("cannot open Discord session: %w", err)
	}

	<-ctx.Done()
	log.Info("Shutting down bot")

	if err := s.Close(); err != nil {
		return fmt.Errorf("error closing Discord session: %w", err)
	}

	return nil
}
