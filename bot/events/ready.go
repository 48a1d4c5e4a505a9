package events

import (
	"cndash/bot/slashcommands"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// TODO: Registering on every ready counts against the daily command-create limit.
// Move the sync into a standalone deploy step that only runs when a command definition changes.
func OnReady(registry *slashcommands.Registry) func(*discordgo.Session, *discordgo.Ready) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("Logged in as: %s", s.State.User.Username)

		if err := registry.SyncWithRemote(s); err != nil {
			log.Error(err)
		}
	}
}
