package events

import (
	"cndash/bot/slashcommands"
	"cndash/database"
	"cndash/utils/discordutil"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

// Returns the handler that dispatches slash commands from the registry and records who ran what in kv.
func OnInteractionCreateApplicationCommand(registry *slashcommands.Registry, kv *badger.DB) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("handler OnInteractionCreateApplicationCommand recovered from a panic.\n%v\n%s", err, debug.Stack())
				discordutil.ReplyWithPanicError(s, i.Interaction, err)
			}
		}()

		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		author := discordutil.GetInteractionAuthor(i.Interaction)

		cmdName := i.ApplicationCommandData().Name
		cmdType := i.ApplicationCommandData().CommandType
		cmd, ok := registry.Get(cmdName)
		if !ok {
			discordutil.ReplyWithError(s, i.Interaction, fmt.Sprintf("unknown command /%s", cmdName))
			return
		}

		start := time.Now()
		err := cmd.Execute(s, i)
		elapsed := time.Since(start)

		success := err == nil
		fields := log.Fields{"user": author.Username, "command": cmdName, "took": elapsed}
		if success {
			log.WithFields(fields).Info("executed command")
		} else {
			log.WithFields(fields).Warnf("failed to execute command: %v", err)
		}

		if cmdName == "usage" || kv == nil {
			return
		}

		e := database.UsageCommandEntry{
			Type:      uint8(cmdType),
			Timestamp: time.Now().Unix(),
			Success:   success,
		}

		if err := database.UpdateUserUsage(kv, author.ID, cmdName, e); err != nil {
			log.WithField("user", author.ID).Errorf("error updating usage for user: %v", err)
		}
	}
}
