package slashcommands

import (
	"cndash/database"
	"cndash/shared"
	"cndash/utils/discordutil"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dgraph-io/badger/v4"
)

type UsageCommand struct {
	kv *badger.DB
}

func (UsageCommand) Name() string { return "usage" }
func (UsageCommand) Description() string {
	return "Get info on your personal bot usage."
}

func (UsageCommand) Options() AppCommandOpts {
	return AppCommandOpts{}
}

func (cmd UsageCommand) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	author := discordutil.GetInteractionAuthor(i.Interaction)

	usage, err := database.GetUserUsage(cmd.kv, author.ID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return err
		}

		return discordutil.SendReply(s, i.Interaction, &discordgo.InteractionResponseData{
			Flags:   discordgo.MessageFlagsEphemeral,
			Content: "No usage recorded.",
		})
	}

	return discordutil.SendReply(s, i.Interaction, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{shared.NewUsageEmbed(author.Username, *usage, time.Now())},
	})
}
