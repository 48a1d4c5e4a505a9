package slashcommands

import (
	"cndash/dashboard"
	"cndash/shared"
	"cndash/utils/discordutil"
	"context"

	"github.com/bwmarrin/discordgo"
)

type AidCommand struct {
	svc *dashboard.Service
}

func (AidCommand) Name() string { return "aid" }
func (AidCommand) Description() string {
	return "Recommend who in an alliance should send aid to whom."
}

func (AidCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		discordutil.IntegerOption("alliance", "The alliance ID to match aid within.", 1, 1e9, true),
		discordutil.BoolOption("cross", "Also pair spare slots with other alliances."),
	}
}

func (cmd AidCommand) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := discordutil.DeferReply(s, i.Interaction, false); err != nil {
		return err
	}

	opts := discordutil.OptionMap(i.ApplicationCommandData())
	allianceID := discordutil.IntOr(opts, "alliance", 0)

	res, err := cmd.svc.AidRecommendations(context.Background(), allianceID, discordutil.BoolOr(opts, "cross", false))
	if err != nil {
		discordutil.ReplyWithError(s, i.Interaction, err)
		return err
	}

	_, err = discordutil.EditReply(s, i.Interaction, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{shared.NewAidEmbed(allianceID, res)},
	})

	return err
}
