package slashcommands

import (
	"cndash/dashboard"
	"cndash/shared"
	"cndash/utils/discordutil"
	"context"

	"github.com/bwmarrin/discordgo"
)

type StaggerCommand struct {
	svc *dashboard.Service
}

func (StaggerCommand) Name() string { return "stagger" }
func (StaggerCommand) Description() string {
	return "Rank friendly attackers for every under-staggered nation of a target alliance."
}

func (StaggerCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		discordutil.IntegerOption("friendly", "Your alliance ID.", 1, 1e9, true),
		discordutil.IntegerOption("target", "The enemy alliance ID.", 1, 1e9, true),
		discordutil.BoolOption("hide_anarchy", "Hide target nations that are in anarchy."),
		discordutil.BoolOption("hide_peace_mode", "Leave out friendly nations in peace mode."),
		discordutil.BoolOption("include_full", "Include targets already at the defending war cap."),
		discordutil.BoolOption("only_positive", "Only list attackers at least as strong as the target."),
	}
}

func (cmd StaggerCommand) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := discordutil.DeferReply(s, i.Interaction, false); err != nil {
		return err
	}

	opts := discordutil.OptionMap(i.ApplicationCommandData())
	entries, err := cmd.svc.StaggerEligibility(context.Background(), dashboard.StaggerRequest{
		FriendlyAllianceID: discordutil.IntOr(opts, "friendly", 0),
		TargetAllianceID:   discordutil.IntOr(opts, "target", 0),
		HideAnarchy:        discordutil.BoolOr(opts, "hide_anarchy", false),
		HidePeaceMode:      discordutil.BoolOr(opts, "hide_peace_mode", false),
		IncludeFullTargets: discordutil.BoolOr(opts, "include_full", false),
		AssignOnlyPositive: discordutil.BoolOr(opts, "only_positive", false),
		Max:                shared.ATTACKERS_PER_PAGE,
	})
	if err != nil {
		discordutil.ReplyWithError(s, i.Interaction, err)
		return err
	}

	if len(entries) == 0 {
		_, err := discordutil.EditReply(s, i.Interaction, &discordgo.InteractionResponseData{
			Content: "Every target is already staggered or at its war cap.",
		})

		return err
	}

	// One defender per page.
	paginator := discordutil.NewInteractionPaginator(s, i.Interaction, len(entries), 1)
	paginator.PageFunc = func(curPage int, data *discordgo.InteractionResponseData) {
		e := entries[curPage]
		data.Embeds = []*discordgo.MessageEmbed{
			shared.NewStaggerPageEmbed(e, e.EligibleAttackers, curPage, paginator.TotalPages()),
		}
	}

	return paginator.Start()
}
