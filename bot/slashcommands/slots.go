package slashcommands

import (
	"cndash/dashboard"
	"cndash/shared"
	"cndash/structs"
	"cndash/utils/discordutil"
	"context"

	"github.com/bwmarrin/discordgo"
)

type SlotsCommand struct {
	svc *dashboard.Service
}

func (SlotsCommand) Name() string { return "slots" }
func (SlotsCommand) Description() string {
	return "Set how a nation's aid slots are split between sending and receiving."
}

func (SlotsCommand) Options() AppCommandOpts {
	return AppCommandOpts{
		discordutil.IntegerOption("nation", "The nation ID to configure.", 1, 1e9, true),
		discordutil.IntegerOption("send_cash", "Slots for sending cash.", 0, structs.DRA_AID_SLOTS, false),
		discordutil.IntegerOption("send_tech", "Slots for sending tech.", 0, structs.DRA_AID_SLOTS, false),
		discordutil.IntegerOption("get_cash", "Slots for receiving cash.", 0, structs.DRA_AID_SLOTS, false),
		discordutil.IntegerOption("get_tech", "Slots for receiving tech.", 0, structs.DRA_AID_SLOTS, false),
		discordutil.IntegerOption("send_priority", "1 (high) to 3 (low).", 1, 3, false),
		discordutil.IntegerOption("receive_priority", "1 (high) to 3 (low).", 1, 3, false),
		discordutil.BoolOption("dra", "Whether the nation has a Disaster Relief Agency (6 slots)."),
	}
}

func (cmd SlotsCommand) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := discordutil.OptionMap(i.ApplicationCommandData())
	cfg := structs.AidSlotConfig{
		NationID:        discordutil.IntOr(opts, "nation", 0),
		SendCash:        discordutil.IntOr(opts, "send_cash", 0),
		SendTech:        discordutil.IntOr(opts, "send_tech", 0),
		GetCash:         discordutil.IntOr(opts, "get_cash", 0),
		GetTech:         discordutil.IntOr(opts, "get_tech", 0),
		SendPriority:    structs.Priority(discordutil.IntOr(opts, "send_priority", int(structs.PriorityNormal))),
		ReceivePriority: structs.Priority(discordutil.IntOr(opts, "receive_priority", int(structs.PriorityNormal))),
		HasDRA:          discordutil.BoolOr(opts, "dra", false),
	}

	res, err := cmd.svc.SaveSlotConfig(context.Background(), cfg)
	if err != nil {
		discordutil.ReplyWithError(s, i.Interaction, err)
		return err
	}

	return discordutil.SendReply(s, i.Interaction, &discordgo.InteractionResponseData{
		Flags:  discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{shared.NewSlotsEmbed(res)},
	})
}
