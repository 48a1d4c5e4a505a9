package slashcommands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type PingCommand struct{}

func (PingCommand) Name() string        { return "ping" }
func (PingCommand) Description() string { return "Replies with pong and the gateway latency." }
func (PingCommand) Options() AppCommandOpts {
	return AppCommandOpts{}
}

func (PingCommand) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("pong! `%dms`", s.HeartbeatLatency().Milliseconds()),
		},
	})
}
