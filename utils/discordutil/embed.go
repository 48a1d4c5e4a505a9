package discordutil

import (
	"github.com/bwmarrin/discordgo"
)

const (
	WHITE      = 0xffffff
	GREEN      = 0x2ecc71
	BLUE       = 0x3498db
	GOLD       = 0xf1c40f
	ORANGE     = 0xe67e22
	RED        = 0xe74c3c
	GREY       = 0x95a5a6
	DARK_GREEN = 0x1f8b4c
	DARK_RED   = 0x992d22
	BLURPLE    = 0x7289da
)

// Discord rejects embeds with more fields than this.
const MAX_EMBED_FIELDS = 25

func NewEmbedField(name string, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = "-"
	}

	return &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	}
}

func AddField(embed *discordgo.MessageEmbed, name string, value string, inline bool) {
	if len(embed.Fields) >= MAX_EMBED_FIELDS {
		return
	}

	embed.Fields = append(embed.Fields, NewEmbedField(name, value, inline))
}

func IntegerOption(name, description string, minValue float64, maxValue float64, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		MinValue:    &minValue,
		MaxValue:    maxValue,
		Required:    required,
	}
}

func BoolOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
	}
}

// Reads the options of a slash command invocation into a map keyed by option name.
func OptionMap(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}

	return opts
}

func IntOr(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int) int {
	if opt, ok := opts[name]; ok {
		return int(opt.IntValue())
	}

	return fallback
}

func BoolOr(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, fallback bool) bool {
	if opt, ok := opts[name]; ok {
		return opt.BoolValue()
	}

	return fallback
}
