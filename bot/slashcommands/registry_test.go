package slashcommands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default(Deps{})

	names := lo.Map(r.All(), func(cmd SlashCommand, _ int) string { return cmd.Name() })
	assert.Equal(t, []string{"aid", "ping", "slots", "stagger", "usage"}, names)

	cmd, ok := r.Get("stagger")
	require.True(t, ok)

	def := ToApplicationCommand(cmd)
	assert.Equal(t, discordgo.ChatApplicationCommand, def.Type)
	assert.Len(t, def.Options, 6)

	_, ok = r.Get("nope")
	assert.False(t, ok)
}

func TestRegisterIgnoresDuplicates(t *testing.T) {
	r := NewRegistry()
	r.Register(PingCommand{})
	r.Register(PingCommand{})

	assert.Len(t, r.All(), 1)
}

func TestCommandDefinitionsAreValid(t *testing.T) {
	for _, cmd := range Default(Deps{}).All() {
		assert.LessOrEqual(t, len(cmd.Description()), 100, cmd.Name())

		required := true
		for _, opt := range cmd.Options() {
			// Discord rejects required options listed after optional ones.
			if opt.Required {
				assert.True(t, required, "%s: required option %s after an optional one", cmd.Name(), opt.Name)
			}

			required = opt.Required
			assert.Regexp(t, `^[a-z_]{1,32}$`, opt.Name)
		}
	}
}
