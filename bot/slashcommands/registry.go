package slashcommands

import (
	"cndash/dashboard"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// 0 for Guild, 1 for User
var integrationTypes = []discordgo.ApplicationIntegrationType{
	discordgo.ApplicationIntegrationUserInstall,
	discordgo.ApplicationIntegrationGuildInstall,
}

// 0 for Guilds, 2 for DMs, 3 for Private Channels
var contexts = []discordgo.InteractionContextType{
	discordgo.InteractionContextBotDM,
	discordgo.InteractionContextGuild,
}

type AppCommandOpts = []*discordgo.ApplicationCommandOption
type SlashCommand interface {
	Name() string
	Description() string
	Options() AppCommandOpts
	Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// What commands need to answer. Handed to every command when the registry is built.
type Deps struct {
	Service *dashboard.Service
	KV      *badger.DB
}

type Registry struct {
	commands map[string]SlashCommand
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]SlashCommand)}
}

// Builds the registry holding every command the bot serves.
func Default(deps Deps) *Registry {
	r := NewRegistry()
	r.Register(PingCommand{})
	r.Register(AidCommand{svc: deps.Service})
	r.Register(StaggerCommand{svc: deps.Service})
	r.Register(SlotsCommand{svc: deps.Service})
	r.Register(UsageCommand{kv: deps.KV})

	return r
}

func (r *Registry) Register(cmd SlashCommand) {
	if _, exists := r.commands[cmd.Name()]; exists {
		log.Warnf("Command '%s' is already registered!", cmd.Name())
		return
	}

	r.commands[cmd.Name()] = cmd
}

func (r *Registry) Get(name string) (SlashCommand, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Every registered command, ordered by name.
func (r *Registry) All() []SlashCommand {
	cmds := lo.Values(r.commands)
	slices.SortFunc(cmds, func(a, b SlashCommand) int { return strings.Compare(a.Name(), b.Name()) })

	return cmds
}

func ToApplicationCommand(cmd SlashCommand) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:             cmd.Name(),
		Description:      cmd.Description(),
		Options:          cmd.Options(),
		IntegrationTypes: &integrationTypes,
		Contexts:         &contexts,
		Type:             discordgo.ChatApplicationCommand,
	}
}

// Overwrites the remote command definitions with the ones in this registry.
func (r *Registry) SyncWithRemote(s *discordgo.Session) error {
	defs := lo.Map(r.All(), func(cmd SlashCommand, _ int) *discordgo.ApplicationCommand {
		return ToApplicationCommand(cmd)
	})

	created, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", defs)
	if err != nil {
		return fmt.Errorf("error syncing slash commands: %w", err)
	}

	log.Infof("Synced %d slash commands with Discord", len(created))
	return nil
}

// ======================================= COMMAND TEMPLATE =======================================
// type ExampleCommand struct{}

// func (cmd ExampleCommand) Name() string { return "example" }
// func (cmd ExampleCommand) Description() string {
// 	return "This is an example description for a slash command."
// }

// func (cmd ExampleCommand) Options() []*discordgo.ApplicationCommandOption {
// 	return nil
// }

// func (cmd ExampleCommand) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
// 	return nil
// }
