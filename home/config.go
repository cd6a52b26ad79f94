package home

import (
	"fmt"
	"slices"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/sillowww/keeper/sys"
)

func registerConfig() {
	managePerm := discord.PermissionManageGuild

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "config",
		Description:              "configure bot settings for this server",
		DefaultMemberPermissions: omit.New(&managePerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "manager-role",
				Description: "manage roles that can manage bug reports",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "action",
						Description: "action to perform",
						Required:    true,
						Choices: []discord.ApplicationCommandOptionChoiceString{
							{Name: "add", Value: "add"},
							{Name: "remove", Value: "remove"},
							{Name: "list", Value: "list"},
						},
					},
					discord.ApplicationCommandOptionRole{
						Name:        "role",
						Description: "role to add/remove",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "bug-channel",
				Description: "set the channel where bug reports are sent",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:         "channel",
						Description:  "channel for bug reports",
						Required:     true,
						ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "highlights-channel",
				Description: "set the channel highlights are reposted to",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:         "channel",
						Description:  "channel for highlights",
						Required:     true,
						ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
					},
				},
			},
		},
	}, handleConfig)
}

func handleConfig(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	reply := func(content string) {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(content).
			SetEphemeral(true).
			Build())
	}

	if event.GuildID() == nil {
		reply(sys.UserMessage(sys.NotInCommunityFault()))
		return
	}
	guildID := event.GuildID().String()

	// Guild records are created lazily on first configuration.
	guildCfg, err := env.Store.EnsureGuild(sys.AppContext, guildID)
	if err != nil {
		sys.LogDatabase(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("load guild config", err)))
		return
	}

	switch *data.SubCommandName {
	case "manager-role":
		handleConfigManagerRole(event, data, reply, guildCfg.ManagerRoles)
	case "bug-channel":
		handleConfigChannel(event, data, reply, "bug-channel")
	case "highlights-channel":
		handleConfigChannel(event, data, reply, "highlights-channel")
	default:
		sys.LogIntake("unknown config subcommand: %s", *data.SubCommandName)
	}
}

func handleConfigManagerRole(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, reply func(string), current []string) {
	action := data.String("action")
	guildID := event.GuildID().String()

	if action == "list" {
		if len(current) == 0 {
			reply("📋 no manager roles configured.")
			return
		}
		mentions := make([]string, 0, len(current))
		for _, id := range current {
			mentions = append(mentions, "<@&"+id+">")
		}
		reply("📋 **manager roles:**\n" + strings.Join(mentions, "\n"))
		return
	}

	role, ok := data.OptRole("role")
	if !ok {
		reply(sys.UserMessage(sys.ValidationFault("you must specify a role for this action")))
		return
	}
	roleID := role.ID.String()

	switch action {
	case "add":
		if slices.Contains(current, roleID) {
			reply(sys.UserMessage(sys.ValidationFault("<@&%s> is already a manager role", roleID)))
			return
		}
		if err := env.Store.AddManagerRole(sys.AppContext, guildID, roleID); err != nil {
			sys.LogDatabase(sys.MsgIntakeStorageError, err)
			reply(sys.UserMessage(sys.StorageFault("add manager role", err)))
			return
		}
		sys.LogIntake(sys.MsgConfigRoleAdded, roleID, guildID)
		reply(fmt.Sprintf("✅ added <@&%s> as a manager role.", roleID))

	case "remove":
		if !slices.Contains(current, roleID) {
			reply(sys.UserMessage(sys.ValidationFault("<@&%s> is not a manager role", roleID)))
			return
		}
		if err := env.Store.RemoveManagerRole(sys.AppContext, guildID, roleID); err != nil {
			sys.LogDatabase(sys.MsgIntakeStorageError, err)
			reply(sys.UserMessage(sys.StorageFault("remove manager role", err)))
			return
		}
		sys.LogIntake(sys.MsgConfigRoleRemoved, roleID, guildID)
		reply(fmt.Sprintf("✅ removed <@&%s> from manager roles.", roleID))
	}
}

func handleConfigChannel(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, reply func(string), which string) {
	channel := data.Channel("channel")
	guildID := event.GuildID().String()

	if channel.Type != discord.ChannelTypeGuildText {
		reply(sys.UserMessage(sys.ValidationFault("the %s must be a text channel", which)))
		return
	}
	channelID := channel.ID.String()

	var err error
	var what string
	switch which {
	case "bug-channel":
		err = env.Store.SetBugChannel(sys.AppContext, guildID, channelID)
		what = "bug reports channel"
	case "highlights-channel":
		err = env.Store.SetHighlightsChannel(sys.AppContext, guildID, channelID)
		what = "highlights channel"
	}
	if err != nil {
		sys.LogDatabase(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("save channel", err)))
		return
	}

	sys.LogIntake(sys.MsgConfigChannelSet, which, channelID, guildID)
	reply(fmt.Sprintf("✅ set %s to <#%s>.", what, channelID))
}
