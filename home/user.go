package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/sys"
)

func registerUser() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "user",
		Description: "look up a roblox account",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "discord",
				Description: "look up the roblox account linked to a discord user",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "user",
						Description: "the discord user to look up",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "roblox",
				Description: "look up a roblox account by id or username",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "input",
						Description: "a roblox user id or username",
						Required:    true,
					},
				},
			},
		},
	}, handleUser)
}

func handleUser(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	if err := event.DeferCreateMessage(false); err != nil {
		sys.LogRoblox(sys.MsgIntakeRespondError, err)
		return
	}

	var (
		robloxID string
		err      error
	)
	switch *data.SubCommandName {
	case "discord":
		target := data.User("user")
		if env.Bloxlink == nil {
			err = sys.ExternalFault("discord lookups are not configured", nil)
			break
		}
		robloxID, err = env.Bloxlink.RobloxIDForDiscord(sys.AppContext, target.ID.String())
	case "roblox":
		robloxID, err = resolveRobloxID(sys.AppContext, data.String("input"))
	default:
		return
	}

	if err == nil {
		var card discord.ContainerComponent
		card, err = buildRobloxUserCard(sys.AppContext, robloxID, 420)
		if err == nil {
			editUserReply(event,
				discord.NewMessageUpdateBuilder().
					SetIsComponentsV2(true).
					AddComponents(card).
					Build())
			return
		}
	}

	sys.LogRoblox(sys.MsgRobloxLookupFail, robloxID, err)
	editUserReply(event, discord.NewMessageUpdateBuilder().SetContent(sys.UserMessage(err)).Build())
}

func editUserReply(event *events.ApplicationCommandInteractionCreate, update discord.MessageUpdate) {
	_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), update)
	if err != nil {
		sys.LogRoblox(sys.MsgIntakeRespondError, err)
	}
}
