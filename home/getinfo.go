package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/sys"
)

func registerGetAccount() {
	sys.RegisterCommand(discord.UserCommandCreate{
		Name: "get account",
	}, handleGetAccount)
}

func handleGetAccount(event *events.ApplicationCommandInteractionCreate) {
	target := event.UserCommandInteractionData().TargetUser()

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogRoblox(sys.MsgIntakeRespondError, err)
		return
	}

	robloxID, err := env.Bloxlink.RobloxIDForDiscord(sys.AppContext, target.ID.String())
	if err == nil {
		var card discord.ContainerComponent
		card, err = buildRobloxUserCard(sys.AppContext, robloxID, 420)
		if err == nil {
			editUserReply(event, discord.NewMessageUpdateBuilder().
				SetIsComponentsV2(true).
				AddComponents(card).
				Build())
			return
		}
	}

	sys.LogRoblox(sys.MsgRobloxLookupFail, target.ID.String(), err)
	editUserReply(event, discord.NewMessageUpdateBuilder().SetContent(sys.UserMessage(err)).Build())
}
