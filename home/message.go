package home

import (
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
)

const messageModalID = "message:report_message"

func registerMessage() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "message",
		Description: "set the custom report message shown in this server",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, handleMessage)

	sys.RegisterModalHandler(messageModalID, handleMessageModal)
}

func handleMessage(event *events.ApplicationCommandInteractionCreate) {
	reply := func(content string) {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(content).
			SetEphemeral(true).
			Build())
	}

	if event.GuildID() == nil || event.Member() == nil {
		reply(sys.UserMessage(sys.NotInCommunityFault()))
		return
	}

	// Only community managers may change the first-contact message.
	guildCfg, err := env.Store.GetGuild(sys.AppContext, event.GuildID().String())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		sys.LogDatabase(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("load guild config", err)))
		return
	}
	if !hasManagerPermissions(event.Client(), event.GuildID(), event.Member(), guildCfg) {
		reply(sys.MsgBugNoPermission)
		return
	}

	current := ""
	if guildCfg != nil {
		current = guildCfg.ReportMessage
	}

	input := discord.NewTextInput("message_content", discord.TextInputStyleParagraph, "report message content").
		WithRequired(true).
		WithMaxLength(2000).
		WithPlaceholder("shown to first time reporters")
	if current != "" {
		input = input.WithValue(current)
	}

	err = event.Modal(discord.ModalCreate{
		CustomID: messageModalID,
		Title:    "edit report message",
		Components: []discord.LayoutComponent{
			discord.NewActionRow(input),
		},
	})
	if err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func handleMessageModal(event *events.ModalSubmitInteractionCreate) {
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

	content := event.Data.Text("message_content")
	if err := env.Store.SetReportMessage(sys.AppContext, event.GuildID().String(), content); err != nil {
		sys.LogDatabase(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("save report message", err)))
		return
	}

	sys.LogIntake("report message updated in guild %s by %s", event.GuildID(), event.User().ID)
	reply("✅ report message updated successfully.")
}
