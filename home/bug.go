package home

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/sys"
)

func registerBug() {
	projects := env.Cfg.Projects

	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, projects.Len())
	for _, key := range projects.Keys() {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  projects.DisplayName(key),
			Value: key,
		})
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "bug",
		Description: "bug report management",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "report",
				Description: "report a new bug",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "project",
						Description: "the " + projects.Terminology + " the bug affects",
						Required:    true,
						Choices:     choices,
					},
					discord.ApplicationCommandOptionAttachment{
						Name:        "media1",
						Description: "screenshot or clip showing the bug",
					},
					discord.ApplicationCommandOptionAttachment{
						Name:        "media2",
						Description: "a second screenshot or clip",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "button",
				Description: "send a project picker so someone can report a bug",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "user",
						Description: "the user to send the picker to",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "help",
				Description: "explain how to report bugs",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "user",
						Description: "the user to explain it to",
						Required:    true,
					},
				},
			},
		},
	}, handleBug)

	sys.RegisterComponentHandler("bug:", handleBugComponent)
	sys.RegisterModalHandler("bug:report:", handleBugReportModal)
	sys.RegisterModalHandler("bug:editmodal:", handleBugEditModal)
}

func handleBug(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	switch *data.SubCommandName {
	case "report":
		handleBugReport(event, data)
	case "button":
		handleBugButton(event, data)
	case "help":
		handleBugHelp(event, data)
	default:
		sys.LogIntake("unknown bug subcommand: %s", *data.SubCommandName)
	}
}

func handleBugComponent(event *events.ComponentInteractionCreate) {
	customID := event.Data.CustomID()

	if customID == bugProjectSelectID {
		handleBugProjectSelect(event)
		return
	}

	action, bugID, err := parseBugActionID(customID)
	if err != nil {
		sys.LogIntake("rejected component id: %v", err)
		replyEphemeral(event, sys.MsgBugUnknownAction)
		return
	}

	switch action {
	case actionNew:
		handleBugNew(event)
	case actionClose:
		handleBugClose(event, bugID)
	case actionOpen:
		handleBugOpen(event, bugID)
	case actionEdit:
		handleBugEdit(event, bugID)
	case actionDelete:
		handleBugDelete(event, bugID)
	}
}

func handleBugButton(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	target := data.User("user")

	menu := discord.NewStringSelectMenu(bugProjectSelectID, "select a "+env.Cfg.Projects.Terminology, projectSelectOptions()...)

	content := fmt.Sprintf("📝 <@%s>, use the dropdown below to pick the %s you want to report a bug for. you can also use the `/bug report` command directly.",
		target.ID, env.Cfg.Projects.Terminology)

	err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		AddActionRow(menu).
		Build())
	if err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func handleBugHelp(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	target := data.User("user")

	content := fmt.Sprintf("📝 <@%s>, you can use the `/bug report` command to report bugs. it shows a popup where you enter the details, and you can attach relevant media alongside the command.", target.ID)

	err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		Build())
	if err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func projectSelectOptions() []discord.StringSelectMenuOption {
	projects := env.Cfg.Projects
	opts := make([]discord.StringSelectMenuOption, 0, projects.Len())
	for _, key := range projects.Keys() {
		opts = append(opts, discord.NewStringSelectMenuOption(projects.DisplayName(key), key))
	}
	return opts
}

func replyEphemeral(event *events.ComponentInteractionCreate, content string) {
	_ = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
}
