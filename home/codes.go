package home

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/sys"
)

func registerCodes() {
	projects := env.Cfg.Projects

	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, projects.Len())
	for _, key := range projects.Keys() {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  projects.DisplayName(key),
			Value: key,
		})
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "codes",
		Description: "get the codes for the associated " + projects.Terminology,
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        projects.Terminology,
				Description: "the " + projects.Terminology + " to get the codes for",
				Required:    true,
				Choices:     choices,
			},
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "the user to send the codes to",
			},
		},
	}, handleCodes)

	sys.RegisterComponentHandler("codes:", handleCodeButton)
}

func handleCodes(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	projects := env.Cfg.Projects

	projectKey := data.String(projects.Terminology)
	project, ok := projects.Get(projectKey)
	if !ok {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(fmt.Sprintf("couldn't find data for %s %q", projects.Terminology, projectKey)).
			SetEphemeral(true).
			Build())
		return
	}

	mention := ""
	if user, hasUser := data.OptUser("user"); hasUser {
		mention = fmt.Sprintf(" • <@%s>", user.ID)
	}

	var parts []discord.ContainerSubComponent

	if len(project.Codes) == 0 {
		parts = append(parts,
			discord.NewTextDisplay("# no codes for "+project.DisplayName),
			discord.NewTextDisplay(fmt.Sprintf("there aren't any known codes for this %s at the moment", projects.Terminology)),
			discord.NewTextDisplay(fmt.Sprintf("please tell <@%s> if this is incorrect%s", env.Cfg.DeveloperID, mention)),
		)
	} else {
		parts = append(parts, discord.NewTextDisplay("# codes for "+project.DisplayName))

		// Four code buttons per row.
		for i := 0; i < len(project.Codes); i += 4 {
			var buttons []discord.InteractiveComponent
			for _, code := range project.Codes[i:min(len(project.Codes), i+4)] {
				customID := fmt.Sprintf("codes:%s:%s", projectKey, code.Code)
				if code.Expired {
					buttons = append(buttons, discord.NewDangerButton(code.Code, customID))
				} else {
					buttons = append(buttons, discord.NewSuccessButton(code.Code, customID))
				}
			}
			parts = append(parts, discord.NewActionRow(buttons...))
		}

		parts = append(parts, discord.NewTextDisplay(fmt.Sprintf("please tell <@%s> if any missing or expired codes%s", env.Cfg.DeveloperID, mention)))
	}

	err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		AddComponents(discord.NewContainer(parts...)).
		Build())
	if err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func handleCodeButton(event *events.ComponentInteractionCreate) {
	parts := strings.Split(event.Data.CustomID(), ":")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		replyEphemeral(event, fmt.Sprintf("invalid code button interaction, missing either %s or code", env.Cfg.Projects.Terminology))
		return
	}
	projectKey, code := parts[1], parts[2]

	project, ok := env.Cfg.Projects.Get(projectKey)
	if !ok {
		replyEphemeral(event, fmt.Sprintf("couldn't find data for %s %q", env.Cfg.Projects.Terminology, projectKey))
		return
	}

	for _, c := range project.Codes {
		if c.Code != code {
			continue
		}
		status := discord.NewSuccessButton("active", "disabled:0")
		if c.Expired {
			status = discord.NewDangerButton("expired", "disabled:0")
		}
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("`" + c.Code + "`").
			SetEphemeral(true).
			AddActionRow(status.WithDisabled(true)).
			Build())
		return
	}

	replyEphemeral(event, fmt.Sprintf("couldn't find code %q for %s %q", code, env.Cfg.Projects.Terminology, projectKey))
}
