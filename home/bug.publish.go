package home

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
)

// publishReport renders a report card into the community's configured
// bug channel, opens a discussion thread under it and records both ids
// on the report. The record is never rolled back on failure: anything
// that goes wrong after creation degrades to partial success.
func publishReport(client *bot.Client, report *store.Report, guildID string, reporter discord.User) (string, error) {
	guildCfg, err := env.Store.GetGuild(sys.AppContext, guildID)
	if err == store.ErrNotFound || (err == nil && guildCfg.BugChannel == "") {
		return "", sys.ChannelNotConfiguredFault("no bug channel is configured. ask a moderator to run /config bug-channel.")
	}
	if err != nil {
		return "", sys.StorageFault("load guild config", err)
	}

	channelID, err := snowflake.Parse(guildCfg.BugChannel)
	if err != nil {
		return "", sys.ChannelMisconfiguredFault("the configured bug channel id is not valid.")
	}
	if ch, ok := client.Caches.Channel(channelID); ok {
		if _, isText := ch.(discord.GuildTextChannel); !isText {
			return "", sys.ChannelMisconfiguredFault("the configured bug channel is not a text channel.")
		}
	}

	media, err := env.Store.MediaForReport(sys.AppContext, report.BugID)
	if err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		media = nil
	}

	builder := discord.NewMessageCreateBuilder().SetIsComponentsV2(true)

	var galleryRefs []string
	for i, m := range media {
		name := fmt.Sprintf("media_%d_%d.%s", report.BugID, i+1, m.Extension)
		builder.AddFiles(discord.NewFile(name, "", bytes.NewReader(m.Data)))
		galleryRefs = append(galleryRefs, "attachment://"+name)
	}

	builder.AddComponents(buildBugCard(report, reporter.ID.String(), galleryRefs, ""))

	msg, err := client.Rest.CreateMessage(channelID, builder.Build())
	if err != nil {
		return "", sys.ExternalFault("send bug card", err)
	}

	msgURL := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, msg.ID)

	threadID := ""
	thread, err := client.Rest.CreateThreadFromMessage(channelID, msg.ID, discord.ThreadCreateFromMessage{
		Name: threadName(report.BugID, report.Title),
	})
	if err != nil {
		sys.LogIntake(sys.MsgIntakeThreadFail, report.BugID, err)
	} else {
		threadID = thread.ID().String()

		if err := client.Rest.AddThreadMember(thread.ID(), reporter.ID); err != nil {
			sys.LogIntake(sys.MsgIntakeThreadFail, report.BugID, err)
		}

		orientation := fmt.Sprintf(
			"thread created for bug #%d affecting %s. use this space to discuss the bug report, provide additional details, or ask questions.",
			report.BugID, env.Cfg.Projects.DisplayName(report.Project))
		if _, err := client.Rest.CreateMessage(thread.ID(), discord.NewMessageCreateBuilder().SetContent(orientation).Build()); err != nil {
			sys.LogIntake(sys.MsgIntakeThreadFail, report.BugID, err)
		}
	}

	if err := env.Store.SetPublished(sys.AppContext, report.BugID, msg.ID.String(), threadID); err != nil {
		return msgURL, sys.StorageFault("record publish ids", err)
	}
	report.MessageID = msg.ID.String()
	report.ThreadID = threadID

	sys.LogIntake(sys.MsgIntakePublished, report.BugID, channelID)
	return msgURL, nil
}

// threadName renders the discussion thread title, truncating long bug
// titles so the whole name stays within Discord's limit.
func threadName(bugID int64, title string) string {
	if len(title) > 50 {
		title = title[:50] + "..."
	}
	return fmt.Sprintf("#%d: %s", bugID, title)
}

// buildBugCard renders the full components-v2 card for a report: header
// with project icon, body, media gallery and the control row.
func buildBugCard(report *store.Report, reporterID string, galleryRefs []string, messageURL string) discord.ContainerComponent {
	project, _ := env.Cfg.Projects.Get(report.Project)

	header := fmt.Sprintf("## %s", report.Title)
	body := report.Description
	footer := fmt.Sprintf("-# %s • bug #%d • %s • reported by <@%s>",
		env.Cfg.Projects.DisplayName(report.Project), report.BugID, statusLabel(report.Status), reporterID)

	var parts []discord.ContainerSubComponent
	if project.IconURL != "" {
		parts = append(parts, discord.NewSection(
			discord.NewTextDisplay(header),
			discord.NewTextDisplay(body),
		).WithAccessory(discord.NewThumbnail(project.IconURL)))
	} else {
		parts = append(parts,
			discord.NewTextDisplay(header),
			discord.NewTextDisplay(body),
		)
	}

	if len(galleryRefs) > 0 {
		items := make([]discord.MediaGalleryItem, 0, len(galleryRefs))
		for _, ref := range galleryRefs {
			items = append(items, discord.MediaGalleryItem{Media: discord.UnfurledMediaItem{URL: ref}})
		}
		parts = append(parts, discord.NewMediaGallery(items...))
	}

	parts = append(parts,
		discord.NewTextDisplay(footer),
		buildBugControlRow(report, messageURL),
	)

	return discord.NewContainer(parts...)
}

func statusLabel(status string) string {
	if status == store.StatusClosed {
		return "🔴 closed"
	}
	return "🟢 open"
}

// buildBugControlRow renders the action buttons. Closed reports get a
// reopen button instead of close, and edit is disabled while closed.
func buildBugControlRow(report *store.Report, messageURL string) discord.ActionRowComponent {
	closed := report.Status == store.StatusClosed

	var buttons []discord.InteractiveComponent
	if closed {
		buttons = append(buttons, discord.NewSecondaryButton("🔓 open", bugActionID(actionOpen, report.BugID)))
	} else {
		buttons = append(buttons, discord.NewSecondaryButton("🔒 close", bugActionID(actionClose, report.BugID)))
	}

	buttons = append(buttons,
		discord.NewPrimaryButton("edit", bugActionID(actionEdit, report.BugID)).WithDisabled(closed),
		discord.NewDangerButton("delete", bugActionID(actionDelete, report.BugID)),
	)

	if project, ok := env.Cfg.Projects.Get(report.Project); ok && project.TrelloBoardID != "" {
		buttons = append(buttons, discord.NewLinkButton("add to trello", buildTrelloURL(report.Title, messageURL, project.TrelloBoardID)))
	}

	buttons = append(buttons, discord.NewSuccessButton("new bug", bugActionID(actionNew, 0)))

	return discord.NewActionRow(buttons...)
}

func buildTrelloURL(title, messageURL, boardID string) string {
	params := url.Values{}
	params.Set("name", title)
	if messageURL != "" {
		params.Set("url", messageURL)
	}
	params.Set("idBoard", boardID)
	return "https://trello.com/addCard?" + params.Encode()
}

// rerenderBugCard rebuilds the published card after a state change.
// Stored media is not re-uploaded: the gallery reuses the attachment
// URLs already on the message.
func rerenderBugCard(client *bot.Client, report *store.Report, guildID string) error {
	if report.MessageID == "" {
		return nil
	}

	guildCfg, err := env.Store.GetGuild(sys.AppContext, guildID)
	if err != nil || guildCfg.BugChannel == "" {
		return err
	}

	channelID, err := snowflake.Parse(guildCfg.BugChannel)
	if err != nil {
		return sys.ChannelMisconfiguredFault("the configured bug channel id is not valid.")
	}
	messageID, err := snowflake.Parse(report.MessageID)
	if err != nil {
		return nil
	}

	msg, err := client.Rest.GetMessage(channelID, messageID)
	if err != nil {
		return sys.ExternalFault("fetch bug card", err)
	}

	var galleryRefs []string
	for _, att := range msg.Attachments {
		galleryRefs = append(galleryRefs, att.URL)
	}

	msgURL := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)

	reporterID := report.UserID
	_, err = client.Rest.UpdateMessage(channelID, messageID, discord.NewMessageUpdateBuilder().
		SetIsComponentsV2(true).
		AddComponents(buildBugCard(report, reporterID, galleryRefs, msgURL)).
		Build())
	if err != nil {
		return sys.ExternalFault("update bug card", err)
	}
	return nil
}

// changedFields reports which editable fields differ between the stored
// report and the submitted values, in stable order.
func changedFields(report *store.Report, title, description, project string) []string {
	var changed []string
	if report.Title != title {
		changed = append(changed, "title")
	}
	if report.Description != description {
		changed = append(changed, "description")
	}
	if report.Project != project {
		changed = append(changed, "project")
	}
	return changed
}

func joinChanged(fields []string) string {
	if len(fields) == 0 {
		return "nothing"
	}
	return strings.Join(fields, ", ")
}
