package home

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
)

// loadReportForAction resolves the report and guild config behind a bug
// card button and runs the authorization check. Replies to the user and
// returns ok=false on any failure.
func loadReportForAction(event *events.ComponentInteractionCreate, bugID int64, verb string) (*store.Report, *store.Guild, bool) {
	if event.GuildID() == nil {
		replyEphemeral(event, sys.UserMessage(sys.NotInCommunityFault()))
		return nil, nil, false
	}

	report, err := env.Store.GetReport(sys.AppContext, bugID)
	if errors.Is(err, store.ErrNotFound) {
		replyEphemeral(event, sys.MsgBugNotFound)
		return nil, nil, false
	}
	if err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		replyEphemeral(event, sys.UserMessage(sys.StorageFault("load report", err)))
		return nil, nil, false
	}

	guildCfg, err := env.Store.GetGuild(sys.AppContext, event.GuildID().String())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		replyEphemeral(event, sys.UserMessage(sys.StorageFault("load guild config", err)))
		return nil, nil, false
	}

	if !actorCanManage(event, report, guildCfg) {
		sys.LogIntake(sys.MsgIntakeActionDenied, bugID, verb, event.User().ID)
		replyEphemeral(event, sys.MsgBugNoPermission)
		return nil, nil, false
	}

	return report, guildCfg, true
}

func handleBugClose(event *events.ComponentInteractionCreate, bugID int64) {
	report, _, ok := loadReportForAction(event, bugID, "close")
	if !ok {
		return
	}

	if report.Status != store.StatusOpen {
		replyEphemeral(event, sys.UserMessage(sys.ValidationFault("bug #%d is already closed", bugID)))
		return
	}

	if err := env.Store.SetReportStatus(sys.AppContext, bugID, store.StatusClosed); err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		replyEphemeral(event, sys.UserMessage(sys.StorageFault("close report", err)))
		return
	}
	report.Status = store.StatusClosed

	if err := rerenderBugCard(event.Client(), report, event.GuildID().String()); err != nil {
		sys.LogIntake(sys.MsgIntakeRerenderFail, bugID, err)
	}

	replyEphemeral(event, fmt.Sprintf(sys.MsgBugClosed, bugID))
	sys.LogIntake(sys.MsgIntakeActionDone, bugID, "closed", event.User().ID)
}

func handleBugOpen(event *events.ComponentInteractionCreate, bugID int64) {
	report, _, ok := loadReportForAction(event, bugID, "reopen")
	if !ok {
		return
	}

	if report.Status != store.StatusClosed {
		replyEphemeral(event, sys.UserMessage(sys.ValidationFault("bug #%d is already open", bugID)))
		return
	}

	if err := env.Store.SetReportStatus(sys.AppContext, bugID, store.StatusOpen); err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		replyEphemeral(event, sys.UserMessage(sys.StorageFault("reopen report", err)))
		return
	}
	report.Status = store.StatusOpen

	if err := rerenderBugCard(event.Client(), report, event.GuildID().String()); err != nil {
		sys.LogIntake(sys.MsgIntakeRerenderFail, bugID, err)
	}

	replyEphemeral(event, fmt.Sprintf(sys.MsgBugReopened, bugID))
	sys.LogIntake(sys.MsgIntakeActionDone, bugID, "reopened", event.User().ID)
}

func handleBugEdit(event *events.ComponentInteractionCreate, bugID int64) {
	report, _, ok := loadReportForAction(event, bugID, "edit")
	if !ok {
		return
	}

	if report.Status == store.StatusClosed {
		replyEphemeral(event, sys.MsgBugClosedNoEdit)
		return
	}

	err := event.Modal(discord.ModalCreate{
		CustomID: fmt.Sprintf("bug:editmodal:%d", bugID),
		Title:    fmt.Sprintf("edit bug #%d", bugID),
		Components: []discord.LayoutComponent{
			discord.NewActionRow(
				discord.NewTextInput("title", discord.TextInputStyleShort, "bug title").
					WithRequired(true).
					WithMaxLength(100).
					WithValue(report.Title),
			),
			discord.NewActionRow(
				discord.NewTextInput("description", discord.TextInputStyleParagraph, "bug description").
					WithRequired(true).
					WithMaxLength(1000).
					WithValue(report.Description),
			),
			discord.NewActionRow(
				discord.NewTextInput("project", discord.TextInputStyleShort, env.Cfg.Projects.Terminology+" key").
					WithRequired(true).
					WithMaxLength(50).
					WithValue(report.Project),
			),
		},
	})
	if err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func handleBugDelete(event *events.ComponentInteractionCreate, bugID int64) {
	report, _, ok := loadReportForAction(event, bugID, "delete")
	if !ok {
		return
	}

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
		return
	}
	edit := func(content string) {
		_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
			discord.NewMessageUpdateBuilder().SetContent(content).Build())
		if err != nil {
			sys.LogIntake(sys.MsgIntakeRespondError, err)
		}
	}

	removed, err := env.Store.DeleteMediaForReport(sys.AppContext, bugID)
	if err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
	}

	// Message and thread removal is best-effort. The tombstone below is
	// the authoritative part of the delete.
	guildCfg, _ := env.Store.GetGuild(sys.AppContext, event.GuildID().String())
	if guildCfg != nil && guildCfg.BugChannel != "" && report.MessageID != "" {
		if channelID, perr := snowflake.Parse(guildCfg.BugChannel); perr == nil {
			if messageID, perr := snowflake.Parse(report.MessageID); perr == nil {
				if derr := event.Client().Rest.DeleteMessage(channelID, messageID); derr != nil {
					sys.LogIntake(sys.MsgIntakeCleanupFail, bugID, derr)
				}
			}
		}
	}
	if report.ThreadID != "" {
		if threadID, perr := snowflake.Parse(report.ThreadID); perr == nil {
			if derr := event.Client().Rest.DeleteChannel(threadID); derr != nil {
				sys.LogIntake(sys.MsgIntakeCleanupFail, bugID, derr)
			}
		}
	}

	if err := env.Store.TombstoneReport(sys.AppContext, bugID); err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		edit(sys.UserMessage(sys.StorageFault("delete report", err)))
		return
	}

	edit(fmt.Sprintf(sys.MsgBugDeleted, bugID))
	sys.LogIntake(sys.MsgIntakeTombstoned, bugID, event.User().ID, removed)
}

func handleBugEditModal(event *events.ModalSubmitInteractionCreate) {
	parts := strings.Split(event.Data.CustomID, ":")
	if len(parts) != 3 {
		sys.LogIntake("rejected modal id: %q", event.Data.CustomID)
		return
	}
	bugID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || bugID <= 0 {
		sys.LogIntake("rejected modal id: %q", event.Data.CustomID)
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

	report, err := env.Store.GetReport(sys.AppContext, bugID)
	if errors.Is(err, store.ErrNotFound) {
		reply(sys.MsgBugNotFound)
		return
	}
	if err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("load report", err)))
		return
	}

	guildCfg, err := env.Store.GetGuild(sys.AppContext, event.GuildID().String())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("load guild config", err)))
		return
	}

	// Re-check both authorization and status: either can have changed
	// between opening the modal and submitting it.
	if !modalActorCanManage(event, report, guildCfg) {
		reply(sys.MsgBugNoPermission)
		return
	}
	if report.Status == store.StatusClosed {
		reply(sys.MsgBugClosedNoEdit)
		return
	}

	title := event.Data.Text("title")
	description := event.Data.Text("description")
	project := strings.TrimSpace(event.Data.Text("project"))

	if _, ok := env.Cfg.Projects.Get(project); !ok {
		reply(sys.UserMessage(sys.ValidationFault("unknown %s %q", env.Cfg.Projects.Terminology, project)))
		return
	}

	changed := changedFields(report, title, description, project)

	if err := env.Store.UpdateReportContent(sys.AppContext, bugID, title, description, project); err != nil {
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		reply(sys.UserMessage(sys.StorageFault("update report", err)))
		return
	}
	sys.LogIntake(sys.MsgIntakeEditFields, bugID, event.User().ID, joinChanged(changed))

	titleChanged := slices.Contains(changed, "title")
	report.Title = title
	report.Description = description
	report.Project = project

	if err := rerenderBugCard(event.Client(), report, event.GuildID().String()); err != nil {
		sys.LogIntake(sys.MsgIntakeRerenderFail, bugID, err)
	}

	if report.ThreadID != "" && len(changed) > 0 {
		if threadID, perr := snowflake.Parse(report.ThreadID); perr == nil {
			if titleChanged {
				name := threadName(bugID, title)
				if _, uerr := event.Client().Rest.UpdateChannel(threadID, discord.GuildThreadUpdate{Name: &name}); uerr != nil {
					sys.LogIntake(sys.MsgIntakeCleanupFail, bugID, uerr)
				}
			}

			notice := fmt.Sprintf("✏️ bug #%d updated by <@%s> (changed: %s)", bugID, event.User().ID, joinChanged(changed))
			if _, cerr := event.Client().Rest.CreateMessage(threadID, discord.NewMessageCreateBuilder().SetContent(notice).Build()); cerr != nil {
				sys.LogIntake(sys.MsgIntakeCleanupFail, bugID, cerr)
			}
		}
	}

	reply(fmt.Sprintf(sys.MsgBugUpdated, bugID))
}
