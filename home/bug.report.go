package home

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/google/uuid"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
)

const bugProjectSelectID = "bug:project-select"

const (
	maxMediaPerReport = 2
	maxMediaBytes     = 8 << 20
	pendingMediaTTL   = 15 * time.Minute
)

// Modals cannot carry attachments, so attachments given to /bug report
// are stashed here under a random nonce until the modal comes back.
// Entries are pruned on every stash so abandoned modals do not pile up.
type pendingAttachment struct {
	URL         string
	Filename    string
	ContentType string
	Size        int
}

var (
	pendingMediaMu sync.Mutex
	pendingMedia   = map[string]pendingEntry{}
)

type pendingEntry struct {
	attachments []pendingAttachment
	stashedAt   time.Time
}

func stashPendingMedia(attachments []pendingAttachment) string {
	nonce := uuid.NewString()

	pendingMediaMu.Lock()
	defer pendingMediaMu.Unlock()

	cutoff := time.Now().Add(-pendingMediaTTL)
	for k, v := range pendingMedia {
		if v.stashedAt.Before(cutoff) {
			delete(pendingMedia, k)
		}
	}

	pendingMedia[nonce] = pendingEntry{attachments: attachments, stashedAt: time.Now()}
	return nonce
}

func takePendingMedia(nonce string) []pendingAttachment {
	pendingMediaMu.Lock()
	defer pendingMediaMu.Unlock()

	entry, ok := pendingMedia[nonce]
	if !ok {
		return nil
	}
	delete(pendingMedia, nonce)
	return entry.attachments
}

// modalOpener is satisfied by both slash command and component events.
type modalOpener interface {
	Modal(modalCreate discord.ModalCreate, opts ...rest.RequestOpt) error
}

func showReportModal(opener modalOpener, project, nonce string) error {
	return opener.Modal(discord.ModalCreate{
		CustomID: fmt.Sprintf("bug:report:%s:%s", project, nonce),
		Title:    "report bug - " + env.Cfg.Projects.DisplayName(project),
		Components: []discord.LayoutComponent{
			discord.NewActionRow(
				discord.NewTextInput("title", discord.TextInputStyleShort, "bug title").
					WithRequired(true).
					WithMaxLength(100).
					WithPlaceholder("short description of the bug"),
			),
			discord.NewActionRow(
				discord.NewTextInput("description", discord.TextInputStyleParagraph, "bug description").
					WithRequired(true).
					WithMaxLength(1000).
					WithPlaceholder("detailed description of the bug and steps to reproduce"),
			),
		},
	})
}

func handleBugReport(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData) {
	project := data.String("project")
	if _, ok := env.Cfg.Projects.Get(project); !ok {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(sys.UserMessage(sys.ValidationFault("unknown %s %q", env.Cfg.Projects.Terminology, project))).
			SetEphemeral(true).
			Build())
		return
	}

	var attachments []pendingAttachment
	for _, opt := range []string{"media1", "media2"} {
		att, ok := data.OptAttachment(opt)
		if !ok {
			continue
		}
		if att.Size > maxMediaBytes {
			_ = event.CreateMessage(discord.NewMessageCreateBuilder().
				SetContent(sys.UserMessage(sys.ValidationFault("attachment %s is too large (max %d MB per file)", att.Filename, maxMediaBytes>>20))).
				SetEphemeral(true).
				Build())
			return
		}
		contentType := ""
		if att.ContentType != nil {
			contentType = *att.ContentType
		}
		attachments = append(attachments, pendingAttachment{
			URL:         att.URL,
			Filename:    att.Filename,
			ContentType: contentType,
			Size:        att.Size,
		})
	}

	nonce := "-"
	if len(attachments) > 0 {
		nonce = stashPendingMedia(attachments)
	}

	if err := showReportModal(event, project, nonce); err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func handleBugNew(event *events.ComponentInteractionCreate) {
	menu := discord.NewStringSelectMenu(bugProjectSelectID, "select a "+env.Cfg.Projects.Terminology, projectSelectOptions()...)

	_ = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(fmt.Sprintf("select a %s to report a bug for:", env.Cfg.Projects.Terminology)).
		AddActionRow(menu).
		SetEphemeral(true).
		Build())
}

func handleBugProjectSelect(event *events.ComponentInteractionCreate) {
	data := event.StringSelectMenuInteractionData()
	if len(data.Values) == 0 {
		return
	}

	project := data.Values[0]
	if _, ok := env.Cfg.Projects.Get(project); !ok {
		replyEphemeral(event, sys.UserMessage(sys.ValidationFault("unknown %s %q", env.Cfg.Projects.Terminology, project)))
		return
	}

	if err := showReportModal(event, project, "-"); err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}

func handleBugReportModal(event *events.ModalSubmitInteractionCreate) {
	parts := strings.Split(event.Data.CustomID, ":")
	if len(parts) != 4 {
		sys.LogIntake("rejected modal id: %q", event.Data.CustomID)
		return
	}
	project, nonce := parts[2], parts[3]

	if event.GuildID() == nil {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(sys.UserMessage(sys.NotInCommunityFault())).
			SetEphemeral(true).
			Build())
		return
	}
	guildID := event.GuildID().String()

	title := event.Data.Text("title")
	description := event.Data.Text("description")
	if title == "" || description == "" {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(sys.UserMessage(sys.ValidationFault("title and description are required"))).
			SetEphemeral(true).
			Build())
		return
	}

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
		return
	}

	ctx := sys.AppContext
	userID := event.User().ID.String()

	// The report row is persisted before any network-bound media work so
	// the id and core fields survive a failed or timed out download.
	if _, err := env.Store.EnsureMember(ctx, userID, guildID); err != nil {
		editIntakeReply(event, sys.UserMessage(sys.StorageFault("create member", err)))
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		return
	}

	bugID, err := env.Store.NextReportID(ctx)
	if err != nil {
		editIntakeReply(event, sys.UserMessage(sys.StorageFault("allocate id", err)))
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		return
	}

	report := &store.Report{
		BugID:       bugID,
		UserID:      userID,
		Project:     project,
		Title:       title,
		Description: description,
		Status:      store.StatusOpen,
	}
	if err := env.Store.CreateReport(ctx, report); err != nil {
		editIntakeReply(event, sys.UserMessage(sys.StorageFault("create report", err)))
		sys.LogIntake(sys.MsgIntakeStorageError, err)
		return
	}
	sys.LogIntake(sys.MsgIntakeCreated, bugID, userID, project)

	attachments := takePendingMedia(nonce)
	mediaOK, mediaTotal := ingestMedia(report, attachments)

	msgURL, pubErr := publishReport(event.Client(), report, guildID, event.User())

	switch {
	case pubErr != nil:
		sys.LogIntake(sys.MsgIntakePublishFail, bugID, pubErr)
		editIntakeReply(event, fmt.Sprintf(sys.MsgBugPartialSuccess, bugID))
	case mediaOK < mediaTotal:
		editIntakeReply(event, fmt.Sprintf(sys.MsgBugMediaPartial, bugID)+" "+msgURL)
	default:
		editIntakeReply(event, fmt.Sprintf(sys.MsgBugSubmitted, msgURL))
	}
}

// ingestMedia downloads stashed attachments concurrently and persists
// each as a media row owned by the report. One bad attachment fails that
// attachment only. Returns (saved, attempted).
func ingestMedia(report *store.Report, attachments []pendingAttachment) (int, int) {
	if len(attachments) == 0 {
		return 0, 0
	}
	if len(attachments) > maxMediaPerReport {
		attachments = attachments[:maxMediaPerReport]
	}

	ctx := sys.AppContext
	results := make([]error, len(attachments))
	sizes := make([]int, len(attachments))

	var wg sync.WaitGroup
	for i, att := range attachments {
		wg.Add(1)
		go func() {
			defer wg.Done()

			data, err := downloadAttachment(att.URL)
			if err != nil {
				results[i] = err
				return
			}
			sizes[i] = len(data)

			kind := "image"
			if strings.HasPrefix(att.ContentType, "video/") {
				kind = "video"
			}

			results[i] = env.Store.InsertMedia(ctx, &store.Media{
				BugID:     report.BugID,
				UserID:    report.UserID,
				MediaType: kind,
				Extension: strings.TrimPrefix(path.Ext(att.Filename), "."),
				Data:      data,
			})
		}()
	}
	wg.Wait()

	saved, total := 0, 0
	for i, err := range results {
		if err != nil {
			sys.LogIntake(sys.MsgIntakeMediaFail, report.BugID, attachments[i].Filename, err)
			continue
		}
		saved++
		total += sizes[i]
	}
	sys.LogIntake(sys.MsgIntakeMediaSaved, report.BugID, saved, len(attachments), total)
	return saved, len(attachments)
}

func downloadAttachment(url string) ([]byte, error) {
	resp, err := sys.HttpClient.Get(url)
	if err != nil {
		return nil, sys.ExternalFault("download attachment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, sys.ExternalFault("download attachment", fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes+1))
	if err != nil {
		return nil, sys.ExternalFault("read attachment", err)
	}
	if len(data) > maxMediaBytes {
		return nil, sys.ValidationFault("attachment exceeds %d MB", maxMediaBytes>>20)
	}
	return data, nil
}

func editIntakeReply(event *events.ModalSubmitInteractionCreate, content string) {
	_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetContent(content).Build())
	if err != nil {
		sys.LogIntake(sys.MsgIntakeRespondError, err)
	}
}
