package home

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/google/uuid"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
)

const catLeaderboardPageSize = 10

// Pagination sessions live in memory and are owned by the invoking
// user. There is no expiry; a restart simply invalidates old buttons.
type catLeaderboardSession struct {
	userID      string
	guildID     string
	currentPage int
}

var (
	catLeaderboardMu       sync.Mutex
	catLeaderboardSessions = map[string]*catLeaderboardSession{}
)

func registerCatLeaderboard() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "cat-leaderboard",
		Description: "show the top cat point earners in this server",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, handleCatLeaderboard)

	sys.RegisterComponentHandler("cat-leaderboard:", handleCatLeaderboardButton)
}

func handleCatLeaderboard(event *events.ApplicationCommandInteractionCreate) {
	if event.GuildID() == nil {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(sys.UserMessage(sys.NotInCommunityFault())).
			SetEphemeral(true).
			Build())
		return
	}
	guildID := event.GuildID().String()

	members, err := env.Store.TopCatPoints(sys.AppContext, guildID)
	if err != nil {
		sys.LogCat(sys.MsgIntakeStorageError, err)
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(sys.UserMessage(sys.StorageFault("load leaderboard", err))).
			SetEphemeral(true).
			Build())
		return
	}

	sessionID := uuid.NewString()
	catLeaderboardMu.Lock()
	catLeaderboardSessions[sessionID] = &catLeaderboardSession{
		userID:      event.User().ID.String(),
		guildID:     guildID,
		currentPage: 1,
	}
	catLeaderboardMu.Unlock()

	err = event.CreateMessage(discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		AddComponents(
			buildCatLeaderboardContainer(members, 1),
			buildCatLeaderboardRow(sessionID, 1, catLeaderboardPageCount(len(members))),
		).
		Build())
	if err != nil {
		sys.LogCat(sys.MsgIntakeRespondError, err)
	}
}

func handleCatLeaderboardButton(event *events.ComponentInteractionCreate) {
	parts := strings.Split(event.Data.CustomID(), ":")
	if len(parts) != 3 {
		return
	}
	action, sessionID := parts[1], parts[2]

	catLeaderboardMu.Lock()
	session, ok := catLeaderboardSessions[sessionID]
	catLeaderboardMu.Unlock()

	if !ok {
		replyEphemeral(event, "❌ this leaderboard session has expired. please run the command again.")
		return
	}
	if event.User().ID.String() != session.userID {
		replyEphemeral(event, fmt.Sprintf("❌ only <@%s> can interact with this leaderboard.", session.userID))
		return
	}

	members, err := env.Store.TopCatPoints(sys.AppContext, session.guildID)
	if err != nil {
		sys.LogCat(sys.MsgIntakeStorageError, err)
		replyEphemeral(event, sys.UserMessage(sys.StorageFault("load leaderboard", err)))
		return
	}
	pageCount := catLeaderboardPageCount(len(members))

	newPage := session.currentPage
	switch action {
	case "prev":
		newPage = max(1, session.currentPage-1)
	case "next":
		newPage = min(pageCount, session.currentPage+1)
	}

	if newPage == session.currentPage {
		_ = event.DeferUpdateMessage()
		return
	}

	catLeaderboardMu.Lock()
	session.currentPage = newPage
	catLeaderboardMu.Unlock()

	err = event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetIsComponentsV2(true).
		AddComponents(
			buildCatLeaderboardContainer(members, newPage),
			buildCatLeaderboardRow(sessionID, newPage, pageCount),
		).
		Build())
	if err != nil {
		sys.LogCat(sys.MsgIntakeRespondError, err)
	}
}

func catLeaderboardPageCount(total int) int {
	return max(1, (total+catLeaderboardPageSize-1)/catLeaderboardPageSize)
}

func buildCatLeaderboardContainer(members []store.Member, page int) discord.ContainerComponent {
	start := (page - 1) * catLeaderboardPageSize
	end := min(len(members), start+catLeaderboardPageSize)

	body := "no cat points have been awarded yet!"
	if start < end {
		var lines []string
		for i, m := range members[start:end] {
			plural := "s"
			if m.CatPoints == 1 {
				plural = ""
			}
			lines = append(lines, fmt.Sprintf("%d. <@%s> — %d cat point%s", start+i+1, m.UserID, m.CatPoints, plural))
		}
		body = strings.Join(lines, "\n")
	}

	footer := fmt.Sprintf("-# page %d of %d • last updated: <t:%d:R>",
		page, catLeaderboardPageCount(len(members)), time.Now().Unix())

	return discord.NewContainer(
		discord.NewTextDisplay("# 🐱 cat points leaderboard"),
		discord.NewTextDisplay(body),
		discord.NewTextDisplay(footer),
	)
}

func buildCatLeaderboardRow(sessionID string, page, pageCount int) discord.ActionRowComponent {
	return discord.NewActionRow(
		discord.NewSecondaryButton("previous", "cat-leaderboard:prev:"+sessionID).WithDisabled(page == 1),
		discord.NewSecondaryButton("next", "cat-leaderboard:next:"+sessionID).WithDisabled(page >= pageCount),
	)
}
