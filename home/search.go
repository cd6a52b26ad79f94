package home

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/rbx"
	"github.com/sillowww/keeper/sys"
)

// at most this many result cards per reply, anything past it gets a
// "show more" button instead of a full card.
const searchCardLimit = 5

func registerSearch() {
	minResults, maxResults := 1, 25

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "search",
		Description: "search roblox users by keyword",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "query",
				Description: "the username or keyword to search for",
				Required:    true,
			},
			discord.ApplicationCommandOptionInt{
				Name:        "limit",
				Description: "how many results to return (default 10)",
				MinValue:    &minResults,
				MaxValue:    &maxResults,
			},
		},
	}, handleSearch)

	sys.RegisterComponentHandler("search:", handleSearchMore)
}

func handleSearch(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	query := data.String("query")
	limit := 10
	if n, ok := data.OptInt("limit"); ok {
		limit = n
	}

	if err := event.DeferCreateMessage(false); err != nil {
		sys.LogRoblox(sys.MsgIntakeRespondError, err)
		return
	}

	results, err := env.Roblox.SearchUsers(sys.AppContext, query, limit)
	if err != nil {
		var rl rbx.RateLimitedError
		msg := sys.UserMessage(err)
		if errors.As(err, &rl) {
			msg = "❌ ran into a rate limit, wait a minute or so and retry."
		}
		editUserReply(event, discord.NewMessageUpdateBuilder().SetContent(msg).Build())
		return
	}
	if len(results) == 0 {
		editUserReply(event, discord.NewMessageUpdateBuilder().
			SetContent(fmt.Sprintf("❌ no users found for `%s`.", query)).Build())
		return
	}

	builder := discord.NewMessageUpdateBuilder().SetIsComponentsV2(true)
	shown := min(len(results), searchCardLimit)
	for _, result := range results[:shown] {
		builder.AddComponents(searchResultCard(result))
	}
	if len(results) > shown {
		var overflow strings.Builder
		fmt.Fprintf(&overflow, "-# and %d more:", len(results)-shown)
		for _, result := range results[shown:] {
			fmt.Fprintf(&overflow, " %s,", result.Name)
		}
		builder.AddComponents(discord.NewTextDisplay(strings.TrimSuffix(overflow.String(), ",")))
	}
	editUserReply(event, builder.Build())
}

func searchResultCard(result rbx.SearchUser) discord.ContainerComponent {
	id := strconv.FormatInt(result.ID, 10)
	return discord.NewContainer(
		discord.NewTextDisplay(fmt.Sprintf("## %s (%s)", result.DisplayName, id)),
		discord.NewTextDisplay(fmt.Sprintf("**username:** %s", result.Name)),
		discord.NewActionRow(
			discord.NewLinkButton("view profile", fmt.Sprintf("https://www.roblox.com/users/%s/profile", id)),
			discord.NewSecondaryButton("show more", "search:"+id),
		),
	)
}

// handleSearchMore expands a search result into the full profile card,
// ephemerally so the shared reply stays compact.
func handleSearchMore(event *events.ComponentInteractionCreate) {
	robloxID, ok := strings.CutPrefix(event.Data.CustomID(), "search:")
	if !ok || robloxID == "" {
		return
	}

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogRoblox(sys.MsgIntakeRespondError, err)
		return
	}

	card, err := buildRobloxUserCard(sys.AppContext, robloxID, 150)
	builder := discord.NewMessageUpdateBuilder()
	if err != nil {
		sys.LogRoblox(sys.MsgRobloxLookupFail, robloxID, err)
		builder.SetContent(sys.UserMessage(err))
	} else {
		builder.SetIsComponentsV2(true).AddComponents(card)
	}
	if _, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), builder.Build()); err != nil {
		sys.LogRoblox(sys.MsgIntakeRespondError, err)
	}
}
