package home

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/sillowww/keeper/rbx"
	"github.com/sillowww/keeper/sys"
)

// buildRobloxUserCard fetches a Roblox user plus avatar render and
// formats the profile card shared by /user, /search and the context
// menu.
func buildRobloxUserCard(ctx context.Context, robloxID string, avatarSize int) (discord.ContainerComponent, error) {
	user, err := env.Roblox.GetUser(ctx, robloxID)
	if err != nil {
		return discord.ContainerComponent{}, err
	}

	thumbURL, err := env.Roblox.GenerateThumbnail(ctx, robloxID, avatarSize)
	if err != nil {
		sys.LogRoblox(sys.MsgRobloxLookupFail, robloxID, err)
		thumbURL = ""
	}

	return renderRobloxUserCard(user, thumbURL), nil
}

func renderRobloxUserCard(user *rbx.User, thumbURL string) discord.ContainerComponent {
	profileURL := fmt.Sprintf("https://www.roblox.com/users/%s/profile", user.ID)

	about := user.About
	if about == "" {
		about = "no description provided"
	}

	created := ""
	if t, err := time.Parse(time.RFC3339, user.CreateTime); err == nil {
		created = fmt.Sprintf("\n**created:** <t:%d> (<t:%d:R>)", t.Unix(), t.Unix())
	}

	var parts []discord.ContainerSubComponent
	if thumbURL != "" {
		parts = append(parts, discord.NewMediaGallery(
			discord.MediaGalleryItem{Media: discord.UnfurledMediaItem{URL: thumbURL}},
		))
	}
	parts = append(parts,
		discord.NewTextDisplay(fmt.Sprintf("## %s (%s)", user.DisplayName, user.ID)),
		discord.NewTextDisplay(about),
		discord.NewTextDisplay(fmt.Sprintf("**username:** %s%s", user.Name, created)),
		discord.NewActionRow(
			discord.NewLinkButton("view profile", profileURL),
		),
	)

	return discord.NewContainer(parts...)
}

// resolveRobloxID turns a /user input into a Roblox user id: numeric
// input passes through, anything else is treated as a username.
func resolveRobloxID(ctx context.Context, input string) (string, error) {
	numeric := input != ""
	for _, r := range input {
		if r < '0' || r > '9' {
			numeric = false
			break
		}
	}
	if numeric {
		return input, nil
	}

	id, err := env.Roblox.UserIDFromUsername(ctx, input)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", sys.NotFoundFault("user not found or username is invalid")
	}
	return id, nil
}
