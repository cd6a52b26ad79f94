package proc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/sillowww/keeper/rbx"
	"github.com/sillowww/keeper/sys"
	"golang.org/x/time/rate"
)

// flaggedWords are moderation keywords that escalate a forum post
// notification with a ban lookup for the author.
var flaggedWords = []string{
	"ban", "appeal", "hacker", "exploit", "cheater", "unban",
	"moderator", "admin", "mod", "exploiters", "exploits",
}

func registerForumWatcher() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(sys.LogForum, func(ctx context.Context) (bool, func(), func()) {
			return startForumWatcher(ctx, client)
		})
	})
}

func startForumWatcher(ctx context.Context, client *bot.Client) (bool, func(), func()) {
	cfg := env.Cfg
	if !cfg.ForumEnabled || cfg.RobloxCookie == "" {
		return false, nil, nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	run := func() {
		defer close(done)
		sys.LogForum(sys.MsgForumPolling, cfg.ForumGroupID, cfg.ForumChannelID, cfg.ForumPollInterval)

		// Keeps notifications well under the group forum quota even
		// when a poll returns a burst of new posts.
		limiter := rate.NewLimiter(rate.Limit(1), 3)
		startTime := time.Now()
		seen := map[string]bool{}

		ticker := time.NewTicker(cfg.ForumPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-watchCtx.Done():
				sys.LogForum(sys.MsgForumStopped)
				return
			case <-ticker.C:
			}

			posts, err := env.Roblox.ForumPosts(watchCtx, cfg.ForumGroupID, cfg.ForumChannelID)
			if err != nil {
				sys.LogForum(sys.MsgForumPollError, err)
				continue
			}

			for _, post := range posts {
				if !isNewPost(post, seen, startTime) {
					continue
				}
				seen[post.ID.String()] = true

				if err := limiter.Wait(watchCtx); err != nil {
					return
				}
				notifyForumPost(watchCtx, client, post)
			}
		}
	}

	shutdown := func() {
		cancel()
		<-done
	}
	return true, run, shutdown
}

// isNewPost reports whether a post should be announced: not seen in a
// previous poll, and created after the watcher started so a restart
// does not replay the whole forum.
func isNewPost(post rbx.ForumPost, seen map[string]bool, startTime time.Time) bool {
	if seen[post.ID.String()] {
		return false
	}
	created, err := time.Parse(time.RFC3339, post.CreatedAt)
	if err != nil {
		return false
	}
	return created.After(startTime)
}

// flaggedWord returns the first moderation keyword found in the text,
// matching whole words only.
func flaggedWord(text string) string {
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		for _, word := range flaggedWords {
			if field == word {
				return word
			}
		}
	}
	return ""
}

func notifyForumPost(ctx context.Context, client *bot.Client, post rbx.ForumPost) {
	cfg := env.Cfg
	authorID := strconv.FormatInt(post.CreatedBy, 10)
	sys.LogForum(sys.MsgForumNewPost, post.ID.String(), authorID)

	authorName := "user " + authorID
	thumbURL := ""
	if author, err := env.Roblox.GetUser(ctx, authorID); err == nil {
		authorName = author.DisplayName
	}
	if url, err := env.Roblox.GenerateThumbnail(ctx, authorID, 48); err == nil {
		thumbURL = url
	}

	body := post.FirstComment.Content.PlainText
	if len(body) > 1500 {
		body = body[:1500] + "..."
	}

	posted := ""
	if created, err := time.Parse(time.RFC3339, post.CreatedAt); err == nil {
		posted = fmt.Sprintf(" • posted <t:%d:R>", created.Unix())
	}

	header := discord.NewTextDisplay(fmt.Sprintf("## %s", post.Name))
	var parts []discord.ContainerSubComponent
	if thumbURL != "" {
		parts = append(parts, discord.NewSection(header).WithAccessory(discord.NewThumbnail(thumbURL)))
	} else {
		parts = append(parts, header)
	}
	parts = append(parts,
		discord.NewTextDisplay(body),
		discord.NewTextDisplay(fmt.Sprintf("-# %s (id %s)%s", authorName, authorID, posted)),
	)

	if word := flaggedWord(post.Name + " " + post.FirstComment.Content.PlainText); word != "" {
		sys.LogForum(sys.MsgForumFlagged, post.ID.String(), word)
		parts = append(parts, discord.NewTextDisplay(banSummary(ctx, authorID)))
	}

	postURL := fmt.Sprintf("https://roblox.com/communities/%d/%s#!/forums/%s/post/%s",
		cfg.ForumGroupID, cfg.ForumGroupName, cfg.ForumChannelID, post.ID.String())
	parts = append(parts, discord.NewActionRow(discord.NewLinkButton("view post", postURL)))

	_, err := client.Rest.CreateMessage(cfg.ForumNotifyChannel,
		discord.NewMessageCreateBuilder().
			SetIsComponentsV2(true).
			AddComponents(discord.NewContainer(parts...)).
			Build())
	if err != nil {
		sys.LogForum(sys.MsgForumNotifyError, err)
	}
}

// banSummary checks the author against every configured universe and
// formats one line per project.
func banSummary(ctx context.Context, robloxUserID string) string {
	var b strings.Builder
	b.WriteString("**ban status**")

	for _, key := range env.Cfg.Projects.Keys() {
		project, _ := env.Cfg.Projects.Get(key)
		if project.Universe == 0 {
			continue
		}

		restriction, err := env.Roblox.UserRestriction(ctx, project.Universe, robloxUserID)
		switch {
		case err != nil:
			fmt.Fprintf(&b, "\n**%s**: lookup failed", project.DisplayName)
		case !restriction.Active:
			fmt.Fprintf(&b, "\n**%s**: no active ban", project.DisplayName)
		default:
			fmt.Fprintf(&b, "\n**%s**: banned", project.DisplayName)
			if restriction.StartTime != "" {
				if t, err := time.Parse(time.RFC3339, restriction.StartTime); err == nil {
					fmt.Fprintf(&b, " since <t:%d>", t.Unix())
				}
			}
			if restriction.DisplayReason != "" {
				fmt.Fprintf(&b, "\n-# shown: %s", restriction.DisplayReason)
			}
			if restriction.PrivateReason != "" {
				fmt.Fprintf(&b, "\n-# internal: %s", restriction.PrivateReason)
			}
		}
	}
	return b.String()
}
