package home

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
)

// Links from the major clip hosts count as highlight material even when
// the message has no attached video.
var videoLinkRegex = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=[\w-]+|youtu\.be/[\w-]+|medal\.tv/(?:games/[\w-]+/clips/[\w-]+|g/[\w-]+|clips/[\w-]+))`)

const maxHighlightUpload = 25 << 20

func registerHighlight() {
	sys.RegisterCommand(discord.MessageCommandCreate{
		Name: "highlight",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, handleHighlight)
}

func extractVideoLinks(content string) []string {
	return videoLinkRegex.FindAllString(content, -1)
}

func isVideoAttachment(att discord.Attachment) bool {
	return att.ContentType != nil && strings.HasPrefix(*att.ContentType, "video/")
}

func handleHighlight(event *events.ApplicationCommandInteractionCreate) {
	if event.GuildID() == nil {
		_ = event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent(sys.UserMessage(sys.NotInCommunityFault())).
			SetEphemeral(true).
			Build())
		return
	}

	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogHighlight(sys.MsgIntakeRespondError, err)
		return
	}
	edit := func(content string) {
		_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
			discord.NewMessageUpdateBuilder().SetContent(content).Build())
		if err != nil {
			sys.LogHighlight(sys.MsgIntakeRespondError, err)
		}
	}

	guildCfg, err := env.Store.GetGuild(sys.AppContext, event.GuildID().String())
	if errors.Is(err, store.ErrNotFound) || (err == nil && guildCfg.HighlightsChannel == "") {
		edit(sys.UserMessage(sys.ChannelNotConfiguredFault("no highlights channel configured. use /config highlights-channel.")))
		return
	}
	if err != nil {
		sys.LogHighlight(sys.MsgIntakeStorageError, err)
		edit(sys.UserMessage(sys.StorageFault("load guild config", err)))
		return
	}

	data := event.MessageCommandInteractionData()
	target := data.TargetMessage()

	var videoAttachments []discord.Attachment
	for _, att := range target.Attachments {
		if isVideoAttachment(att) {
			videoAttachments = append(videoAttachments, att)
		}
	}
	videoLinks := extractVideoLinks(target.Content)

	if len(videoAttachments) == 0 && len(videoLinks) == 0 {
		edit("❌ no video attachments or supported links found in this message.")
		return
	}

	channelID, err := snowflake.Parse(guildCfg.HighlightsChannel)
	if err != nil {
		edit(sys.UserMessage(sys.ChannelMisconfiguredFault("the configured highlights channel id is not valid.")))
		return
	}

	jumpURL := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", event.GuildID(), target.ChannelID, target.ID)
	var linkText strings.Builder
	for _, link := range videoLinks {
		fmt.Fprintf(&linkText, " • [video link](%s)", link)
	}
	description := fmt.Sprintf(":star: new highlight from <@%s>!\n-# [jump to message](%s)%s",
		target.Author.ID, jumpURL, linkText.String())

	builder := discord.NewMessageCreateBuilder().SetContent(description)

	// Clips get re-uploaded so they stay playable if the source message
	// is deleted. Oversized ones fall back to the jump link.
	for i, att := range videoAttachments {
		if att.Size > maxHighlightUpload {
			sys.LogHighlight("skipping oversized attachment %s (%d bytes)", att.Filename, att.Size)
			continue
		}
		payload, derr := downloadHighlight(att.URL)
		if derr != nil {
			sys.LogHighlight(sys.MsgHighlightFail, derr)
			continue
		}
		name := fmt.Sprintf("highlight_%d_%s", i+1, att.Filename)
		builder.AddFiles(discord.NewFile(name, "", bytes.NewReader(payload)))
	}

	msg, err := event.Client().Rest.CreateMessage(channelID, builder.Build())
	if err != nil {
		sys.LogHighlight(sys.MsgHighlightFail, err)
		edit("❌ failed to send highlight.")
		return
	}

	if rerr := event.Client().Rest.AddReaction(channelID, msg.ID, "⭐"); rerr != nil {
		sys.LogHighlight(sys.MsgHighlightFail, rerr)
	}

	sys.LogHighlight(sys.MsgHighlightReposted, target.ID, channelID)
	edit("✅ highlight sent!")
}

func downloadHighlight(url string) ([]byte, error) {
	resp, err := sys.HttpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
