package proc

import (
	"io"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/sillowww/keeper/sys"
	"github.com/sillowww/keeper/vision"
)

func registerCatWatch() {
	sys.RegisterMessageCreateHandler(handleCatMessage)
}

// handleCatMessage enforces the cat channel: image posts earn one cat
// point per verified cat, anything else gets nudged out. Without a
// Vision key every image counts.
func handleCatMessage(event *events.GuildMessageCreate) {
	cfg := env.Cfg
	if cfg.CatChannelID == 0 || event.ChannelID != cfg.CatChannelID {
		return
	}
	if event.Message.Author.Bot {
		return
	}

	var images []discord.Attachment
	for _, attachment := range event.Message.Attachments {
		if attachment.ContentType != nil && strings.HasPrefix(*attachment.ContentType, "image/") {
			images = append(images, attachment)
		}
	}
	if len(images) == 0 {
		return
	}

	if env.Vision.Configured() {
		for _, image := range images {
			if !looksLikeCat(image) {
				sys.LogCat(sys.MsgCatNotACat, event.Message.ID.String())
				_, err := event.Client().Rest.CreateMessage(event.ChannelID,
					discord.NewMessageCreateBuilder().
						SetContent("this channel is only for cat images! 🐱").
						SetMessageReferenceByID(event.Message.ID).
						Build())
				if err != nil {
					sys.LogCat("failed to reply: %v", err)
				}
				return
			}
		}
	}

	if err := event.Client().Rest.AddReaction(event.ChannelID, event.Message.ID, "😻"); err != nil {
		sys.LogCat("failed to react: %v", err)
	}

	userID := event.Message.Author.ID.String()
	guildID := event.GuildID.String()
	if _, err := env.Store.AwardCatPoints(sys.AppContext, userID, guildID, int64(len(images))); err != nil {
		sys.LogCat(sys.MsgIntakeStorageError, err)
		return
	}
	sys.LogCat(sys.MsgCatPointAwarded, len(images), userID, guildID)
}

// looksLikeCat downloads the attachment and runs object localization.
// Vision failures count the image anyway so an API outage never
// punishes posters.
func looksLikeCat(attachment discord.Attachment) bool {
	resp, err := sys.HttpClient.Get(attachment.URL)
	if err != nil {
		sys.LogCat(sys.MsgCatVisionError, err)
		return true
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		sys.LogCat(sys.MsgCatVisionError, err)
		return true
	}

	objects, err := env.Vision.LocalizeObjects(sys.AppContext, data)
	if err != nil {
		sys.LogCat(sys.MsgCatVisionError, err)
		return true
	}

	return vision.HasCat(objects)
}
