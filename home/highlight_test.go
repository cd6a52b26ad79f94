package home

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
)

func TestExtractVideoLinks(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"youtube watch", "check this https://www.youtube.com/watch?v=dQw4w9WgXcQ out", 1},
		{"youtu.be short", "https://youtu.be/dQw4w9WgXcQ", 1},
		{"medal clip", "https://medal.tv/games/roblox/clips/abc123", 1},
		{"medal short", "https://medal.tv/clips/abc123", 1},
		{"two links", "https://youtu.be/aaa and https://youtu.be/bbb", 2},
		{"plain text", "no links here", 0},
		{"unrelated url", "https://example.com/watch?v=nope", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractVideoLinks(tc.content); len(got) != tc.want {
				t.Errorf("extractVideoLinks(%q) = %v, want %d links", tc.content, got, tc.want)
			}
		})
	}
}

func TestIsVideoAttachment(t *testing.T) {
	mp4 := "video/mp4"
	png := "image/png"

	if !isVideoAttachment(discord.Attachment{ContentType: &mp4}) {
		t.Error("mp4 should count as video")
	}
	if isVideoAttachment(discord.Attachment{ContentType: &png}) {
		t.Error("png should not count as video")
	}
	if isVideoAttachment(discord.Attachment{}) {
		t.Error("missing content type should not count as video")
	}
}
