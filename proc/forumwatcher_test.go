package proc

import (
	"testing"
	"time"

	"github.com/sillowww/keeper/rbx"
)

func TestIsNewPost(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var post rbx.ForumPost
	post.ID = "10"
	post.CreatedAt = start.Add(time.Minute).Format(time.RFC3339)

	seen := map[string]bool{}
	if !isNewPost(post, seen, start) {
		t.Fatal("fresh post after start should be new")
	}

	seen["10"] = true
	if isNewPost(post, seen, start) {
		t.Fatal("seen post should not be new")
	}

	var old rbx.ForumPost
	old.ID = "9"
	old.CreatedAt = start.Add(-time.Hour).Format(time.RFC3339)
	if isNewPost(old, map[string]bool{}, start) {
		t.Fatal("post from before start should not be new")
	}

	var bad rbx.ForumPost
	bad.ID = "8"
	bad.CreatedAt = "not a timestamp"
	if isNewPost(bad, map[string]bool{}, start) {
		t.Fatal("unparseable timestamp should not be new")
	}
}

func TestFlaggedWord(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"I found a hacker in my server", "hacker"},
		{"BAN this guy please", "ban"},
		{"how do I appeal?", "appeal"},
		{"my favourite band", ""},
		{"administrative question", ""},
		{"just saying hi", ""},
	}
	for _, tc := range cases {
		if got := flaggedWord(tc.text); got != tc.want {
			t.Errorf("flaggedWord(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
