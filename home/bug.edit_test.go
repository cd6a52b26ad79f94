package home

import (
	"strings"
	"testing"

	"github.com/sillowww/keeper/store"
)

func TestChangedFields(t *testing.T) {
	report := &store.Report{Title: "a", Description: "b", Project: "alpha"}

	if got := changedFields(report, "a", "b", "alpha"); len(got) != 0 {
		t.Errorf("no-op edit reported changes: %v", got)
	}

	got := changedFields(report, "a2", "b", "beta")
	want := []string{"title", "project"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("changedFields = %v, want %v", got, want)
	}

	if got := changedFields(report, "a", "b2", "alpha"); len(got) != 1 || got[0] != "description" {
		t.Errorf("changedFields = %v, want [description]", got)
	}
}

func TestJoinChanged(t *testing.T) {
	if got := joinChanged(nil); got != "nothing" {
		t.Errorf("joinChanged(nil) = %q", got)
	}
	if got := joinChanged([]string{"title", "project"}); got != "title, project" {
		t.Errorf("joinChanged = %q", got)
	}
}

func TestThreadName(t *testing.T) {
	if got := threadName(1, "Crash on load"); got != "#1: Crash on load" {
		t.Errorf("threadName = %q", got)
	}

	long := strings.Repeat("x", 80)
	got := threadName(42, long)
	if !strings.HasPrefix(got, "#42: ") || !strings.HasSuffix(got, "...") {
		t.Errorf("long threadName = %q", got)
	}
	if len(got) > len("#42: ")+53 {
		t.Errorf("threadName too long: %d chars", len(got))
	}
}

func TestBuildTrelloURL(t *testing.T) {
	u := buildTrelloURL("my bug", "https://discord.com/channels/1/2/3", "board1")
	for _, want := range []string{"name=my+bug", "idBoard=board1", "url=https%3A%2F%2Fdiscord.com"} {
		if !strings.Contains(u, want) {
			t.Errorf("trello url %q missing %q", u, want)
		}
	}

	u = buildTrelloURL("t", "", "b")
	if strings.Contains(u, "url=") {
		t.Errorf("trello url %q should omit empty url param", u)
	}
}
