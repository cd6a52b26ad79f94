package sys

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProjects(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjects(t *testing.T) {
	path := writeProjects(t, `{
		"terminology": "game",
		"projects": {
			"beta": {"name": "Beta Game", "universe": 42},
			"alpha": {"name": "Alpha", "display_name": "Alpha Deluxe", "trello_board_id": "abc"}
		}
	}`)

	pm, err := LoadProjects(path)
	if err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}

	if pm.Terminology != "game" {
		t.Errorf("terminology = %q", pm.Terminology)
	}
	if got := pm.Keys(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("keys = %v, want sorted [alpha beta]", got)
	}

	alpha, ok := pm.Get("alpha")
	if !ok {
		t.Fatal("alpha missing")
	}
	if alpha.Key != "alpha" || alpha.DisplayName != "Alpha Deluxe" || alpha.TrelloBoardID != "abc" {
		t.Errorf("alpha = %+v", alpha)
	}

	// display_name falls back to name when omitted
	if got := pm.DisplayName("beta"); got != "Beta Game" {
		t.Errorf("beta display name = %q", got)
	}
	if got := pm.DisplayName("nope"); got != "unknown game" {
		t.Errorf("unknown display name = %q", got)
	}
}

func TestLoadProjectsDefaults(t *testing.T) {
	path := writeProjects(t, `{"projects": {"a": {"name": "A"}}}`)
	pm, err := LoadProjects(path)
	if err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if pm.Terminology != "project" {
		t.Errorf("default terminology = %q", pm.Terminology)
	}
}

func TestLoadProjectsRejectsBadFiles(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty set", `{"projects": {}}`},
		{"nameless project", `{"projects": {"a": {}}}`},
		{"empty key", `{"projects": {"": {"name": "A"}}}`},
		{"not json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadProjects(writeProjects(t, tc.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
