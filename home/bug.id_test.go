package home

import "testing"

func TestParseBugActionID(t *testing.T) {
	tests := []struct {
		in     string
		action bugAction
		id     int64
		ok     bool
	}{
		{"bug:new", actionNew, 0, true},
		{"bug:close:42", actionClose, 42, true},
		{"bug:open:1", actionOpen, 1, true},
		{"bug:edit:9001", actionEdit, 9001, true},
		{"bug:delete:7", actionDelete, 7, true},
		{"bug:close", 0, 0, false},
		{"bug:close:42:extra", 0, 0, false},
		{"bug:new:1", 0, 0, false},
		{"bug:nuke:42", 0, 0, false},
		{"bug:close:forty", 0, 0, false},
		{"bug:close:0", 0, 0, false},
		{"bug:close:-3", 0, 0, false},
		{"bug:", 0, 0, false},
		{"ping_refresh", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		action, id, err := parseBugActionID(tt.in)
		if tt.ok {
			if err != nil {
				t.Errorf("parseBugActionID(%q) unexpected error: %v", tt.in, err)
				continue
			}
			if action != tt.action || id != tt.id {
				t.Errorf("parseBugActionID(%q) = (%v, %d), want (%v, %d)", tt.in, action, id, tt.action, tt.id)
			}
		} else if err == nil {
			t.Errorf("parseBugActionID(%q) expected error, got (%v, %d)", tt.in, action, id)
		}
	}
}

func TestBugActionIDRoundTrip(t *testing.T) {
	for _, action := range []bugAction{actionClose, actionOpen, actionEdit, actionDelete} {
		id := bugActionID(action, 123)
		got, gotID, err := parseBugActionID(id)
		if err != nil {
			t.Fatalf("round trip %v: %v", action, err)
		}
		if got != action || gotID != 123 {
			t.Fatalf("round trip %v = (%v, %d)", action, got, gotID)
		}
	}

	if id := bugActionID(actionNew, 999); id != "bug:new" {
		t.Fatalf("actionNew id = %q, want bug:new", id)
	}
}
