package home

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
)

func TestCanManageReportAuthor(t *testing.T) {
	// The author can always manage, regardless of roles or permissions.
	if !canManageReport("100", "100", 0, "", nil, []string{"555"}) {
		t.Error("author denied")
	}
}

func TestCanManageReportManageGuild(t *testing.T) {
	if !canManageReport("200", "100", discord.PermissionManageGuild, "", nil, nil) {
		t.Error("ManageGuild holder denied")
	}
}

func TestCanManageReportOwner(t *testing.T) {
	if !canManageReport("300", "100", 0, "300", nil, nil) {
		t.Error("guild owner denied")
	}
}

func TestCanManageReportManagerRole(t *testing.T) {
	if !canManageReport("200", "100", 0, "", []string{"1", "555"}, []string{"555"}) {
		t.Error("manager role holder denied")
	}
}

func TestCanManageReportDenied(t *testing.T) {
	// Non-author, no elevated permission, no role intersection.
	if canManageReport("200", "100", discord.PermissionSendMessages, "300", []string{"1", "2"}, []string{"555"}) {
		t.Error("unprivileged actor allowed")
	}
	// Empty manager role set never matches.
	if canManageReport("200", "100", 0, "", []string{"1"}, nil) {
		t.Error("actor allowed with no manager roles configured")
	}
}
