package store

import "testing"

func TestEnsureMemberIdempotent(t *testing.T) {
	s, ctx := testStore(t)

	first, err := s.EnsureMember(ctx, "100", "1")
	if err != nil {
		t.Fatalf("EnsureMember: %v", err)
	}
	second, err := s.EnsureMember(ctx, "100", "1")
	if err != nil {
		t.Fatalf("EnsureMember again: %v", err)
	}
	if first.UserID != second.UserID || first.GuildID != second.GuildID {
		t.Errorf("member identity changed between calls")
	}
	if second.CatPoints != 0 {
		t.Errorf("fresh member has %d cat points", second.CatPoints)
	}
}

func TestCatPointsLeaderboard(t *testing.T) {
	s, ctx := testStore(t)

	if _, err := s.AwardCatPoints(ctx, "100", "1", 3); err != nil {
		t.Fatalf("AwardCatPoints: %v", err)
	}
	if _, err := s.AwardCatPoints(ctx, "200", "1", 5); err != nil {
		t.Fatalf("AwardCatPoints: %v", err)
	}
	if _, err := s.AwardCatPoints(ctx, "100", "1", 1); err != nil {
		t.Fatalf("AwardCatPoints: %v", err)
	}
	// Different guild, must not leak into the leaderboard.
	if _, err := s.AwardCatPoints(ctx, "300", "2", 10); err != nil {
		t.Fatalf("AwardCatPoints: %v", err)
	}

	top, err := s.TopCatPoints(ctx, "1")
	if err != nil {
		t.Fatalf("TopCatPoints: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len(top) = %d, want 2", len(top))
	}
	if top[0].UserID != "200" || top[0].CatPoints != 5 {
		t.Errorf("top[0] = %s/%d, want 200/5", top[0].UserID, top[0].CatPoints)
	}
	if top[1].UserID != "100" || top[1].CatPoints != 4 {
		t.Errorf("top[1] = %s/%d, want 100/4", top[1].UserID, top[1].CatPoints)
	}
}

func TestManagerRoles(t *testing.T) {
	s, ctx := testStore(t)

	if _, err := s.EnsureGuild(ctx, "1"); err != nil {
		t.Fatalf("EnsureGuild: %v", err)
	}
	if err := s.AddManagerRole(ctx, "1", "role1"); err != nil {
		t.Fatalf("AddManagerRole: %v", err)
	}
	// $addToSet keeps the list deduplicated.
	if err := s.AddManagerRole(ctx, "1", "role1"); err != nil {
		t.Fatalf("AddManagerRole repeat: %v", err)
	}

	guild, err := s.GetGuild(ctx, "1")
	if err != nil {
		t.Fatalf("GetGuild: %v", err)
	}
	if len(guild.ManagerRoles) != 1 || guild.ManagerRoles[0] != "role1" {
		t.Errorf("manager roles = %v, want [role1]", guild.ManagerRoles)
	}

	if err := s.RemoveManagerRole(ctx, "1", "role1"); err != nil {
		t.Fatalf("RemoveManagerRole: %v", err)
	}
	guild, _ = s.GetGuild(ctx, "1")
	if len(guild.ManagerRoles) != 0 {
		t.Errorf("manager roles after remove = %v, want empty", guild.ManagerRoles)
	}
}
