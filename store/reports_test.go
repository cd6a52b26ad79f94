package store

import (
	"errors"
	"testing"
)

func TestReportLifecycle(t *testing.T) {
	s, ctx := testStore(t)

	report := &Report{
		BugID:       1,
		UserID:      "100",
		Project:     "alpha",
		Title:       "crash on load",
		Description: "the game crashes immediately",
	}
	if err := s.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	got, err := s.GetReport(ctx, 1)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Status != StatusOpen {
		t.Errorf("new report status = %q, want %q", got.Status, StatusOpen)
	}
	if got.Sent {
		t.Error("new report should not be marked sent")
	}

	if err := s.SetPublished(ctx, 1, "msg1", "thread1"); err != nil {
		t.Fatalf("SetPublished: %v", err)
	}
	got, _ = s.GetReport(ctx, 1)
	if !got.Sent || got.MessageID != "msg1" || got.ThreadID != "thread1" {
		t.Errorf("after publish: sent=%v message=%q thread=%q", got.Sent, got.MessageID, got.ThreadID)
	}

	if err := s.SetReportStatus(ctx, 1, StatusClosed); err != nil {
		t.Fatalf("SetReportStatus: %v", err)
	}
	got, _ = s.GetReport(ctx, 1)
	if got.Status != StatusClosed {
		t.Errorf("status = %q, want %q", got.Status, StatusClosed)
	}

	if err := s.UpdateReportContent(ctx, 1, "new title", "new description", "beta"); err != nil {
		t.Fatalf("UpdateReportContent: %v", err)
	}
	got, _ = s.GetReport(ctx, 1)
	if got.Title != "new title" || got.Description != "new description" || got.Project != "beta" {
		t.Errorf("after edit: title=%q description=%q project=%q", got.Title, got.Description, got.Project)
	}
}

func TestReportNotFound(t *testing.T) {
	s, ctx := testStore(t)

	if _, err := s.GetReport(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetReport missing = %v, want ErrNotFound", err)
	}
	if err := s.SetReportStatus(ctx, 999, StatusClosed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetReportStatus missing = %v, want ErrNotFound", err)
	}
	if err := s.TombstoneReport(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("TombstoneReport missing = %v, want ErrNotFound", err)
	}
}

// Tombstoning twice must succeed and leave the same redacted row.
func TestTombstoneIdempotent(t *testing.T) {
	s, ctx := testStore(t)

	report := &Report{BugID: 5, UserID: "100", Project: "alpha", Title: "t", Description: "d"}
	if err := s.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	for range 2 {
		if err := s.TombstoneReport(ctx, 5); err != nil {
			t.Fatalf("TombstoneReport: %v", err)
		}
	}

	got, err := s.GetReport(ctx, 5)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Title != TombstoneText || got.Description != TombstoneText {
		t.Errorf("tombstone content: title=%q description=%q", got.Title, got.Description)
	}
	if got.Status != StatusClosed {
		t.Errorf("tombstone status = %q, want %q", got.Status, StatusClosed)
	}
}

func TestMediaRoundTrip(t *testing.T) {
	s, ctx := testStore(t)

	for i := range 2 {
		m := &Media{BugID: 7, UserID: "100", MediaType: "image", Extension: "png", Data: []byte{byte(i)}}
		if err := s.InsertMedia(ctx, m); err != nil {
			t.Fatalf("InsertMedia: %v", err)
		}
	}

	media, err := s.MediaForReport(ctx, 7)
	if err != nil {
		t.Fatalf("MediaForReport: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("len(media) = %d, want 2", len(media))
	}

	n, err := s.DeleteMediaForReport(ctx, 7)
	if err != nil {
		t.Fatalf("DeleteMediaForReport: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	if count, _ := s.CountMedia(ctx, 7); count != 0 {
		t.Errorf("count after delete = %d, want 0", count)
	}
}
