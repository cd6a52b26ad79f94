package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateReport persists a new bug report. The caller is responsible for
// allocating the id via NextReportID first.
func (s *Store) CreateReport(ctx context.Context, r *Report) error {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = StatusOpen
	}
	_, err := s.reports.InsertOne(ctx, r)
	return err
}

// GetReport fetches a report by its sequential bug id.
func (s *Store) GetReport(ctx context.Context, bugID int64) (*Report, error) {
	var r Report
	err := s.reports.FindOne(ctx, bson.M{"bug_id": bugID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SetPublished marks a report as sent and records its message and thread.
func (s *Store) SetPublished(ctx context.Context, bugID int64, messageID, threadID string) error {
	_, err := s.reports.UpdateOne(ctx,
		bson.M{"bug_id": bugID},
		bson.M{"$set": bson.M{
			"sent":       true,
			"message_id": messageID,
			"thread_id":  threadID,
			"updated_at": time.Now().UTC(),
		}},
	)
	return err
}

// SetReportStatus transitions a report between open and closed.
func (s *Store) SetReportStatus(ctx context.Context, bugID int64, status string) error {
	res, err := s.reports.UpdateOne(ctx,
		bson.M{"bug_id": bugID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateReportContent overwrites the report's editable fields.
func (s *Store) UpdateReportContent(ctx context.Context, bugID int64, title, description, project string) error {
	res, err := s.reports.UpdateOne(ctx,
		bson.M{"bug_id": bugID},
		bson.M{"$set": bson.M{
			"title":       title,
			"description": description,
			"project":     project,
			"updated_at":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TombstoneReport soft-deletes a report. The record survives so the id
// stays burned, but its content is replaced and it is forced closed.
// Running it against an already tombstoned report is a no-op.
func (s *Store) TombstoneReport(ctx context.Context, bugID int64) error {
	res, err := s.reports.UpdateOne(ctx,
		bson.M{"bug_id": bugID},
		bson.M{"$set": bson.M{
			"title":       TombstoneText,
			"description": TombstoneText,
			"status":      StatusClosed,
			"updated_at":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
