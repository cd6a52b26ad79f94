package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// InsertMedia stores a downloaded attachment blob for a report.
func (s *Store) InsertMedia(ctx context.Context, m *Media) error {
	m.CreatedAt = time.Now().UTC()
	_, err := s.media.InsertOne(ctx, m)
	return err
}

// MediaForReport returns all media rows attached to a report, oldest first.
func (s *Store) MediaForReport(ctx context.Context, bugID int64) ([]Media, error) {
	cur, err := s.media.Find(ctx, bson.M{"bug_id": bugID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []Media
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountMedia reports how many media rows a report carries.
func (s *Store) CountMedia(ctx context.Context, bugID int64) (int64, error) {
	return s.media.CountDocuments(ctx, bson.M{"bug_id": bugID})
}

// DeleteMediaForReport removes every media row for a report. Used by the
// tombstone path so the blobs do not linger after a delete.
func (s *Store) DeleteMediaForReport(ctx context.Context, bugID int64) (int64, error) {
	res, err := s.media.DeleteMany(ctx, bson.M{"bug_id": bugID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
