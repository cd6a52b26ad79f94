package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bugCounterName = "bug_id"

type counterDoc struct {
	ID       string `bson:"_id"`
	Sequence int64  `bson:"sequence_value"`
}

// NextReportID atomically increments and returns the report sequence.
// Identifiers are monotonically increasing and never reused; gaps are
// possible when a later step fails, duplicates are not.
func (s *Store) NextReportID(ctx context.Context) (int64, error) {
	var doc counterDoc
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": bugCounterName},
		bson.M{"$inc": bson.M{"sequence_value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Sequence, nil
}
