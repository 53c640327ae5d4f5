package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

const collectionActivity = "activity_log"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
// The collection is append-only: no update or delete path exists. The
// indexes cover project+timestamp and one secondary field each; there is
// deliberately no index on group_context, which is why group filtering
// happens in memory upstream.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

// Insert appends one immutable entry, assigning an id when the caller
// left it empty.
func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("insert activity: %w", err)
	}
	return entry.ID, nil
}

// ProjectPage returns up to limit entries newest-first. The cursor is the
// RFC3339Nano timestamp of the last entry of the previous page; HasMore
// follows the full-page convention (true exactly when count == limit).
func (r *ActivityRepository) ProjectPage(ctx context.Context, projectID string, limit int, cursor string) (*ports.ActivityPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": projectID}
	if cursor != "" {
		ts, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid activity cursor: %w", err)
		}
		filter["timestamp"] = bson.M{"$lt": ts}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []*domain.ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}

	page := &ports.ActivityPage{
		Entries: entries,
		HasMore: len(entries) == limit,
	}
	if len(entries) > 0 {
		page.NextCursor = entries[len(entries)-1].Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return page, nil
}

// Filter runs one single-shot filter query, newest-first, no cursor.
func (r *ActivityRepository) Filter(ctx context.Context, f ports.ActivityFilter) ([]*domain.ActivityEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": f.ProjectID}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		span := bson.M{}
		if !f.From.IsZero() {
			span["$gte"] = f.From.UTC()
		}
		if !f.To.IsZero() {
			span["$lte"] = f.To.UTC()
		}
		filter["timestamp"] = span
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(f.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []*domain.ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureIndexes creates necessary indexes on the activity_log collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "action", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
