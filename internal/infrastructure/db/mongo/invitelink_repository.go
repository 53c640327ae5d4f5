package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabworks/portal-api/internal/core/domain"
)

const collectionInviteLinks = "invite_links"

// InviteLinkRepository implements ports.InviteLinkRepository using MongoDB.
type InviteLinkRepository struct {
	col *mongo.Collection
}

func NewInviteLinkRepository(db *mongo.Database) *InviteLinkRepository {
	return &InviteLinkRepository{col: db.Collection(collectionInviteLinks)}
}

func (r *InviteLinkRepository) Insert(ctx context.Context, link *domain.InviteLink) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, link)
	return err
}

// FindByID returns (nil, nil) when no link has the id.
func (r *InviteLinkRepository) FindByID(ctx context.Context, id string) (*domain.InviteLink, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByToken returns (nil, nil) when no link carries the token; an
// unknown token is an expected answer, not a store failure.
func (r *InviteLinkRepository) FindByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *InviteLinkRepository) findOne(ctx context.Context, filter bson.M) (*domain.InviteLink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var link domain.InviteLink
	err := r.col.FindOne(ctx, filter).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// ListByProject returns the project's links newest-first. A non-empty
// createdBy narrows the query itself, so the role-based scoping is
// enforced at the store, not by hiding rows after the fact.
func (r *InviteLinkRepository) ListByProject(ctx context.Context, projectID, createdBy string) ([]*domain.InviteLink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": projectID}
	if createdBy != "" {
		filter["created_by"] = createdBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var links []*domain.InviteLink
	if err := cur.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// MarkUsed claims the link with a conditional update keyed on
// status == "active". Mongo's single-document atomicity makes this the
// arbiter between concurrent acceptors: exactly one update matches.
func (r *InviteLinkRepository) MarkUsed(ctx context.Context, id, acceptedBy string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.LinkActive},
		bson.M{"$set": bson.M{
			"status":      domain.LinkUsed,
			"accepted_by": acceptedBy,
			"accepted_at": at.UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// MarkRevoked conditionally moves an active link to revoked.
func (r *InviteLinkRepository) MarkRevoked(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.LinkActive},
		bson.M{"$set": bson.M{"status": domain.LinkRevoked}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// EnsureIndexes creates necessary indexes on the invite_links collection.
func (r *InviteLinkRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_by", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
