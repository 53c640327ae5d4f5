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

const collectionMemberships = "memberships"

// MembershipRepository implements ports.MembershipRepository using MongoDB.
// The (project_id, user_id) pair carries a unique index, so Put's upsert is
// the store-level guarantee of at most one membership per user per project.
type MembershipRepository struct {
	col *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{col: db.Collection(collectionMemberships)}
}

func (r *MembershipRepository) Get(ctx context.Context, projectID, userID string) (*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Membership
	err := r.col.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetRole fetches only the role field. Issued concurrently with GetGroup
// by the permission facade.
func (r *MembershipRepository) GetRole(ctx context.Context, projectID, userID string) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Role domain.Role `bson:"role"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := r.col.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrMembershipNotFound
		}
		return "", err
	}
	return doc.Role, nil
}

// GetGroup fetches only the group field, defaulting legacy records that
// lack it to consulting.
func (r *MembershipRepository) GetGroup(ctx context.Context, projectID, userID string) (domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Group domain.Group `bson:"group"`
	}
	opts := options.FindOne().SetProjection(bson.M{"group": 1})
	err := r.col.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrMembershipNotFound
		}
		return "", err
	}
	if !doc.Group.Valid() {
		return domain.DefaultGroup, nil
	}
	return doc.Group, nil
}

// Put inserts or replaces the membership for its identity key.
func (r *MembershipRepository) Put(ctx context.Context, m *domain.Membership) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": m.ProjectID, "user_id": m.UserID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, filter, m, opts)
	return err
}

// ClaimProject inserts the membership only when no membership for the
// project exists yet. The filter matches any membership of the project,
// so the upsert inserts exactly when the project is empty and reports a
// no-op otherwise.
func (r *MembershipRepository) ClaimProject(ctx context.Context, m *domain.Membership) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"project_id": m.ProjectID},
		bson.M{"$setOnInsert": m},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, projectID, userID string, role domain.Role) error {
	return r.patchField(ctx, projectID, userID, "role", string(role))
}

func (r *MembershipRepository) UpdateGroup(ctx context.Context, projectID, userID string, group domain.Group) error {
	return r.patchField(ctx, projectID, userID, "group", string(group))
}

func (r *MembershipRepository) patchField(ctx context.Context, projectID, userID, field, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"project_id": projectID, "user_id": userID},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, projectID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"project_id": projectID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func (r *MembershipRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []*domain.Membership
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// EnsureIndexes creates necessary indexes on the memberships collection.
func (r *MembershipRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
