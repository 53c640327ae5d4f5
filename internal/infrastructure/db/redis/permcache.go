package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/collabworks/portal-api/internal/api/metrics"
	"github.com/collabworks/portal-api/internal/core/domain"
)

const permTTL = 30 * time.Second

// PermissionCache stores resolved (role, group) pairs with a short TTL.
// Key format: perm:<project_id>:<user_id>
// Membership mutations invalidate eagerly; the TTL bounds staleness when
// invalidation is missed.
type PermissionCache struct {
	client *redis.Client
}

// NewPermissionCache creates a PermissionCache wrapping the given client.
func NewPermissionCache(client *redis.Client) *PermissionCache {
	return &PermissionCache{client: client}
}

type cachedPerms struct {
	Role   domain.Role  `json:"role"`
	Group  domain.Group `json:"group"`
	Member bool         `json:"member"`
}

// Get returns the cached permission set, or nil on a miss.
func (c *PermissionCache) Get(ctx context.Context, projectID, userID string) (*domain.PermissionSet, error) {
	raw, err := c.client.Get(ctx, c.key(projectID, userID)).Bytes()
	if err == redis.Nil {
		metrics.PermissionCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("perm cache get: %w", err)
	}

	var cp cachedPerms
	if err := json.Unmarshal(raw, &cp); err != nil {
		// Treat a corrupt entry as a miss; it will be rewritten.
		metrics.PermissionCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	metrics.PermissionCacheTotal.WithLabelValues("hit").Inc()
	return &domain.PermissionSet{Role: cp.Role, Group: cp.Group, Member: cp.Member}, nil
}

// Set stores the permission set with the cache TTL.
func (c *PermissionCache) Set(ctx context.Context, projectID, userID string, perms domain.PermissionSet) error {
	raw, err := json.Marshal(cachedPerms{Role: perms.Role, Group: perms.Group, Member: perms.Member})
	if err != nil {
		return fmt.Errorf("perm cache set: %w", err)
	}
	return c.client.Set(ctx, c.key(projectID, userID), raw, permTTL).Err()
}

// Invalidate drops the cached entry for (projectID, userID).
func (c *PermissionCache) Invalidate(ctx context.Context, projectID, userID string) error {
	return c.client.Del(ctx, c.key(projectID, userID)).Err()
}

func (c *PermissionCache) key(projectID, userID string) string {
	return fmt.Sprintf("perm:%s:%s", projectID, userID)
}
