package dashboards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VisibleSetCache stores a user's visible-report id set in Redis so repeated
// dashboard checks within the TTL skip re-resolving every report.
type VisibleSetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVisibleSetCache constructs a VisibleSetCache.
func NewVisibleSetCache(client *redis.Client, ttl time.Duration) *VisibleSetCache {
	return &VisibleSetCache{client: client, ttl: ttl}
}

func (c *VisibleSetCache) key(accountID, userID int64) string {
	return fmt.Sprintf("allspark:visible-queries:%d:%d", accountID, userID)
}

// Get returns the cached set, or nil on a miss. Cache failures degrade to a
// miss rather than failing the authorization call.
func (c *VisibleSetCache) Get(ctx context.Context, accountID, userID int64) map[int64]struct{} {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := c.client.Get(ctx, c.key(accountID, userID)).Bytes()
	if err != nil {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Put stores the set.
func (c *VisibleSetCache) Put(ctx context.Context, accountID, userID int64, set map[int64]struct{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(accountID, userID), payload, c.ttl).Err()
}

// Invalidate drops a user's cached set, called when shares change.
func (c *VisibleSetCache) Invalidate(ctx context.Context, accountID, userID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Del(ctx, c.key(accountID, userID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
