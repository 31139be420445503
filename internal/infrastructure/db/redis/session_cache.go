package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// Two cache tiers, distinguished by key prefix: the session tier mirrors
// the resolved identity snapshot, the local tier holds the optional
// session-expiry epoch and anything else a backend session leaves behind.
// PurgeAll sweeps both prefixes so an abandoned remote sign-out cannot
// leave stale identity material around.
const (
	sessionPrefix = "session:"
	localPrefix   = "local:"

	keyIdentity = sessionPrefix + "identity"
	keyToken    = sessionPrefix + "token"
	keyExpiry   = localPrefix + "session_expiry"

	sessionTTL = 24 * time.Hour
)

// SessionCache is the Redis-backed rendition of the local two-tier
// key/value store.
type SessionCache struct {
	client *redis.Client
}

var _ ports.SessionCache = (*SessionCache)(nil)

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// SaveIdentity mirrors the resolved identity snapshot and its token into
// the session tier.
func (c *SessionCache) SaveIdentity(ctx context.Context, user domain.User, token string) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := c.client.Set(ctx, keyIdentity, payload, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	if err := c.client.Set(ctx, keyToken, token, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// LoadIdentity returns the cached snapshot and token, or (nil, "") when
// nothing is cached.
func (c *SessionCache) LoadIdentity(ctx context.Context) (*domain.User, string, error) {
	payload, err := c.client.Get(ctx, keyIdentity).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("load identity: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		// A corrupt snapshot is treated as absent; the strict check will
		// rebuild it.
		return nil, "", nil
	}

	token, err := c.client.Get(ctx, keyToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("load token: %w", err)
	}
	return &user, token, nil
}

// SaveSessionExpiry persists the client-side expiry epoch used when
// "remember me" is declined.
func (c *SessionCache) SaveSessionExpiry(ctx context.Context, at time.Time) error {
	return c.client.Set(ctx, keyExpiry, strconv.FormatInt(at.UnixMilli(), 10), 0).Err()
}

// ClearSessionExpiry removes a stored expiry epoch, if any.
func (c *SessionCache) ClearSessionExpiry(ctx context.Context) error {
	return c.client.Del(ctx, keyExpiry).Err()
}

// SessionExpiry returns the stored epoch; ok is false when none is set.
func (c *SessionCache) SessionExpiry(ctx context.Context) (time.Time, bool, error) {
	raw, err := c.client.Get(ctx, keyExpiry).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("load session expiry: %w", err)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// PurgeAll deletes every key in both tiers via prefix scan. It is the
// cleanup path used on logout and after a failed strict check.
func (c *SessionCache) PurgeAll(ctx context.Context) error {
	for _, prefix := range []string{sessionPrefix, localPrefix} {
		if err := c.purgePrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

func (c *SessionCache) purgePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("purge %s: %w", prefix, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
