package guard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"semaphore/portal/internal/api"
	"semaphore/portal/internal/auth"
)

// Fetcher loads the permission set of the session in ctx.
type Fetcher interface {
	Mine(ctx context.Context) (*api.Envelope[api.PermissionSet], error)
}

// Lookup resolves permissions for the session in ctx. Claims win over the
// cache, and the cache over the backend.
type Lookup struct {
	fetcher Fetcher
	redis   *redis.Client
	ttl     time.Duration
	group   singleflight.Group
}

func NewLookup(fetcher Fetcher, redisClient *redis.Client, ttl time.Duration) *Lookup {
	return &Lookup{fetcher: fetcher, redis: redisClient, ttl: ttl}
}

// FromSession returns the permissions carried by the session claims.
func FromSession(s *auth.Session) (api.PermissionSet, bool) {
	if s == nil || len(s.Permissions) == 0 {
		return api.PermissionSet{}, false
	}
	return api.PermissionSet{Roles: s.Roles, Permissions: s.Permissions}, true
}

func (l *Lookup) Permissions(ctx context.Context) (api.PermissionSet, error) {
	session := auth.SessionFrom(ctx)
	if !session.HasToken() {
		return api.PermissionSet{}, api.ErrNoSession
	}
	if set, ok := FromSession(session); ok {
		return set, nil
	}

	key := permissionsKey(session.AccessToken)
	if set, ok, err := l.loadCached(ctx, key); err != nil {
		log.Printf("permission cache read failed: %v", err)
	} else if ok {
		return set, nil
	}

	value, err, _ := l.group.Do(key, func() (interface{}, error) {
		env, err := l.fetcher.Mine(ctx)
		if err != nil {
			return api.PermissionSet{}, errors.Wrap(err, "loading permissions")
		}
		if !env.Success {
			return api.PermissionSet{}, errors.Errorf("loading permissions: %s", env.Message)
		}
		if err := l.storeCached(ctx, key, env.Data); err != nil {
			log.Printf("permission cache write failed: %v", err)
		}
		return env.Data, nil
	})
	if err != nil {
		return api.PermissionSet{}, err
	}
	return value.(api.PermissionSet), nil
}

func (l *Lookup) loadCached(ctx context.Context, key string) (api.PermissionSet, bool, error) {
	if l.redis == nil {
		return api.PermissionSet{}, false, nil
	}
	value, err := l.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return api.PermissionSet{}, false, nil
	}
	if err != nil {
		return api.PermissionSet{}, false, err
	}
	var set api.PermissionSet
	if err := json.Unmarshal(value, &set); err != nil {
		return api.PermissionSet{}, false, err
	}
	return set, true, nil
}

func (l *Lookup) storeCached(ctx context.Context, key string, set api.PermissionSet) error {
	if l.redis == nil {
		return nil
	}
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return l.redis.Set(ctx, key, data, l.ttl).Err()
}

func permissionsKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("permissions:%s", hex.EncodeToString(sum[:]))
}
