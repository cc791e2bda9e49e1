package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/usergate/userauth/internal/core/domain"
	"github.com/usergate/userauth/internal/core/ports"
)

const (
	DefaultRoleTTL = 5 * time.Minute
	roleKeyPrefix  = "userauth:role:"
)

// CachedRoleRepository decorates a RoleRepository with a name -> id cache.
// Only roles that exist are cached; a miss always reaches the backing
// store, so a role created after startup becomes visible immediately.
// Redis failures degrade to direct store reads.
type CachedRoleRepository struct {
	next   ports.RoleRepository
	client *Client
	ttl    time.Duration
	log    zerolog.Logger
}

var _ ports.RoleRepository = (*CachedRoleRepository)(nil)

func NewCachedRoleRepository(next ports.RoleRepository, client *Client, ttl time.Duration, log zerolog.Logger) *CachedRoleRepository {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &CachedRoleRepository{next: next, client: client, ttl: ttl, log: log}
}

// FindByNames returns the existing roles among names, in the order asked.
func (c *CachedRoleRepository) FindByNames(ctx context.Context, names []string) ([]domain.Role, error) {
	names = domain.DedupeRoleNames(names)
	if len(names) == 0 {
		return []domain.Role{}, nil
	}

	found := make(map[string]domain.Role, len(names))
	misses := names

	vals, err := c.client.rdb.MGet(ctx, roleKeys(names)...).Result()
	if err != nil {
		c.log.Warn().Err(err).Msg("role cache read failed")
	} else {
		misses = misses[:0:0]
		for i, v := range vals {
			id, ok := v.(string)
			if !ok {
				misses = append(misses, names[i])
				continue
			}
			found[names[i]] = domain.Role{ID: id, Name: names[i]}
		}
	}

	if len(misses) > 0 {
		roles, err := c.next.FindByNames(ctx, misses)
		if err != nil {
			return nil, err
		}
		c.store(ctx, roles)
		for _, r := range roles {
			found[r.Name] = r
		}
	}

	out := make([]domain.Role, 0, len(found))
	for _, n := range names {
		if r, ok := found[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// EnsureRoles writes through to the backing store and drops the cached
// entries for names.
func (c *CachedRoleRepository) EnsureRoles(ctx context.Context, names []string) error {
	if err := c.next.EnsureRoles(ctx, names); err != nil {
		return err
	}
	names = domain.DedupeRoleNames(names)
	if len(names) == 0 {
		return nil
	}
	if err := c.client.rdb.Del(ctx, roleKeys(names)...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("role cache invalidation failed")
	}
	return nil
}

func (c *CachedRoleRepository) store(ctx context.Context, roles []domain.Role) {
	if len(roles) == 0 {
		return
	}
	pipe := c.client.rdb.Pipeline()
	for _, r := range roles {
		pipe.Set(ctx, roleKey(r.Name), r.ID, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Int("roles", len(roles)).Msg("role cache write failed")
	}
}

func roleKey(name string) string {
	return fmt.Sprintf("%s%s", roleKeyPrefix, name)
}

func roleKeys(names []string) []string {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = roleKey(n)
	}
	return keys
}
