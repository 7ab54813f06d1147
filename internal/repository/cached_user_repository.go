package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/domain"
)

const userCacheKeyPrefix = "user:"

type cachedUser struct {
	ID               uuid.UUID        `json:"id"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Email            string           `json:"email"`
	State            domain.UserState `json:"state"`
	RegistrationDate time.Time        `json:"registration_date"`
	Version          int64            `json:"version"`
}

// storeIfNewer writes ARGV[1] under KEYS[1] unless the entry already there
// carries a version at or above ARGV[2]. ARGV[3] is the TTL in milliseconds,
// zero for none.
var storeIfNewer = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
  local ok, entry = pcall(cjson.decode, current)
  if ok and type(entry) == 'table' and tonumber(entry['version']) and tonumber(entry['version']) >= tonumber(ARGV[2]) then
    return 0
  end
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

type cachedUserRepository struct {
	next   UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository decorates next with a Redis cache of rows by id.
//
// Entries are refreshed after every successful Save and evicted when a save
// hits a version conflict, so a caller that reloads after
// *domain.ConcurrentModificationError reads the authoritative row. A write
// never replaces an entry holding the same or a newer version, so a late
// refresh cannot roll the cache back. Cache failures are logged and fall
// through to next.
func NewCachedUserRepository(next UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	return &cachedUserRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *cachedUserRepository) ExistsByEmailIgnoreCase(ctx context.Context, email string) (bool, error) {
	return r.next.ExistsByEmailIgnoreCase(ctx, email)
}

func (r *cachedUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.next.FindAll(ctx)
}

func (r *cachedUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := r.get(ctx, id); ok {
		return user, nil
	}
	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, user)
	return user, nil
}

func (r *cachedUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := r.next.Save(ctx, user)
	if err != nil {
		var conflict *domain.ConcurrentModificationError
		if errors.As(err, &conflict) {
			r.evict(ctx, user.ID)
		}
		return nil, err
	}
	r.set(ctx, saved)
	return saved, nil
}

func (r *cachedUserRepository) get(ctx context.Context, id uuid.UUID) (*domain.User, bool) {
	raw, err := r.client.Get(ctx, userCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("user cache read failed", zap.String("user_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	var entry cachedUser
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.logger.Warn("user cache entry corrupt", zap.String("user_id", id.String()), zap.Error(err))
		r.evict(ctx, id)
		return nil, false
	}
	return &domain.User{
		ID:               entry.ID,
		FirstName:        entry.FirstName,
		LastName:         entry.LastName,
		Email:            entry.Email,
		State:            entry.State,
		RegistrationDate: entry.RegistrationDate,
		Version:          entry.Version,
	}, true
}

func (r *cachedUserRepository) set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(cachedUser{
		ID:               user.ID,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Email:            user.Email,
		State:            user.State,
		RegistrationDate: user.RegistrationDate,
		Version:          user.Version,
	})
	if err != nil {
		r.logger.Warn("user cache encode failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	keys := []string{userCacheKey(user.ID)}
	if err := storeIfNewer.Run(ctx, r.client, keys, raw, user.Version, r.ttl.Milliseconds()).Err(); err != nil {
		r.logger.Warn("user cache write failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func (r *cachedUserRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.client.Del(ctx, userCacheKey(id)).Err(); err != nil {
		r.logger.Warn("user cache evict failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}

func userCacheKey(id uuid.UUID) string {
	return userCacheKeyPrefix + id.String()
}
