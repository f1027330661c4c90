package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

const (
	keyPrefix  = "meetassist:session:"
	lockPrefix = "meetassist:run:"

	// lockTTL bounds how long a crashed run can block its session. A live
	// run keeps extending its lock every lockTTL/3.
	lockTTL = 5 * time.Minute
)

// Both scripts act only while the lock still holds the caller's token.
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

type redisStore struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration

	mu     sync.Mutex
	leases map[string]*lease
}

// lease is a run lock held by this process.
type lease struct {
	token string
	stop  context.CancelFunc
	done  chan struct{}
}

// NewRedis stores sessions as JSON values that expire after ttl of inactivity.
func NewRedis(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
		leases:  make(map[string]*lease),
	}
}

func (r *redisStore) Create(ctx context.Context) (domain.Session, error) {
	now := time.Now()
	s := domain.Session{
		ID:        uuid.NewString(),
		Stage:     domain.StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.put(ctx, s); err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

func (r *redisStore) Get(ctx context.Context, id string) (domain.Session, error) {
	raw, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, apperr.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session %s: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *redisStore) Save(ctx context.Context, s domain.Session) error {
	n, err := r.client.Exists(ctx, keyPrefix+s.ID).Result()
	if err != nil {
		return fmt.Errorf("check session %s: %w", s.ID, err)
	}
	if n == 0 {
		return apperr.ErrSessionNotFound
	}

	s.UpdatedAt = time.Now()
	return r.put(ctx, s)
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, keyPrefix+id, lockPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return apperr.ErrSessionNotFound
	}
	return nil
}

func (r *redisStore) AcquireRun(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check session %s: %w", id, err)
	}
	if n == 0 {
		return false, apperr.ErrSessionNotFound
	}

	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, lockPrefix+id, token, r.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock session %s: %w", id, err)
	}
	if !ok {
		return false, nil
	}

	keepCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	l := &lease{token: token, stop: stop, done: make(chan struct{})}
	go r.keepAlive(keepCtx, id, l)

	r.mu.Lock()
	r.leases[id] = l
	r.mu.Unlock()
	return true, nil
}

// ReleaseRun drops the lock only if it still carries this process's token,
// so a lock taken over after expiry is left alone.
func (r *redisStore) ReleaseRun(ctx context.Context, id string) error {
	r.mu.Lock()
	l, ok := r.leases[id]
	delete(r.leases, id)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	l.stop()
	<-l.done

	if err := releaseScript.Run(ctx, r.client, []string{lockPrefix + id}, l.token).Err(); err != nil {
		return fmt.Errorf("unlock session %s: %w", id, err)
	}
	return nil
}

func (r *redisStore) keepAlive(ctx context.Context, id string, l *lease) {
	defer close(l.done)

	ticker := time.NewTicker(r.lockTTL / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			held, err := r.extend(ctx, id, l.token)
			if err != nil || !held {
				return
			}
		}
	}
}

// extend resets the lock TTL and reports whether the token still owns it.
func (r *redisStore) extend(ctx context.Context, id, token string) (bool, error) {
	n, err := extendScript.Run(ctx, r.client, []string{lockPrefix + id}, token, r.lockTTL.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("extend lock %s: %w", id, err)
	}
	return n == 1, nil
}

func (r *redisStore) put(ctx context.Context, s domain.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, keyPrefix+s.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", s.ID, err)
	}
	return nil
}
