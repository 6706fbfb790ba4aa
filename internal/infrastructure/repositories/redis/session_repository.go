package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediroom/internal/core/domain"
	"mediroom/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionRepository(client *redis.Client) ports.SessionRepository {
	return &RedisSessionRepository{
		client: client,
		prefix: "mediroom:session:",
	}
}

// member is the (room, identity) pair as stored in the index set. The same
// identity may hold sessions in several consultations; only a re-issue for
// the same room replaces an entry.
func member(roomName domain.RoomName, identity domain.Identity) string {
	return string(roomName) + "|" + string(identity)
}

func (r *RedisSessionRepository) sessionKey(m string) string {
	return r.prefix + m
}

func (r *RedisSessionRepository) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisSessionRepository) issuedKey() string {
	return "mediroom:tokens_issued"
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	m := member(session.RoomName, session.Identity)
	if err := r.client.Set(ctx, r.sessionKey(m), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.indexKey(), m).Err(); err != nil {
		return fmt.Errorf("failed to add session to index: %w", err)
	}

	if err := r.client.Incr(ctx, r.issuedKey()).Err(); err != nil {
		return fmt.Errorf("failed to increment issued counter: %w", err)
	}

	return nil
}

func (r *RedisSessionRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.Session, error) {
	members, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session index: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(members))
	for _, m := range members {
		data, err := r.client.Get(ctx, r.sessionKey(m)).Result()
		if err == redis.Nil {
			// Key ttl already reaped it; drop the stale index entry.
			r.client.SRem(ctx, r.indexKey(), m)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get session from Redis: %w", err)
		}

		var session domain.Session
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if session.Expired(now) {
			continue
		}
		sessions = append(sessions, &session)
	}

	return sessions, nil
}

func (r *RedisSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	members, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read session index: %w", err)
	}

	deleted := 0
	for _, m := range members {
		exists, err := r.client.Exists(ctx, r.sessionKey(m)).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to check session existence: %w", err)
		}
		if exists == 0 {
			if err := r.client.SRem(ctx, r.indexKey(), m).Err(); err != nil {
				return deleted, fmt.Errorf("failed to remove session from index: %w", err)
			}
			deleted++
		}
	}
	return deleted, nil
}

func (r *RedisSessionRepository) TokensIssued(ctx context.Context) (int64, error) {
	count, err := r.client.Get(ctx, r.issuedKey()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read issued counter: %w", err)
	}
	return count, nil
}
