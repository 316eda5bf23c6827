package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps progress in Redis under quiz:<learner>:<lecture>:* keys.
// Snapshots live in a plain string key; attempt history is an RPUSH list so
// appends never rewrite earlier records.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func progressKey(learnerID, lectureID string) string {
	return fmt.Sprintf("quiz:%s:%s:in_progress", learnerID, lectureID)
}

func attemptsKey(learnerID, lectureID string) string {
	return fmt.Sprintf("quiz:%s:%s:attempts", learnerID, lectureID)
}

func (s *RedisStore) SaveProgress(ctx context.Context, learnerID, lectureID string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, progressKey(learnerID, lectureID), data, 0).Err()
}

func (s *RedisStore) LoadProgress(ctx context.Context, learnerID, lectureID string) (Snapshot, bool, error) {
	raw, err := s.rdb.Get(ctx, progressKey(learnerID, lectureID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *RedisStore) ClearProgress(ctx context.Context, learnerID, lectureID string) error {
	return s.rdb.Del(ctx, progressKey(learnerID, lectureID)).Err()
}

func (s *RedisStore) AppendAttempt(ctx context.Context, learnerID, lectureID string, a Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, attemptsKey(learnerID, lectureID), data).Err()
}

func (s *RedisStore) ListAttempts(ctx context.Context, learnerID, lectureID string) ([]Attempt, error) {
	vals, err := s.rdb.LRange(ctx, attemptsKey(learnerID, lectureID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Attempt, 0, len(vals))
	for _, v := range vals {
		var a Attempt
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
