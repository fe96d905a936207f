// Package redisstore backs the pending-verification cache with Redis.
// Keys are tagged by flow kind so registration and reset codes for the
// same email live in distinct key spaces, and the TTL set on Put is the
// expiry enforcement.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamrorooms/rooms-api/internal/domain/entity"
	"github.com/hamrorooms/rooms-api/internal/domain/repository"
)

type PendingStore struct {
	rdb *redis.Client
}

func NewPendingStore(rdb *redis.Client) *PendingStore {
	return &PendingStore{rdb: rdb}
}

func key(kind entity.VerificationKind, email string) string {
	return "verify:" + string(kind) + ":" + email
}

// consumeScript compares the stored entry's code against ARGV[1] and
// deletes the key only on match, making validate+delete one atomic
// step per key. Returns the consumed payload or false.
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return false
end
local entry = cjson.decode(raw)
if entry.code ~= ARGV[1] then
  return false
end
redis.call("DEL", KEYS[1])
return raw
`)

func (s *PendingStore) Put(ctx context.Context, p entity.PendingVerification, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(p.Kind, p.Email), b, ttl).Err()
}

func (s *PendingStore) Get(ctx context.Context, kind entity.VerificationKind, email string) (*entity.PendingVerification, error) {
	raw, err := s.rdb.Get(ctx, key(kind, email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := &entity.PendingVerification{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PendingStore) Consume(ctx context.Context, kind entity.VerificationKind, email, code string) (*entity.PendingVerification, bool, error) {
	res, err := consumeScript.Run(ctx, s.rdb, []string{key(kind, email)}, code).Result()
	if errors.Is(err, redis.Nil) {
		// script returned false
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	raw, ok := res.(string)
	if !ok {
		return nil, false, nil
	}
	p := &entity.PendingVerification{}
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

var _ repository.PendingStore = (*PendingStore)(nil)
