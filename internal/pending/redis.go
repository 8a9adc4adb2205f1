package pending

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "fpbg:pending:"

// RedisStore : store externe avec TTL natif, pour survivre aux redémarrages
// et permettre plusieurs instances du service.
type RedisStore struct {
	rdb *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *RedisStore) Get(ctx context.Context, email string) (*Registration, error) {
	raw, err := s.rdb.Get(ctx, redisPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var reg Registration
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *RedisStore) Put(ctx context.Context, email string, reg *Registration) error {
	raw, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	// Le TTL Redis suit l'expiration du code; le service re-vérifie quand
	// même ExpiresAt à la lecture (horloges indépendantes).
	ttl := time.Until(reg.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.rdb.Set(ctx, redisPrefix+email, raw, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, redisPrefix+email).Err()
}

// Ping vérifie la connexion au démarrage.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
