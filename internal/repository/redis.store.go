package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"issuing-service/internal/cache"
	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"
)

// Redis-backed challenge and session stores. TTLs are native redis expiries,
// so the lazy-expiry contract comes for free; Consume maps to GETDEL.

type RedisChallengeStore struct {
	cache cache.Cache
}

func NewRedisChallengeStore(c cache.Cache) *RedisChallengeStore {
	return &RedisChallengeStore{cache: c}
}

func (s *RedisChallengeStore) Put(ctx context.Context, ch *domain.OtpChallenge, ttl time.Duration) error {
	raw, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	return s.cache.Set(ctx, "otp", ch.Email, string(raw), ttl)
}

func (s *RedisChallengeStore) Get(ctx context.Context, email string) (*domain.OtpChallenge, error) {
	raw, err := s.cache.Get(ctx, "otp", email)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeChallenge(raw)
}

func (s *RedisChallengeStore) Update(ctx context.Context, ch *domain.OtpChallenge) error {
	ttl, err := s.cache.GetTTL(ctx, "otp", ch.Email)
	if err != nil || ttl <= 0 {
		return xerrors.ErrNotFound
	}
	return s.Put(ctx, ch, ttl)
}

func (s *RedisChallengeStore) Consume(ctx context.Context, email string) (*domain.OtpChallenge, error) {
	raw, err := s.cache.GetDel(ctx, "otp", email)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeChallenge(raw)
}

func (s *RedisChallengeStore) Delete(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, "otp", email)
}

func decodeChallenge(raw string) (*domain.OtpChallenge, error) {
	var ch domain.OtpChallenge
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &ch, nil
}

type RedisSessionStore struct {
	cache cache.Cache
}

func NewRedisSessionStore(c cache.Cache) *RedisSessionStore {
	return &RedisSessionStore{cache: c}
}

func (s *RedisSessionStore) Put(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, "sess", sess.Token, string(raw), ttl)
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := s.cache.Get(ctx, "sess", token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, "sess", token)
}
