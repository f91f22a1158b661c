package repository

import (
	"context"
	"sync"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"
)

// ChallengeStore keeps at most one pending OTP challenge per email. Every
// operation is atomic with respect to all others on the same email, and reads
// past a challenge's expiry behave as not-found and drop the entry.
type ChallengeStore interface {
	// Put overwrites any existing challenge for the email.
	Put(ctx context.Context, ch *domain.OtpChallenge, ttl time.Duration) error
	Get(ctx context.Context, email string) (*domain.OtpChallenge, error)
	// Update replaces the stored challenge, keeping its original expiry.
	Update(ctx context.Context, ch *domain.OtpChallenge) error
	// Consume atomically removes and returns the challenge.
	Consume(ctx context.Context, email string) (*domain.OtpChallenge, error)
	Delete(ctx context.Context, email string) error
}

type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]domain.OtpChallenge
	now        func() time.Time
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]domain.OtpChallenge),
		now:        time.Now,
	}
}

func (s *MemoryChallengeStore) Put(_ context.Context, ch *domain.OtpChallenge, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[ch.Email] = *ch
	return nil
}

func (s *MemoryChallengeStore) Get(_ context.Context, email string) (*domain.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getLocked(email)
}

func (s *MemoryChallengeStore) getLocked(email string) (*domain.OtpChallenge, error) {
	ch, ok := s.challenges[email]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if ch.Expired(s.now()) {
		delete(s.challenges, email)
		return nil, xerrors.ErrNotFound
	}
	out := ch
	return &out, nil
}

func (s *MemoryChallengeStore) Update(_ context.Context, ch *domain.OtpChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[ch.Email]; !ok {
		return xerrors.ErrNotFound
	}
	s.challenges[ch.Email] = *ch
	return nil
}

func (s *MemoryChallengeStore) Consume(_ context.Context, email string) (*domain.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.getLocked(email)
	if err != nil {
		return nil, err
	}
	delete(s.challenges, email)
	return ch, nil
}

func (s *MemoryChallengeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, email)
	return nil
}
