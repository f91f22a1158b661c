package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/notifier"
	"issuing-service/internal/rate"
	"issuing-service/internal/repository"
	"issuing-service/pkg/id"
	"issuing-service/pkg/xerrors"
)

const sessionTokenBytes = 32

type Config struct {
	OTPTTL      time.Duration
	OTPDigits   int
	MaxAttempts int
	SessionTTL  time.Duration
	// EchoCode returns the OTP in the RequestOTP result. Demo-only posture;
	// in production codes go out through the notifier and nothing else.
	EchoCode bool
}

type Service struct {
	challenges repository.ChallengeStore
	sessions   repository.SessionStore
	users      repository.UserRepo
	limiter    *rate.Limiter
	notifier   notifier.Notifier
	cfg        Config
	now        func() time.Time
}

func New(
	challenges repository.ChallengeStore,
	sessions repository.SessionStore,
	users repository.UserRepo,
	limiter *rate.Limiter,
	n notifier.Notifier,
	cfg Config,
) *Service {
	return &Service{
		challenges: challenges,
		sessions:   sessions,
		users:      users,
		limiter:    limiter,
		notifier:   n,
		cfg:        cfg,
		now:        time.Now,
	}
}

// RequestOTP issues a fresh challenge for the email, replacing any pending
// one. The returned code is empty unless demo echo is enabled.
func (s *Service) RequestOTP(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return "", fmt.Errorf("%w: invalid email format", xerrors.ErrValidation)
	}

	if s.limiter != nil {
		if err := s.limiter.CanRequest(ctx, email); err != nil {
			return "", err
		}
	}

	code, err := id.NumericCode(s.cfg.OTPDigits)
	if err != nil {
		return "", err
	}

	now := s.now()
	ch := &domain.OtpChallenge{
		Email:             email,
		Code:              code,
		IssuedAt:          now,
		ExpiresAt:         now.Add(s.cfg.OTPTTL),
		AttemptsRemaining: s.cfg.MaxAttempts,
	}
	if err := s.challenges.Put(ctx, ch, s.cfg.OTPTTL); err != nil {
		return "", err
	}

	// Delivery is out-of-band and must not block the request
	go func() {
		if err := s.notifier.DeliverOTP(context.Background(), email, code, s.cfg.OTPTTL); err != nil {
			log.Printf("Failed to deliver OTP | Recipient=%s | err=%v", email, err)
		}
	}()

	if s.cfg.EchoCode {
		return code, nil
	}
	return "", nil
}

// VerifyOTP checks a submitted code. Wrong codes burn an attempt; once the
// attempts are gone the challenge stays exhausted until it expires, even for
// the correct code.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*domain.Session, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	ch, err := s.challenges.Get(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if ch.AttemptsRemaining <= 0 {
		return nil, nil, xerrors.ErrOTPExhausted
	}

	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) != 1 {
		ch.AttemptsRemaining--
		if err := s.challenges.Update(ctx, ch); err != nil {
			log.Printf("Failed to record OTP attempt | Email=%s | err=%v", email, err)
		}
		if ch.AttemptsRemaining <= 0 {
			return nil, nil, xerrors.ErrOTPExhausted
		}
		return nil, nil, xerrors.ErrCodeMismatch
	}

	// Single use: consume before minting the session
	if _, err := s.challenges.Consume(ctx, email); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.mintSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("Login verified | Email=%s | UserID=%s", email, user.ID)
	return sess, user, nil
}

func (s *Service) mintSession(ctx context.Context, userID string) (*domain.Session, error) {
	token, err := id.Token(sessionTokenBytes)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &domain.Session{
		Token:     token,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Put(ctx, sess, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	return sess, nil
}

// VerifySession resolves a bearer token to the user it was issued for.
func (s *Service) VerifySession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", xerrors.ErrUnauthorized
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return "", xerrors.ErrUnauthorized
	}
	return sess.UserID, nil
}

// Logout revokes the session. Revoking an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
