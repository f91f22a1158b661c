package auth

import (
	"context"
	"testing"
	"time"

	"issuing-service/internal/notifier"
	"issuing-service/internal/repository"
	"issuing-service/pkg/xerrors"

	"github.com/stretchr/testify/require"
)

func newTestService(cfg Config) *Service {
	return New(
		repository.NewMemoryChallengeStore(),
		repository.NewMemorySessionStore(),
		repository.NewMemoryUserRepo(),
		nil, // no rate limiting in unit tests
		notifier.NewLogNotifier(),
		cfg,
	)
}

func testConfig() Config {
	return Config{
		OTPTTL:      5 * time.Minute,
		OTPDigits:   6,
		MaxAttempts: 5,
		SessionTTL:  time.Hour,
		EchoCode:    true,
	}
}

func TestRequestOTP_InvalidEmail(t *testing.T) {
	svc := newTestService(testConfig())

	for _, email := range []string{"", "nobody", "@host", "user@", "a b@host"} {
		_, err := svc.RequestOTP(context.Background(), email)
		require.ErrorIs(t, err, xerrors.ErrValidation, "email %q", email)
	}
}

func TestRequestOTP_EchoDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EchoCode = false
	svc := newTestService(cfg)

	code, err := svc.RequestOTP(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Empty(t, code)
}

func TestVerifyOTP_HappyPath(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(testConfig())

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	sess, user, err := svc.VerifyOTP(ctx, "User@Example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.Equal(t, user.ID, sess.UserID)
	require.Equal(t, "user@example.com", user.Email)

	// single use: the consumed challenge cannot verify again
	_, _, err = svc.VerifyOTP(ctx, "user@example.com", code)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestVerifyOTP_ReRequestReplacesChallenge(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(testConfig())

	first, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	second, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, _, err = svc.VerifyOTP(ctx, "user@example.com", first)
	require.ErrorIs(t, err, xerrors.ErrCodeMismatch)

	_, _, err = svc.VerifyOTP(ctx, "user@example.com", second)
	require.NoError(t, err)
}

func TestVerifyOTP_AttemptsExhaust(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.MaxAttempts = 3
	svc := newTestService(cfg)

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)

	_, _, err = svc.VerifyOTP(ctx, "user@example.com", "000000")
	require.ErrorIs(t, err, xerrors.ErrCodeMismatch)
	_, _, err = svc.VerifyOTP(ctx, "user@example.com", "000000")
	require.ErrorIs(t, err, xerrors.ErrCodeMismatch)

	// the final attempt exhausts the challenge
	_, _, err = svc.VerifyOTP(ctx, "user@example.com", "000000")
	require.ErrorIs(t, err, xerrors.ErrOTPExhausted)

	// even the correct code is refused once exhausted
	_, _, err = svc.VerifyOTP(ctx, "user@example.com", code)
	require.ErrorIs(t, err, xerrors.ErrOTPExhausted)
}

func TestVerifyOTP_ExpiredChallenge(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.OTPTTL = time.Millisecond
	svc := newTestService(cfg)

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, _, err = svc.VerifyOTP(ctx, "user@example.com", code)
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestVerifyOTP_SameUserAcrossLogins(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(testConfig())

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	_, first, err := svc.VerifyOTP(ctx, "user@example.com", code)
	require.NoError(t, err)

	code, err = svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	_, second, err := svc.VerifyOTP(ctx, "user@example.com", code)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
}

func TestVerifySession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(testConfig())

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	sess, user, err := svc.VerifyOTP(ctx, "user@example.com", code)
	require.NoError(t, err)

	userID, err := svc.VerifySession(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	_, err = svc.VerifySession(ctx, "")
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
	_, err = svc.VerifySession(ctx, "bogus")
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestVerifySession_Expired(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.SessionTTL = time.Millisecond
	svc := newTestService(cfg)

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	sess, _, err := svc.VerifyOTP(ctx, "user@example.com", code)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = svc.VerifySession(ctx, sess.Token)
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(testConfig())

	code, err := svc.RequestOTP(ctx, "user@example.com")
	require.NoError(t, err)
	sess, _, err := svc.VerifyOTP(ctx, "user@example.com", code)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))

	_, err = svc.VerifySession(ctx, sess.Token)
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)

	// revoking again is a no-op
	require.NoError(t, svc.Logout(ctx, sess.Token))
}
