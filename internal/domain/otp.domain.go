package domain

import "time"

// OtpChallenge is the single pending login challenge for an email address.
// Requesting a new code replaces any prior challenge for the same email.
type OtpChallenge struct {
	Email             string    `json:"email"`
	Code              string    `json:"code"`
	IssuedAt          time.Time `json:"issued_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
}

func (c *OtpChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
