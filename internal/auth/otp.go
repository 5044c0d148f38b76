package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OtpTTL is how long a generated code stays valid.
const OtpTTL = 10 * time.Minute

// Purpose distinguishes the two independent OTP flows. A pending verify
// challenge and a pending reset challenge can coexist for the same user.
type Purpose string

const (
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
)

// Challenge is a single-use OTP challenge: one pending code per user and
// purpose, consumed on first successful match.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge expiry has passed.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// GenerateOtp draws a code uniformly from [100000, 999999]. The code is kept
// as a fixed-width string and compared as such; numeric coercion would make
// leading digits ambiguous.
func GenerateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to draw otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// NewChallenge generates a fresh challenge expiring OtpTTL from now.
func NewChallenge(now time.Time) (*Challenge, error) {
	code, err := GenerateOtp()
	if err != nil {
		return nil, err
	}
	return &Challenge{
		Code:      code,
		ExpiresAt: now.Add(OtpTTL),
	}, nil
}
