package auth

import "errors"

var (
	// ErrFieldsRequired is returned when a required input field is missing.
	ErrFieldsRequired = errors.New("all fields are required")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAlreadyVerified signals the send-verify-otp no-op case. It is a soft
	// failure, not an error status.
	ErrAlreadyVerified = errors.New("user is already verified")
	// ErrOtpInvalid is returned for an empty or mismatched code.
	ErrOtpInvalid = errors.New("invalid otp")
	// ErrOtpExpired is returned when the code matches but its expiry passed.
	ErrOtpExpired = errors.New("otp has expired")
	// ErrChallengeNotFound means no challenge is pending for the user.
	ErrChallengeNotFound = errors.New("otp challenge not found")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
