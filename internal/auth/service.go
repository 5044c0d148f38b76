package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devmartyn/go-auth-api/internal/logging"
	"github.com/devmartyn/go-auth-api/internal/user"
)

// UserRepository is the credential store the service orchestrates.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	MarkAccountVerified(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// MailDispatcher enqueues outbound mail. Delivery is asynchronous and never
// rolls back the transaction that triggered it.
type MailDispatcher interface {
	EnqueueWelcome(toEmail, name string)
	EnqueueVerifyOtp(toEmail, code string)
	EnqueueResetOtp(toEmail, code string)
}

// Service orchestrates registration, login, email verification and password
// reset.
type Service struct {
	users         UserRepository
	challenges    ChallengeRepository
	tokens        TokenService
	mail          MailDispatcher
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(
	users UserRepository,
	challenges ChallengeRepository,
	tokens TokenService,
	mail MailDispatcher,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		users:         users,
		challenges:    challenges,
		tokens:        tokens,
		mail:          mail,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Register creates an unverified account, issues a session token and queues
// the welcome mail. Mail delivery failure does not undo account creation.
func (s *Service) Register(ctx context.Context, name, email, password string) (*user.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", ErrFieldsRequired
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	s.mail.EnqueueWelcome(newUser.Email, newUser.Name)

	return newUser, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrFieldsRequired
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, s.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	return token, nil
}

// SendVerifyOtp generates a verification challenge for an authenticated user
// and mails the code. An already-verified account yields ErrAlreadyVerified,
// a soft no-op, and no mail is sent.
func (s *Service) SendVerifyOtp(ctx context.Context, userID uuid.UUID) error {
	existingUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.IsAccountVerified {
		return ErrAlreadyVerified
	}

	ch, err := NewChallenge(time.Now())
	if err != nil {
		return err
	}

	if err := s.challenges.Store(ctx, PurposeVerify, userID, ch); err != nil {
		return err
	}

	s.mail.EnqueueVerifyOtp(existingUser.Email, ch.Code)

	return nil
}

// VerifyEmail consumes the verification challenge and flips the account
// verification flag. The flag never goes back to false through this flow.
func (s *Service) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) error {
	if code == "" {
		return ErrOtpInvalid
	}

	if err := s.consumeChallenge(ctx, PurposeVerify, userID, code); err != nil {
		return err
	}

	if err := s.users.MarkAccountVerified(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrOtpInvalid
		}
		return fmt.Errorf("failed to mark account verified: %w", err)
	}

	return nil
}

// SendResetOtp generates a password reset challenge for the account with the
// given email. The flow is independent of verification state. Unlike login,
// an unknown email is reported distinctly here.
func (s *Service) SendResetOtp(ctx context.Context, email string) error {
	if email == "" {
		return ErrFieldsRequired
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	ch, err := NewChallenge(time.Now())
	if err != nil {
		return err
	}

	if err := s.challenges.Store(ctx, PurposeReset, existingUser.ID, ch); err != nil {
		return err
	}

	s.mail.EnqueueResetOtp(existingUser.Email, ch.Code)

	return nil
}

// ResetPassword consumes the reset challenge and replaces the password hash.
// An unknown email is folded into ErrOtpInvalid here: only SendResetOtp
// reports the account's existence, the confirmation step never does.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return ErrFieldsRequired
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrOtpInvalid
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.consumeChallenge(ctx, PurposeReset, existingUser.ID, code); err != nil {
		return err
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, existingUser.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// consumeChallenge enforces the single-use contract: a matching code removes
// the challenge whether it turns out fresh or expired, so it can never be
// replayed. A mismatch leaves the pending challenge in place.
func (s *Service) consumeChallenge(ctx context.Context, purpose Purpose, userID uuid.UUID, code string) error {
	ch, err := s.challenges.Get(ctx, purpose, userID)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return ErrOtpInvalid
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) != 1 {
		return ErrOtpInvalid
	}

	if ch.Expired(time.Now()) {
		if err := s.challenges.Delete(ctx, purpose, userID); err != nil {
			s.logger.Warn("failed to delete expired otp challenge", "error", err)
		}
		return ErrOtpExpired
	}

	if err := s.challenges.Delete(ctx, purpose, userID); err != nil {
		return fmt.Errorf("failed to consume otp challenge: %w", err)
	}

	return nil
}
