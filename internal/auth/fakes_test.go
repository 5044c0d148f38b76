package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/devmartyn/go-auth-api/internal/logging"
	"github.com/devmartyn/go-auth-api/internal/user"
)

// --- fakes ---

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memUserRepo) Create(ctx context.Context, name, email, passwordHash string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, user.ErrDuplicateEmail
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return copyUser(u), nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return copyUser(r.byID[id]), nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *memUserRepo) MarkAccountVerified(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.IsAccountVerified = true
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}

type memChallengeRepo struct {
	mu    sync.Mutex
	store map[string]*Challenge
}

func newMemChallengeRepo() *memChallengeRepo {
	return &memChallengeRepo{store: make(map[string]*Challenge)}
}

func (r *memChallengeRepo) key(purpose Purpose, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", purpose, userID)
}

func (r *memChallengeRepo) Store(ctx context.Context, purpose Purpose, userID uuid.UUID, ch *Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *ch
	r.store[r.key(purpose, userID)] = &c
	return nil
}

func (r *memChallengeRepo) Get(ctx context.Context, purpose Purpose, userID uuid.UUID) (*Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.store[r.key(purpose, userID)]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	c := *ch
	return &c, nil
}

func (r *memChallengeRepo) Delete(ctx context.Context, purpose Purpose, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, r.key(purpose, userID))
	return nil
}

type sentMail struct {
	kind string
	to   string
	code string
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mailRecorder) EnqueueWelcome(toEmail, name string) {
	m.record(sentMail{kind: "welcome", to: toEmail})
}

func (m *mailRecorder) EnqueueVerifyOtp(toEmail, code string) {
	m.record(sentMail{kind: "verify", to: toEmail, code: code})
}

func (m *mailRecorder) EnqueueResetOtp(toEmail, code string) {
	m.record(sentMail{kind: "reset", to: toEmail, code: code})
}

func (m *mailRecorder) record(s sentMail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, s)
}

func (m *mailRecorder) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

// --- constructors ---

type testEnv struct {
	users      *memUserRepo
	challenges *memChallengeRepo
	mail       *mailRecorder
	tokens     TokenService
	service    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserRepo()
	challenges := newMemChallengeRepo()
	mail := &mailRecorder{}

	tokens, err := NewJWTService([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewJWTService error: %v", err)
	}

	svc := NewService(users, challenges, tokens, mail, logging.NewLogger(true), 10*24*time.Hour)

	return &testEnv{
		users:      users,
		challenges: challenges,
		mail:       mail,
		tokens:     tokens,
		service:    svc,
	}
}
