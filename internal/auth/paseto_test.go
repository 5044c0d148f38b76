package auth

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
)

func pasetoKey() []byte {
	return bytes.Repeat([]byte("k"), 32)
}

func TestPasetoCreateAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc, err := NewPasetoService(pasetoKey())
	if err != nil {
		t.Fatalf("NewPasetoService error: %v", err)
	}
	userID := uuid.New()

	tok, err := svc.CreateToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	claims, err := svc.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, userID.String())
	}
}

func TestPasetoVerify_Expired(t *testing.T) {
	t.Parallel()

	svc, _ := NewPasetoService(pasetoKey())

	tok, err := svc.CreateToken(uuid.New(), -1*time.Second)
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	if _, err := svc.VerifyToken(tok); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestPasetoVerify_WrongKey(t *testing.T) {
	t.Parallel()

	issuer, _ := NewPasetoService(pasetoKey())
	verifier, _ := NewPasetoService(bytes.Repeat([]byte("x"), 32))

	tok, err := issuer.CreateToken(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	if _, err := verifier.VerifyToken(tok); err == nil {
		t.Fatal("expected error for wrong key, got nil")
	}
}

func TestNewPasetoService_BadKeyLength(t *testing.T) {
	t.Parallel()

	if _, err := NewPasetoService([]byte("short")); err == nil {
		t.Fatal("expected error for short key, got nil")
	}
}
