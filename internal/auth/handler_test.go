package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmartyn/go-auth-api/internal/httputil"
	"github.com/devmartyn/go-auth-api/internal/logging"
)

func newTestHandler(t *testing.T) (*Handler, *testEnv) {
	t.Helper()

	env := newTestEnv(t)
	h := NewHandler(env.service, env.tokens, logging.NewLogger(true), false, 2*time.Hour)
	return h, env
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()

	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHandlerRegister_Success(t *testing.T) {
	t.Parallel()
	h, env := newTestHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Registration success", resp.Message)

	c := sessionCookie(rec)
	require.NotNil(t, c, "registration must set the session cookie")
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)

	// The cookie value is a verifiable token for the new account.
	claims, err := env.tokens.VerifyToken(c.Value)
	require.NoError(t, err)
	stored, err := env.users.GetByEmail(t.Context(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.UserID)
}

func TestHandlerRegister_MissingFields(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.Register, "/api/auth/register", RegisterRequest{Email: "a@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "All fields are required", resp.Message)
	assert.Nil(t, sessionCookie(rec))
}

func TestHandlerRegister_Duplicate(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	body := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "pw"}
	postJSON(t, h.Register, "/api/auth/register", body)
	rec := postJSON(t, h.Register, "/api/auth/register", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "User already exists", resp.Message)
}

func TestHandlerLogin_FailuresAreIdentical(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	})

	wrongPassword := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email: "ada@example.com", Password: "bad",
	})
	unknownEmail := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email: "nobody@example.com", Password: "hunter22",
	})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	// Byte-identical bodies keep the two failure causes indistinguishable.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Nil(t, sessionCookie(wrongPassword))
	assert.Nil(t, sessionCookie(unknownEmail))
}

func TestHandlerLogin_Success(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	})

	rec := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email: "ada@example.com", Password: "hunter22",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login success", resp.Message)
	require.NotNil(t, sessionCookie(rec))
}

func TestHandlerLogout_AlwaysClears(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	// No prior session: logout still succeeds and expires the cookie.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Logged out", resp.Message)

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
	assert.Empty(t, c.Value)
}

func TestHandlerSendVerifyOtp_AlreadyVerifiedSoftFailure(t *testing.T) {
	t.Parallel()
	h, env := newTestHandler(t)

	registered, _, err := env.service.Register(t.Context(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, env.users.MarkAccountVerified(t.Context(), registered.ID))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-verify-otp", nil)
	ctx := req.Context()
	req = req.WithContext(contextWithUserID(ctx, registered.ID))
	rec := httptest.NewRecorder()
	h.SendVerifyOtp(rec, req)

	// Soft failure: HTTP 200 with success false.
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "User is already verified", resp.Message)
}

func TestHandlerVerifyEmail_Flow(t *testing.T) {
	t.Parallel()
	h, env := newTestHandler(t)

	registered, _, err := env.service.Register(t.Context(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, env.service.SendVerifyOtp(t.Context(), registered.ID))
	ch, err := env.challenges.Get(t.Context(), PurposeVerify, registered.ID)
	require.NoError(t, err)

	payload, err := json.Marshal(VerifyEmailRequest{Otp: ch.Code})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-email", bytes.NewReader(payload))
	req = req.WithContext(contextWithUserID(req.Context(), registered.ID))
	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Email verified", resp.Message)

	stored, err := env.users.GetByID(t.Context(), registered.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAccountVerified)
}

func TestHandlerVerifyEmail_WrongCode(t *testing.T) {
	t.Parallel()
	h, env := newTestHandler(t)

	registered, _, err := env.service.Register(t.Context(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, env.service.SendVerifyOtp(t.Context(), registered.ID))

	ch, err := env.challenges.Get(t.Context(), PurposeVerify, registered.ID)
	require.NoError(t, err)
	wrong := "000000"
	if wrong == ch.Code {
		wrong = "000001"
	}

	payload, err := json.Marshal(VerifyEmailRequest{Otp: wrong})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-email", bytes.NewReader(payload))
	req = req.WithContext(contextWithUserID(req.Context(), registered.ID))
	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid or expired OTP", resp.Message)
}

func TestHandlerIsAuthenticated(t *testing.T) {
	t.Parallel()
	h, env := newTestHandler(t)

	// No session: still HTTP 200, success false.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/is-auth", nil)
	rec := httptest.NewRecorder()
	h.IsAuthenticated(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "User not logged in", resp.Message)

	token, err := env.tokens.CreateToken(uuid.New(), time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/auth/is-auth", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	h.IsAuthenticated(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp = decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "User logged in", resp.Message)
}

func TestHandlerSendResetOtp_UnknownEmail(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.SendResetOtp, "/api/auth/send-reset-otp", SendResetOtpRequest{
		Email: "nobody@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "User not found", resp.Message)
}

func TestHandlerResetPassword_UnknownEmailLooksLikeBadCode(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Email: "nobody@example.com", Otp: "123456", NewPassword: "new-pw",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid or expired OTP", resp.Message)
}

func TestHandlerResetPassword_Flow(t *testing.T) {
	t.Parallel()
	h, env := newTestHandler(t)

	registered, _, err := env.service.Register(t.Context(), "Ada", "ada@example.com", "old-pw")
	require.NoError(t, err)
	require.NoError(t, env.service.SendResetOtp(t.Context(), "ada@example.com"))
	ch, err := env.challenges.Get(t.Context(), PurposeReset, registered.ID)
	require.NoError(t, err)

	rec := postJSON(t, h.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Email: "ada@example.com", Otp: ch.Code, NewPassword: "new-pw",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Password reset success", resp.Message)

	// Old credentials no longer log in, new ones do.
	loginOld := postJSON(t, h.Login, "/api/auth/login", LoginRequest{Email: "ada@example.com", Password: "old-pw"})
	assert.Equal(t, http.StatusBadRequest, loginOld.Code)
	loginNew := postJSON(t, h.Login, "/api/auth/login", LoginRequest{Email: "ada@example.com", Password: "new-pw"})
	assert.Equal(t, http.StatusOK, loginNew.Code)
}

func contextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, id)
}
