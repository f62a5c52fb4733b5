package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlink-backend/internal/config"
	"medlink-backend/internal/domains/auth"
	"medlink-backend/internal/domains/user"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/pkg/cache"
	"medlink-backend/pkg/crypto"
)

// ===== FAKES =====

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func repoKey(email string, role user.Role) string {
	return email + "|" + string(role)
}

func (r *fakeUserRepo) ExistsByEmailAndRole(_ context.Context, email string, role user.Role) (bool, error) {
	_, ok := r.users[repoKey(email, role)]
	return ok, nil
}

func (r *fakeUserRepo) FindByEmailAndRole(_ context.Context, email string, role user.Role) (*user.User, error) {
	u, ok := r.users[repoKey(email, role)]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	key := repoKey(u.Email, u.Role)
	if _, ok := r.users[key]; ok {
		return user.ErrEmailConflict
	}
	copied := *u
	r.users[key] = &copied
	return nil
}

func (r *fakeUserRepo) SetPassword(_ context.Context, email string, role user.Role, passwordHash string) error {
	u, ok := r.users[repoKey(email, role)]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type captureMailer struct {
	lastOTP   string
	lastToken string
	sent      int
}

func (m *captureMailer) SendSignupOTP(_ context.Context, _, _, otp string, _ time.Duration) {
	m.lastOTP = otp
	m.sent++
}

func (m *captureMailer) SendPasswordReset(_ context.Context, _, _, token, otp string, _ time.Duration) {
	m.lastToken = token
	m.lastOTP = otp
	m.sent++
}

// ===== SETUP =====

type fixture struct {
	svc    ServiceInterface
	store  cache.Store
	repo   *fakeUserRepo
	mailer *captureMailer
	redis  *miniredis.Miniredis
	cfg    config.AuthConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.AuthConfig{
		OTPExpiry:          5 * time.Minute,
		OTPResendCooldown:  2 * time.Minute,
		AccessTokenExpiry:  24 * time.Hour,
		RefreshTokenExpiry: 720 * time.Hour,
	}
	store := cache.NewRedisStore(client)
	repo := newFakeUserRepo()
	mailer := &captureMailer{}

	return &fixture{
		svc:    NewAuthService(store, repo, mailer, cfg),
		store:  store,
		repo:   repo,
		mailer: mailer,
		redis:  mr,
		cfg:    cfg,
	}
}

func (f *fixture) seedUser(t *testing.T, email string, role user.Role, password string) *user.User {
	t.Helper()
	hash, err := crypto.Hash(password)
	require.NoError(t, err)
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		FullName:     "Seed User",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, f.repo.Create(context.Background(), u))
	return u
}

func signupReq() *auth.SignupRequest {
	return &auth.SignupRequest{
		FullName: "An Nguyen",
		Email:    "an@example.com",
		Role:     user.RoleCustomer,
		Password: "sup3r-secret",
	}
}

func httpErr(t *testing.T, err error) *httperror.HTTPError {
	t.Helper()
	he, ok := err.(*httperror.HTTPError)
	require.True(t, ok, "expected *httperror.HTTPError, got %T: %v", err, err)
	return he
}

// ===== SIGNUP =====

func TestSignupStoresPendingAndSendsOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)
	assert.Greater(t, res.ExpiresAt, res.ResendAt)
	assert.Equal(t, 1, f.mailer.sent)
	require.Len(t, f.mailer.lastOTP, 6)

	var pending auth.PendingSignup
	found, err := f.store.GetJSON(ctx, auth.SignupOTPKey("an@example.com", user.RoleCustomer), &pending)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "An Nguyen", pending.FullName)
	// secrets are never stored in the clear
	assert.NotEqual(t, "sup3r-secret", pending.PasswordHash)
	assert.NotEqual(t, f.mailer.lastOTP, pending.OTPHash)
	assert.True(t, crypto.Compare(f.mailer.lastOTP, pending.OTPHash))
}

func TestSignupBlockedDuringCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, signupReq())
	he := httpErr(t, err)
	assert.Equal(t, httperror.CodeInvalidInput, he.Code)
	assert.Contains(t, he.Details, "email")
	assert.Equal(t, 1, f.mailer.sent)
}

func TestSignupResendOverwritesAfterCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)
	firstOTP := f.mailer.lastOTP

	f.redis.FastForward(2*time.Minute + time.Second)

	_, err = f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)
	assert.Equal(t, 2, f.mailer.sent)

	// only the latest OTP verifies
	_, err = f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: firstOTP,
	})
	if firstOTP != f.mailer.lastOTP {
		require.Error(t, err)
	}
	_, err = f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: f.mailer.lastOTP,
	})
	require.NoError(t, err)
}

func TestSignupRejectsExistingAccount(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "an@example.com", user.RoleCustomer, "whatever1")

	_, err := f.svc.Signup(context.Background(), signupReq())
	he := httpErr(t, err)
	assert.Equal(t, httperror.CodeEmailExists, he.Code)
}

func TestSignupSameEmailDifferentRoleIsIndependent(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "an@example.com", user.RolePharmacist, "whatever1")

	_, err := f.svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)
}

// ===== VERIFY EMAIL =====

func TestVerifyEmailCreatesAccountAndConsumesOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	profile, err := f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: f.mailer.lastOTP,
	})
	require.NoError(t, err)
	assert.Equal(t, "an@example.com", profile.Email)
	assert.Equal(t, user.RoleCustomer, profile.Role)
	assert.NotEqual(t, uuid.Nil, profile.ID)

	exists, err := f.repo.ExistsByEmailAndRole(ctx, "an@example.com", user.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, exists)

	// the pending entry is gone, a replay fails
	_, err = f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: f.mailer.lastOTP,
	})
	require.Error(t, err)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	wrong := "000000"
	if wrong == f.mailer.lastOTP {
		wrong = "000001"
	}
	_, err = f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: wrong,
	})
	he := httpErr(t, err)
	assert.Contains(t, he.Details, "otp_code")

	// a wrong code does not consume the pending signup
	_, err = f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: f.mailer.lastOTP,
	})
	require.NoError(t, err)
}

func TestVerifyEmailExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	f.redis.FastForward(5*time.Minute + time.Second)

	_, err = f.svc.VerifyEmail(ctx, &auth.VerifyEmailRequest{
		Email: "an@example.com", Role: user.RoleCustomer, OTPCode: f.mailer.lastOTP,
	})
	he := httpErr(t, err)
	assert.Equal(t, 404, he.StatusCode)
	assert.Contains(t, he.Details, "otp_code")
}

// ===== LOGIN =====

func TestLoginWithoutRememberMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "an@example.com", user.RoleCustomer, "sup3r-secret")

	res, err := f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "sup3r-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.Type)
	assert.NotEmpty(t, res.AccessToken)
	assert.Empty(t, res.RefreshToken)

	var session auth.Session
	found, err := f.store.GetJSON(ctx, auth.AccessTokenKey(res.AccessToken), &session)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, u.ID.String(), session.UserID)
	assert.Equal(t, user.RoleCustomer, session.Role)
	assert.Empty(t, session.RefreshToken)
}

func TestLoginWithRememberMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "sup3r-secret")

	res, err := f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "sup3r-secret", RememberMe: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.RefreshToken)
	assert.NotEqual(t, res.AccessToken, res.RefreshToken)

	var session auth.Session
	found, err := f.store.GetJSON(ctx, auth.RefreshTokenKey(res.RefreshToken), &session)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, res.AccessToken, session.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "an@example.com", user.RoleCustomer, "sup3r-secret")

	_, err := f.svc.Login(context.Background(), &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "wrong-secret",
	})
	he := httpErr(t, err)
	assert.Equal(t, 401, he.StatusCode)
}

func TestLoginUnknownAccountSameError(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), &auth.LoginRequest{
		Email: "ghost@example.com", Role: user.RoleCustomer, Password: "sup3r-secret",
	})
	he := httpErr(t, err)
	assert.Equal(t, 401, he.StatusCode)
	assert.Equal(t, "Incorrect email or password.", he.Message)
}

func TestLoginRejectedWhileSignupPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "sup3r-secret",
	})
	he := httpErr(t, err)
	assert.Equal(t, 400, he.StatusCode)
	assert.Contains(t, he.Message, "verify")
}

// ===== REFRESH =====

func TestRefreshRotatesAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "sup3r-secret")

	login, err := f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "sup3r-secret", RememberMe: true,
	})
	require.NoError(t, err)

	f.redis.FastForward(time.Hour)

	refreshed, err := f.svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)
	assert.Equal(t, login.RefreshToken, refreshed.RefreshToken)

	// old access token is dead, new one resolves
	found, err := f.store.Has(ctx, auth.AccessTokenKey(login.AccessToken))
	require.NoError(t, err)
	assert.False(t, found)

	var session auth.Session
	found, err = f.store.GetJSON(ctx, auth.AccessTokenKey(refreshed.AccessToken), &session)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, refreshed.AccessToken, session.AccessToken)

	// rotation does not extend the refresh entry lifetime
	ttl, found, err := f.store.TimeLeft(ctx, auth.RefreshTokenKey(login.RefreshToken))
	require.NoError(t, err)
	require.True(t, found)
	assert.LessOrEqual(t, ttl, f.cfg.RefreshTokenExpiry-time.Hour)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RefreshToken(context.Background(), "not-a-token")
	he := httpErr(t, err)
	assert.Equal(t, 401, he.StatusCode)
	assert.Equal(t, httperror.CodeAuthRequired, he.Code)
}

// ===== LOGOUT =====

func TestLogoutRemovesBothEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "sup3r-secret")

	login, err := f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "sup3r-secret", RememberMe: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, login.AccessToken))

	found, err := f.store.Has(ctx, auth.AccessTokenKey(login.AccessToken))
	require.NoError(t, err)
	assert.False(t, found)
	found, err = f.store.Has(ctx, auth.RefreshTokenKey(login.RefreshToken))
	require.NoError(t, err)
	assert.False(t, found)

	// repeat logout is a no-op, not an error
	require.NoError(t, f.svc.Logout(ctx, login.AccessToken))
}

// ===== PASSWORD RESET =====

func TestForgotPasswordUnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ForgotPassword(context.Background(), &auth.ForgotPasswordRequest{
		Email: "ghost@example.com", Role: user.RoleCustomer,
	})
	he := httpErr(t, err)
	assert.Equal(t, 404, he.StatusCode)
	assert.Contains(t, he.Details, "email")
}

func TestForgotPasswordIssuesTokenAndHashedOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	_, err := f.svc.ForgotPassword(ctx, &auth.ForgotPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, f.mailer.lastToken)
	require.Len(t, f.mailer.lastOTP, 6)

	// link token stored verbatim, otp stored only as a hash
	stored, found, err := f.store.Get(ctx, auth.PassResetTokenKey("an@example.com", user.RoleCustomer))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, f.mailer.lastToken, stored)

	storedHash, found, err := f.store.Get(ctx, auth.PassResetOTPKey("an@example.com", user.RoleCustomer))
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEqual(t, f.mailer.lastOTP, storedHash)
	assert.True(t, crypto.Compare(f.mailer.lastOTP, storedHash))
}

func TestForgotPasswordCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	req := &auth.ForgotPasswordRequest{Email: "an@example.com", Role: user.RoleCustomer}
	_, err := f.svc.ForgotPassword(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.ForgotPassword(ctx, req)
	require.Error(t, err)

	f.redis.FastForward(2*time.Minute + time.Second)
	_, err = f.svc.ForgotPassword(ctx, req)
	require.NoError(t, err)
}

func TestResetPasswordViaToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	_, err := f.svc.ForgotPassword(ctx, &auth.ForgotPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
	})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "new-secret1", Token: f.mailer.lastToken,
	})
	require.NoError(t, err)

	// old password is out, new one works
	_, err = f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "old-secret1",
	})
	require.Error(t, err)
	_, err = f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "new-secret1",
	})
	require.NoError(t, err)

	// both credentials are burned, the otp cannot be used after the token
	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "newer-secret1", OTPCode: f.mailer.lastOTP,
	})
	require.Error(t, err)
}

func TestResetPasswordViaOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	_, err := f.svc.ForgotPassword(ctx, &auth.ForgotPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
	})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "new-secret1", OTPCode: f.mailer.lastOTP,
	})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &auth.LoginRequest{
		Email: "an@example.com", Role: user.RoleCustomer, Password: "new-secret1",
	})
	require.NoError(t, err)
}

func TestResetPasswordWrongOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	_, err := f.svc.ForgotPassword(ctx, &auth.ForgotPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
	})
	require.NoError(t, err)

	wrong := "000000"
	if wrong == f.mailer.lastOTP {
		wrong = "000001"
	}
	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "new-secret1", OTPCode: wrong,
	})
	he := httpErr(t, err)
	assert.Equal(t, 400, he.StatusCode)
	assert.Contains(t, he.Details, "otp_code")
}

func TestResetPasswordVanishedAccountLooksLikeBadToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	_, err := f.svc.ForgotPassword(ctx, &auth.ForgotPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
	})
	require.NoError(t, err)

	// account deleted while the reset credentials are still live
	delete(f.repo.users, repoKey("an@example.com", user.RoleCustomer))

	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "new-secret1", Token: f.mailer.lastToken,
	})
	he := httpErr(t, err)
	assert.Equal(t, 400, he.StatusCode)
	assert.Contains(t, he.Details, "token")
	assert.NotContains(t, he.Message, "Account")

	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "new-secret1", OTPCode: f.mailer.lastOTP,
	})
	he = httpErr(t, err)
	assert.Equal(t, 400, he.StatusCode)
	assert.Contains(t, he.Details, "otp_code")
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "an@example.com", user.RoleCustomer, "old-secret1")

	_, err := f.svc.ForgotPassword(ctx, &auth.ForgotPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
	})
	require.NoError(t, err)

	f.redis.FastForward(5*time.Minute + time.Second)

	err = f.svc.ResetPassword(ctx, &auth.ResetPasswordRequest{
		Email: "an@example.com", Role: user.RoleCustomer,
		Password: "new-secret1", Token: f.mailer.lastToken,
	})
	require.Error(t, err)
}
