package service

import (
	"context"
	"time"

	"medlink-backend/internal/config"
	"medlink-backend/internal/domains/auth"
	"medlink-backend/internal/domains/user"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/pkg/cache"
	"medlink-backend/pkg/crypto"
	"medlink-backend/pkg/logger"

	"github.com/google/uuid"
)

const otpLength = 6

// dummyHash keeps login latency flat when the account does not exist.
// bcrypt hash of an unguessable throwaway value.
var dummyHash, _ = crypto.Hash("medlink-dummy-credential")

// Mailer delivers account emails. Implementations are expected to be
// asynchronous; delivery failures must not fail the auth operation.
type Mailer interface {
	SendSignupOTP(ctx context.Context, email, fullName, otp string, expiry time.Duration)
	SendPasswordReset(ctx context.Context, email, role, token, otp string, expiry time.Duration)
}

type ServiceInterface interface {
	Signup(ctx context.Context, req *auth.SignupRequest) (*auth.SignupResult, error)
	VerifyEmail(ctx context.Context, req *auth.VerifyEmailRequest) (*user.ProfileDTO, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
	ForgotPassword(ctx context.Context, req *auth.ForgotPasswordRequest) (*auth.SignupResult, error)
	ResetPassword(ctx context.Context, req *auth.ResetPasswordRequest) error
}

type AuthService struct {
	store  cache.Store
	users  user.Repository
	mailer Mailer
	cfg    config.AuthConfig
}

func NewAuthService(store cache.Store, users user.Repository, mailer Mailer, cfg config.AuthConfig) ServiceInterface {
	return &AuthService{
		store:  store,
		users:  users,
		mailer: mailer,
		cfg:    cfg,
	}
}

// ===== SIGNUP =====

func (s *AuthService) Signup(ctx context.Context, req *auth.SignupRequest) (*auth.SignupResult, error) {
	key := auth.SignupOTPKey(req.Email, req.Role)

	// Step 1: Enforce the resend cooldown before anything else
	if err := s.checkCooldown(ctx, key); err != nil {
		return nil, err
	}

	// Step 2: Reject emails that already belong to an account for this role
	exists, err := s.users.ExistsByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperror.Conflict("Email already exists.", httperror.CodeEmailExists, "email")
	}

	// Step 3: Generate the OTP and hash both secrets
	otp, err := crypto.GenerateOTP(otpLength)
	if err != nil {
		return nil, err
	}
	passwordHash, err := crypto.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	otpHash, err := crypto.Hash(otp)
	if err != nil {
		return nil, err
	}

	// Step 4: Store the pending signup; a repeat signup overwrites it
	pending := auth.PendingSignup{
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: passwordHash,
		OTPHash:      otpHash,
	}
	if err := s.store.SetJSON(ctx, key, pending, s.cfg.OTPExpiry); err != nil {
		return nil, err
	}

	// Step 5: Deliver the OTP out of band
	s.mailer.SendSignupOTP(ctx, req.Email, req.FullName, otp, s.cfg.OTPExpiry)

	return s.signupResult(), nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, req *auth.VerifyEmailRequest) (*user.ProfileDTO, error) {
	key := auth.SignupOTPKey(req.Email, req.Role)

	var pending auth.PendingSignup
	found, err := s.store.GetJSON(ctx, key, &pending)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, httperror.NotFoundField("Verification doesn't exist, it is either expired or completed.", "otp_code")
	}

	if !crypto.Compare(req.OTPCode, pending.OTPHash) {
		return nil, httperror.BadRequestField("Incorrect otp code.", "otp_code")
	}

	// Consume the pending record before creating the account so a
	// concurrent verify cannot create twice
	if err := s.store.Del(ctx, key); err != nil {
		return nil, err
	}

	now := time.Now()
	created := &user.User{
		ID:           uuid.New(),
		Email:        pending.Email,
		Role:         pending.Role,
		PasswordHash: pending.PasswordHash,
		FullName:     pending.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, created); err != nil {
		if err == user.ErrEmailConflict {
			return nil, httperror.Conflict("Email already exists.", httperror.CodeEmailExists, "email")
		}
		return nil, err
	}

	profile := created.ToProfileDTO()
	return &profile, nil
}

// ===== SESSIONS =====

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResult, error) {
	// Step 1: A pending unverified signup cannot log in
	pendingExists, err := s.store.Has(ctx, auth.SignupOTPKey(req.Email, req.Role))
	if err != nil {
		return nil, err
	}
	if pendingExists {
		return nil, httperror.BadRequest("Please verify your email before logging in.")
	}

	// Step 2: Resolve the account; run a throwaway compare on miss so the
	// response time does not reveal whether the email is registered
	u, err := s.users.FindByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		if err == user.ErrUserNotFound {
			crypto.Compare(req.Password, dummyHash)
			return nil, httperror.AccessDenied("Incorrect email or password.")
		}
		return nil, err
	}
	if !crypto.Compare(req.Password, u.PasswordHash) {
		return nil, httperror.AccessDenied("Incorrect email or password.")
	}

	// Step 3: Mint the session tokens
	accessToken, err := crypto.GenerateSessionID(crypto.DefaultKeyLength)
	if err != nil {
		return nil, err
	}
	session := auth.Session{
		UserID:      u.ID.String(),
		Role:        u.Role,
		AccessToken: accessToken,
	}

	var refreshToken string
	if req.RememberMe {
		refreshToken, err = crypto.GenerateSessionID(crypto.DefaultKeyLength)
		if err != nil {
			return nil, err
		}
		session.RefreshToken = refreshToken
	}

	if err := s.store.SetJSON(ctx, auth.AccessTokenKey(accessToken), session, s.cfg.AccessTokenExpiry); err != nil {
		return nil, err
	}
	if refreshToken != "" {
		if err := s.store.SetJSON(ctx, auth.RefreshTokenKey(refreshToken), session, s.cfg.RefreshTokenExpiry); err != nil {
			return nil, err
		}
	}

	return &auth.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Type:         "Bearer",
		ExpiresAt:    time.Now().Add(s.cfg.AccessTokenExpiry).UnixMilli(),
		Role:         u.Role,
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.LoginResult, error) {
	refreshKey := auth.RefreshTokenKey(refreshToken)

	var session auth.Session
	found, err := s.store.GetJSON(ctx, refreshKey, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, httperror.Unauthorized()
	}

	// Step 1: Mint a fresh access token
	accessToken, err := crypto.GenerateSessionID(crypto.DefaultKeyLength)
	if err != nil {
		return nil, err
	}
	oldAccessToken := session.AccessToken
	session.AccessToken = accessToken

	if err := s.store.SetJSON(ctx, auth.AccessTokenKey(accessToken), session, s.cfg.AccessTokenExpiry); err != nil {
		return nil, err
	}

	// Step 2: Rotate. The previous access token stops working and the
	// refresh entry tracks the new one without extending its own lifetime
	if oldAccessToken != "" {
		if err := s.store.Del(ctx, auth.AccessTokenKey(oldAccessToken)); err != nil {
			logger.Warn("failed to revoke rotated access token", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if err := s.store.SetJSONKeepTTL(ctx, refreshKey, session); err != nil {
		return nil, err
	}

	return &auth.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Type:         "Bearer",
		ExpiresAt:    time.Now().Add(s.cfg.AccessTokenExpiry).UnixMilli(),
		Role:         session.Role,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	var session auth.Session
	found, err := s.store.GetJSON(ctx, auth.AccessTokenKey(accessToken), &session)
	if err != nil {
		return err
	}

	keys := []string{auth.AccessTokenKey(accessToken)}
	if found && session.RefreshToken != "" {
		keys = append(keys, auth.RefreshTokenKey(session.RefreshToken))
	}

	// Idempotent: logging out an already dead token is still a success
	return s.store.Del(ctx, keys...)
}

// ===== PASSWORD RESET =====

func (s *AuthService) ForgotPassword(ctx context.Context, req *auth.ForgotPasswordRequest) (*auth.SignupResult, error) {
	tokenKey := auth.PassResetTokenKey(req.Email, req.Role)
	otpKey := auth.PassResetOTPKey(req.Email, req.Role)

	// Step 1: Cooldown applies to the pair; either surviving entry blocks
	if err := s.checkCooldown(ctx, tokenKey); err != nil {
		return nil, err
	}
	if err := s.checkCooldown(ctx, otpKey); err != nil {
		return nil, err
	}

	// Step 2: Only real accounts get reset credentials
	exists, err := s.users.ExistsByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, httperror.NotFoundField("Account doesn't exist.", "email")
	}

	// Step 3: Issue both credentials. The link token is compared verbatim,
	// the OTP only ever stored hashed
	token, err := crypto.GenerateSessionID(crypto.DefaultKeyLength)
	if err != nil {
		return nil, err
	}
	otp, err := crypto.GenerateOTP(otpLength)
	if err != nil {
		return nil, err
	}
	otpHash, err := crypto.Hash(otp)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, tokenKey, token, s.cfg.OTPExpiry); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, otpKey, otpHash, s.cfg.OTPExpiry); err != nil {
		return nil, err
	}

	s.mailer.SendPasswordReset(ctx, req.Email, string(req.Role), token, otp, s.cfg.OTPExpiry)

	return s.signupResult(), nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req *auth.ResetPasswordRequest) error {
	tokenKey := auth.PassResetTokenKey(req.Email, req.Role)
	otpKey := auth.PassResetOTPKey(req.Email, req.Role)

	// Step 1: Check whichever credential was supplied. Messages stay
	// uniform so the two paths cannot be told apart
	switch {
	case req.Token != "":
		stored, found, err := s.store.Get(ctx, tokenKey)
		if err != nil {
			return err
		}
		if !found || stored != req.Token {
			return httperror.BadRequestField("Reset link is invalid or has expired.", "token")
		}
	case req.OTPCode != "":
		storedHash, found, err := s.store.Get(ctx, otpKey)
		if err != nil {
			return err
		}
		if !found || !crypto.Compare(req.OTPCode, storedHash) {
			return httperror.BadRequestField("Otp code is invalid or has expired.", "otp_code")
		}
	default:
		return httperror.BadRequestField("Either token or otp code is required.", "token")
	}

	// Step 2: Rehash and persist the new password
	passwordHash, err := crypto.Hash(req.Password)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, req.Email, req.Role, passwordHash); err != nil {
		if err == user.ErrUserNotFound {
			// a missing account reads the same as a bad credential
			if req.Token != "" {
				return httperror.BadRequestField("Reset link is invalid or has expired.", "token")
			}
			return httperror.BadRequestField("Otp code is invalid or has expired.", "otp_code")
		}
		return err
	}

	// Step 3: Burn both credentials so neither can be replayed
	return s.store.Del(ctx, tokenKey, otpKey)
}

// ===== HELPERS =====

// checkCooldown rejects a resend while the previous credential is younger
// than expiry minus cooldown. The wait is derived from the remaining TTL so
// no extra bookkeeping key is needed.
func (s *AuthService) checkCooldown(ctx context.Context, key string) error {
	ttl, found, err := s.store.TimeLeft(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	elapsed := s.cfg.OTPExpiry - ttl
	if elapsed < s.cfg.OTPResendCooldown {
		wait := s.cfg.OTPResendCooldown - elapsed
		return httperror.BadRequestField(
			"Please wait "+formatWait(wait)+" before requesting another code.",
			"email",
		)
	}
	return nil
}

func (s *AuthService) signupResult() *auth.SignupResult {
	now := time.Now()
	return &auth.SignupResult{
		ExpiresAt: now.Add(s.cfg.OTPExpiry).UnixMilli(),
		ResendAt:  now.Add(s.cfg.OTPResendCooldown).UnixMilli(),
	}
}

func formatWait(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		d = time.Second
	}
	return d.String()
}
