// Package identity owns credentials, sessions and password resets. It is
// the only code that touches auth_credentials; tenant data is reached
// through the profile reader using the id a credential shares with its
// profile.
package identity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/users"
	pkgauth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/mail"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	profileMissingMessage     = "profile missing for authenticated identity"
	resetTokenBytes           = 32
)

type credentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
	TouchSignIn(ctx context.Context, id uuid.UUID, at time.Time) error
}

type profileReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, uuid.UUID, error)
	Revoke(ctx context.Context, accessID string) error
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type resetStore interface {
	AcquireCooldown(ctx context.Context, scope string, ttl time.Duration) (bool, time.Duration, error)
	ReleaseCooldown(ctx context.Context, scope string) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	PasswordResetKey(tokenHash string) string
}

// Session is returned by a successful sign-in or refresh.
type Session struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresAt    time.Time        `json:"expires_at"`
	User         *users.UserDTO   `json:"user"`
	Principal    access.Principal `json:"-"`
}

// Current describes the caller behind a valid access token.
type Current struct {
	AccessID  string
	Principal access.Principal
	Profile   *models.User
}

// GatewayParams bundles the dependencies of a Gateway. Resets and Mailer
// are optional; without them password resets report a dependency error.
type GatewayParams struct {
	Credentials credentialStore
	Profiles    profileReader
	Sessions    sessionManager
	Resets      resetStore
	Mailer      mail.Sender
	JWT         config.JWTConfig
	Password    config.PasswordConfig
	Identity    config.IdentityConfig
	Logger      *logger.Logger
	Now         func() time.Time
}

// Gateway is the user-facing identity surface.
type Gateway struct {
	credentials credentialStore
	profiles    profileReader
	sessions    sessionManager
	resets      resetStore
	mailer      mail.Sender
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	cfg         config.IdentityConfig
	logg        *logger.Logger
	now         func() time.Time
	events      *notifier
	verify      func(password, encoded string) (bool, error)
	// decoyHash is checked for unknown emails so sign-in costs the same
	// whether or not the account exists.
	decoyHash string
}

// NewGateway validates params and builds a Gateway.
func NewGateway(params GatewayParams) (*Gateway, error) {
	if params.Credentials == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile reader is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	decoy, err := security.GenerateToken(resetTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate decoy password: %w", err)
	}
	decoyHash, err := security.HashPassword(decoy, params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}
	return &Gateway{
		credentials: params.Credentials,
		profiles:    params.Profiles,
		sessions:    params.Sessions,
		resets:      params.Resets,
		mailer:      params.Mailer,
		jwtCfg:      params.JWT,
		passwordCfg: params.Password,
		cfg:         params.Identity,
		logg:        logg,
		now:         now,
		events:      newNotifier(),
		verify:      security.VerifyPassword,
		decoyHash:   decoyHash,
	}, nil
}

// Subscribe registers fn for auth-state changes and returns its unsubscribe func.
func (g *Gateway) Subscribe(fn func(Event)) func() {
	return g.events.subscribe(fn)
}

func (g *Gateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.cfg.CallTimeout)
}

// SignIn verifies email and password and opens a session for the profile
// sharing the credential's id.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	if normalizeEmail(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	cred, err := g.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_, _ = g.verify(password, g.decoyHash)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "load credential")
	}
	ok, err := g.verify(password, cred.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if cred.EmailConfirmedAt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "email not confirmed")
	}

	accessID := session.NewAccessID()
	refresh, err := g.sessions.Generate(ctx, accessID, cred.ID)
	if err != nil {
		return nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "store session")
	}

	out, err := g.openSession(ctx, accessID, refresh, cred.ID)
	if err != nil {
		return nil, err
	}
	if err := g.credentials.TouchSignIn(ctx, cred.ID, g.now().UTC()); err != nil {
		g.logg.Warn(g.logg.WithUserID(ctx, cred.ID.String()), "identity.sign_in.touch_failed")
	}
	g.events.publish(Event{Type: EventSignedIn, UserID: cred.ID, At: g.now().UTC()})
	return out, nil
}

// openSession resolves the profile for userID and mints an access token
// bound to accessID. When the profile cannot be resolved the session is
// revoked so no credential outlives its profile.
func (g *Gateway) openSession(ctx context.Context, accessID, refresh string, userID uuid.UUID) (*Session, error) {
	profile, principal, err := g.resolve(ctx, userID)
	if err != nil {
		if revokeErr := g.sessions.Revoke(ctx, accessID); revokeErr != nil {
			g.logg.Error(ctx, "identity.session.revoke_failed", revokeErr)
		}
		if pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			g.logg.Error(g.logg.WithUserID(ctx, userID.String()), "identity.profile.lookup_failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, profileMissingMessage)
	}

	now := g.now()
	token, err := pkgauth.MintAccessToken(g.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID:  profile.ID,
		Role:    profile.Role,
		StoreID: profile.StoreID,
		JTI:     accessID,
	})
	if err != nil {
		_ = g.sessions.Revoke(ctx, accessID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &Session{
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(time.Duration(g.jwtCfg.ExpirationMinutes) * time.Minute).UTC(),
		User:         users.FromModel(profile),
		Principal:    principal,
	}, nil
}

func (g *Gateway) resolve(ctx context.Context, userID uuid.UUID) (*models.User, access.Principal, error) {
	profile, err := g.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, profileMissingMessage)
		}
		return nil, nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "load profile")
	}
	if profile.ID != userID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, profileMissingMessage)
	}
	principal, err := access.FromProfile(profile.ID, profile.Role, profile.StoreID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "profile has no valid role")
	}
	return profile, principal, nil
}

// SignOut revokes the session behind accessToken. Expired tokens may still
// sign out.
func (g *Gateway) SignOut(ctx context.Context, accessToken string) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	claims, err := pkgauth.ParseAccessTokenAllowExpired(g.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	if err := g.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "revoke session")
	}
	g.events.publish(Event{Type: EventSignedOut, UserID: claims.UserID, At: g.now().UTC()})
	return nil
}

// Refresh rotates the refresh token and re-resolves the profile so role or
// store changes take effect.
func (g *Gateway) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	claims, err := pkgauth.ParseAccessTokenAllowExpired(g.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	newAccessID, newRefresh, userID, err := g.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "rotate session")
	}
	if userID != claims.UserID {
		_ = g.sessions.Revoke(ctx, newAccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}
	return g.openSession(ctx, newAccessID, newRefresh, userID)
}

// Authenticate validates accessToken, confirms its session is live and
// resolves the caller's profile.
func (g *Gateway) Authenticate(ctx context.Context, accessToken string) (*Current, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	claims, err := pkgauth.ParseAccessToken(g.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	live, err := g.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "check session")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")
	}
	profile, principal, err := g.resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &Current{AccessID: claims.ID, Principal: principal, Profile: profile}, nil
}

// CurrentPrincipal returns the principal behind accessToken, or nil for an
// empty token.
func (g *Gateway) CurrentPrincipal(ctx context.Context, accessToken string) (access.Principal, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, nil
	}
	current, err := g.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return current.Principal, nil
}

// RequestPasswordReset mails a one-time reset link to email. Requests for
// the same email inside the cool-down are refused with RateLimited; unknown
// emails succeed silently.
func (g *Gateway) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	if g.resets == nil || g.mailer == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "password reset backend not configured")
	}
	link, err := resetLink(redirectTo, g.cfg.ResetRedirectURL)
	if err != nil {
		return err
	}

	ctx, cancel := g.bound(ctx)
	defer cancel()

	scope := "password-reset:" + email
	acquired, remaining, err := g.resets.AcquireCooldown(ctx, scope, g.cfg.ResetCooldown)
	if err != nil {
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "claim reset cool-down")
	}
	if !acquired {
		secs := int(math.Ceil(remaining.Seconds()))
		if secs < 1 {
			secs = 1
		}
		return pkgerrors.New(pkgerrors.CodeRateLimit,
			fmt.Sprintf("please wait %d seconds before requesting another password reset", secs)).
			WithDetails(map[string]any{"retry_after_seconds": secs})
	}

	if err := g.sendReset(ctx, email, link); err != nil {
		if releaseErr := g.resets.ReleaseCooldown(context.WithoutCancel(ctx), scope); releaseErr != nil {
			g.logg.Warn(ctx, "identity.reset.release_cooldown_failed")
		}
		return err
	}
	return nil
}

func (g *Gateway) sendReset(ctx context.Context, email string, link *url.URL) error {
	cred, err := g.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.logg.Info(ctx, "identity.reset.unknown_email")
			return nil
		}
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "load credential")
	}

	token, err := security.GenerateToken(resetTokenBytes)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	key := g.resets.PasswordResetKey(security.HashToken(token))
	if err := g.resets.Set(ctx, key, cred.ID.String(), g.cfg.ResetTokenTTL); err != nil {
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "store reset token")
	}

	q := link.Query()
	q.Set("token", token)
	link.RawQuery = q.Encode()

	msg := mail.Message{
		To:       cred.Email,
		Subject:  "Reset your password",
		TextBody: "Use the link below to choose a new password:\n\n" + link.String() + "\n\nIf you did not ask for this, ignore this e-mail.",
		HTMLBody: `<p>Use the link below to choose a new password:</p><p><a href="` + link.String() + `">Reset password</a></p><p>If you did not ask for this, ignore this e-mail.</p>`,
	}
	if err := g.mailer.Send(ctx, msg); err != nil {
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "send reset email")
	}
	g.logg.Info(g.logg.WithUserID(ctx, cred.ID.String()), "identity.reset.sent")
	return nil
}

func resetLink(redirectTo, fallback string) (*url.URL, error) {
	raw := strings.TrimSpace(redirectTo)
	if raw == "" {
		raw = fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redirect url must be absolute")
	}
	return u, nil
}

// CompletePasswordReset consumes token and sets a new password.
func (g *Gateway) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token is required")
	}
	if err := security.CheckPasswordPolicy(newPassword, g.passwordCfg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeCredential, err, err.Error())
	}
	if g.resets == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "password reset backend not configured")
	}

	ctx, cancel := g.bound(ctx)
	defer cancel()

	raw, err := g.resets.GetDel(ctx, g.resets.PasswordResetKey(security.HashToken(token)))
	if err != nil {
		if redisclient.IsNil(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "reset token is invalid or expired")
		}
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "consume reset token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "reset token is invalid or expired")
	}
	hash, err := security.HashPassword(newPassword, g.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := g.credentials.UpdatePassword(ctx, id, hash, g.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "reset token is invalid or expired")
		}
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "update password")
	}
	g.logg.Info(g.logg.WithUserID(ctx, id.String()), "identity.reset.completed")
	return nil
}
