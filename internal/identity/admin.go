package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type credentialAdminStore interface {
	Create(ctx context.Context, cred *models.Credential) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Admin is the service-role capability: it creates and deletes credentials
// for other people. Only the provisioning path receives one.
type Admin struct {
	store       credentialAdminStore
	passwordCfg config.PasswordConfig
	timeout     time.Duration
	logg        *logger.Logger
	now         func() time.Time
	validate    *validator.Validate
}

// NewAdmin builds the service-role identity client.
func NewAdmin(store credentialAdminStore, passwordCfg config.PasswordConfig, cfg config.IdentityConfig, logg *logger.Logger) (*Admin, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Admin{
		store:       store,
		passwordCfg: passwordCfg,
		timeout:     cfg.CallTimeout,
		logg:        logg,
		now:         time.Now,
		validate:    validator.New(),
	}, nil
}

func (a *Admin) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// CreateCredential registers email with password and returns the new
// credential id. Weak passwords, malformed or duplicate emails fail with
// CodeCredential.
func (a *Admin) CreateCredential(ctx context.Context, email, password string, autoConfirm bool) (uuid.UUID, error) {
	email = normalizeEmail(email)
	if err := a.validate.Var(email, "required,email"); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeCredential, err, "invalid email address")
	}
	if err := security.CheckPasswordPolicy(password, a.passwordCfg); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeCredential, err, err.Error())
	}
	hash, err := security.HashPassword(password, a.passwordCfg)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	cred := &models.Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if autoConfirm {
		at := a.now().UTC()
		cred.EmailConfirmedAt = &at
	}

	ctx, cancel := a.bound(ctx)
	defer cancel()
	if err := a.store.Create(ctx, cred); err != nil {
		if db.IsUniqueViolation(err, "") {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeCredential, err, "email is already registered")
		}
		return uuid.Nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "create credential")
	}
	return cred.ID, nil
}

// DeleteCredential removes the credential. A credential that is already
// gone counts as deleted.
func (a *Admin) DeleteCredential(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := a.bound(ctx)
	defer cancel()
	existed, err := a.store.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "delete credential")
	}
	if !existed {
		a.logg.Info(a.logg.WithUserID(ctx, id.String()), "identity.credential.already_absent")
	}
	return nil
}
