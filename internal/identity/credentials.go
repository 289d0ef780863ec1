package identity

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CredentialRepository persists the identity system's credentials. It never
// joins tenant tables.
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository binds the repository to db.
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create inserts cred, assigning an id when none is set.
func (r *CredentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	if cred.ID == uuid.Nil {
		cred.ID = uuid.New()
	}
	cred.Email = normalizeEmail(cred.Email)
	return r.db.WithContext(ctx).Create(cred).Error
}

// FindByEmail loads a credential by its normalized email.
func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	if err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

// Delete removes the credential and reports whether it existed.
func (r *CredentialRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Credential{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdatePassword stores a new hash. Completing a reset proves mailbox
// ownership, so an unconfirmed email becomes confirmed.
func (r *CredentialRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Credential{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":      hash,
			"email_confirmed_at": gorm.Expr("COALESCE(email_confirmed_at, ?)", at),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchSignIn records the last successful sign-in.
func (r *CredentialRepository) TouchSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Credential{}).
		Where("id = ?", id).
		UpdateColumn("last_sign_in_at", at).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
