package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type storeRepository interface {
	List(ctx context.Context, scope Scope) ([]models.Store, error)
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, scope Scope, id uuid.UUID, patch map[string]any) error
	CountByStatus(ctx context.Context) (map[enums.StoreStatus]int64, error)
}

type adminDirectory interface {
	AdminEmailsByStore(ctx context.Context, storeIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// Service exposes store operations on behalf of a principal.
type Service interface {
	List(ctx context.Context, p access.Principal) ([]StoreDTO, error)
	Get(ctx context.Context, p access.Principal, id uuid.UUID) (*StoreDTO, error)
	Update(ctx context.Context, p access.Principal, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Stats(ctx context.Context, p access.Principal) (*Stats, error)
	AdminEmail(ctx context.Context, p access.Principal, id uuid.UUID) (string, error)
	Storefront(ctx context.Context, id uuid.UUID) (*StorefrontDTO, error)
}

type service struct {
	repo   storeRepository
	admins adminDirectory
}

// NewService builds a store service with the provided repositories.
func NewService(repo storeRepository, admins adminDirectory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admin directory required")
	}
	return &service{repo: repo, admins: admins}, nil
}

// UpdateStoreInput captures the mutable store fields. Nil means unchanged.
type UpdateStoreInput struct {
	Name           *string
	Owner          *string
	Status         *enums.StoreStatus
	Plan           *enums.StorePlan
	Template       *enums.StoreTemplate
	Currency       *enums.Currency
	WhatsappNumber *string
	PaymentInfo    *types.PaymentInfo
	Theme          *types.Theme
	LogoURL        *string
}

func (s *service) List(ctx context.Context, p access.Principal) ([]StoreDTO, error) {
	if err := access.Require(p, access.CanListStores(p)); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, access.StoreScope(p))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	emails, err := s.admins.AdminEmailsByStore(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin emails")
	}
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		dto.AdminEmail = emails[rows[i].ID]
		out = append(out, *dto)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, p access.Principal, id uuid.UUID) (*StoreDTO, error) {
	if err := access.Require(p, access.CanReadStore(p, id)); err != nil {
		return nil, err
	}
	store, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(store)
	emails, err := s.admins.AdminEmailsByStore(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin email")
	}
	dto.AdminEmail = emails[id]
	return dto, nil
}

func (s *service) Update(ctx context.Context, p access.Principal, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	if err := access.Require(p, access.CanReadStore(p, id)); err != nil {
		return nil, err
	}
	patch, err := s.buildPatch(p, id, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, access.StoreScope(p), id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return s.Get(ctx, p, id)
}

func (s *service) buildPatch(p access.Principal, id uuid.UUID, input UpdateStoreInput) (map[string]any, error) {
	patch := map[string]any{}
	set := func(field access.StoreField, value any) error {
		if !access.CanWriteStore(p, id, field) {
			return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("field %s is not editable", field))
		}
		patch[string(field)] = value
		return nil
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		if err := set(access.FieldName, name); err != nil {
			return nil, err
		}
	}
	if input.Owner != nil {
		if err := set(access.FieldOwner, strings.TrimSpace(*input.Owner)); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		if err := set(access.FieldStatus, *input.Status); err != nil {
			return nil, err
		}
	}
	if input.Plan != nil {
		if !input.Plan.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan")
		}
		if err := set(access.FieldPlan, *input.Plan); err != nil {
			return nil, err
		}
	}
	if input.Template != nil {
		if !input.Template.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid template")
		}
		if err := set(access.FieldTemplate, *input.Template); err != nil {
			return nil, err
		}
	}
	if input.Currency != nil {
		if !input.Currency.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
		}
		if err := set(access.FieldCurrency, *input.Currency); err != nil {
			return nil, err
		}
	}
	if input.WhatsappNumber != nil {
		if err := set(access.FieldWhatsapp, strings.TrimSpace(*input.WhatsappNumber)); err != nil {
			return nil, err
		}
	}
	if input.PaymentInfo != nil {
		if err := set(access.FieldPaymentInfo, *input.PaymentInfo); err != nil {
			return nil, err
		}
	}
	if input.Theme != nil {
		if err := set(access.FieldTheme, *input.Theme); err != nil {
			return nil, err
		}
	}
	if input.LogoURL != nil {
		var logo any
		if v := strings.TrimSpace(*input.LogoURL); v != "" {
			logo = v
		}
		if err := set(access.FieldLogoURL, logo); err != nil {
			return nil, err
		}
	}
	if len(patch) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	return patch, nil
}

func (s *service) Stats(ctx context.Context, p access.Principal) (*Stats, error) {
	if err := access.Require(p, access.CanListStores(p)); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stores")
	}
	stats := &Stats{
		Active:    counts[enums.StoreStatusActive],
		Suspended: counts[enums.StoreStatusSuspended],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// AdminEmail resolves the email of the store's ADMIN. A store without an
// admin reports NotFound.
func (s *service) AdminEmail(ctx context.Context, p access.Principal, id uuid.UUID) (string, error) {
	dto, err := s.Get(ctx, p, id)
	if err != nil {
		return "", err
	}
	if dto.AdminEmail == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "store has no admin")
	}
	return dto.AdminEmail, nil
}

// Storefront returns the public view of an active store. Suspended and
// missing stores both report NotFound.
func (s *service) Storefront(ctx context.Context, id uuid.UUID) (*StorefrontDTO, error) {
	store, err := s.repo.FindByID(ctx, access.StorefrontScope(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront")
	}
	return StorefrontFromModel(store), nil
}

func (s *service) load(ctx context.Context, p access.Principal, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, access.StoreScope(p), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}
