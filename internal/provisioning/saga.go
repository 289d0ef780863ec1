// Package provisioning creates and tears down tenants together with their
// admin account. The identity system and the tenant tables never share a
// transaction, so each workflow is a saga: sequential steps driven by a
// transition table, with a fixed compensation list per failure state.
package provisioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/retry"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const (
	operationCreate = "create"
	operationDelete = "delete"

	outcomeSuccess       = "success"
	outcomeFailed        = "failed"
	outcomeCompensated   = "compensated"
	outcomeRollbackError = "rollback_incomplete"
	outcomeAborted       = "aborted"
	outcomeAlreadyAbsent = "already_absent"
	outcomeDangling      = "dangling"
)

type credentialAdmin interface {
	CreateCredential(ctx context.Context, email, password string, autoConfirm bool) (uuid.UUID, error)
	DeleteCredential(ctx context.Context, id uuid.UUID) error
}

type tenantStore interface {
	Create(ctx context.Context, dto stores.CreateStoreDTO) (*models.Store, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type profileStore interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindAdminsByStore(ctx context.Context, storeID uuid.UUID) ([]models.User, error)
}

// Params bundles the collaborators of a Saga.
type Params struct {
	Identity     credentialAdmin
	Tenants      tenantStore
	Profiles     profileStore
	Metrics      *metrics.ProvisioningMetrics
	Logger       *logger.Logger
	Provisioning config.ProvisioningConfig
	AutoConfirm  bool
	Retry        retry.Policy
}

// Saga runs tenant creation and teardown.
type Saga struct {
	identity    credentialAdmin
	tenants     tenantStore
	profiles    profileStore
	metrics     *metrics.ProvisioningMetrics
	logg        *logger.Logger
	stepTimeout time.Duration
	autoConfirm bool
	retry       retry.Policy
	now         func() time.Time
}

// New validates params and builds a Saga.
func New(params Params) (*Saga, error) {
	if params.Identity == nil {
		return nil, fmt.Errorf("identity admin is required")
	}
	if params.Tenants == nil {
		return nil, fmt.Errorf("tenant store is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Saga{
		identity:    params.Identity,
		tenants:     params.Tenants,
		profiles:    params.Profiles,
		metrics:     params.Metrics,
		logg:        logg,
		stepTimeout: params.Provisioning.StepTimeout,
		autoConfirm: params.AutoConfirm,
		retry:       params.Retry,
		now:         time.Now,
	}, nil
}

// CreateTenantInput is what the operator supplies for a new store.
type CreateTenantInput struct {
	Store         stores.CreateStoreDTO
	AdminEmail    string
	AdminPassword string
}

// CreateResult describes a fully provisioned tenant.
type CreateResult struct {
	Store   *stores.StoreDTO `json:"store"`
	AdminID uuid.UUID        `json:"admin_id"`
}

// FailureDetails travels with a PARTIAL_FAILURE error. Orphaned ids are
// set only when their compensation failed.
type FailureDetails struct {
	Step                 string     `json:"step"`
	Compensated          bool       `json:"compensated"`
	CompensationErrors   []string   `json:"compensation_errors,omitempty"`
	OrphanedCredentialID *uuid.UUID `json:"orphaned_credential_id,omitempty"`
	OrphanedStoreID      *uuid.UUID `json:"orphaned_store_id,omitempty"`
}

type targets struct {
	credentialID uuid.UUID
	storeID      uuid.UUID
}

type compensation struct {
	name string
	run  func(ctx context.Context, s *Saga, t targets) error
	// orphan records the id left behind when run fails.
	orphan func(d *FailureDetails, t targets)
}

var compensateCredential = compensation{
	name: "delete_credential",
	run: func(ctx context.Context, s *Saga, t targets) error {
		return s.identity.DeleteCredential(ctx, t.credentialID)
	},
	orphan: func(d *FailureDetails, t targets) {
		id := t.credentialID
		d.OrphanedCredentialID = &id
	},
}

var compensateTenant = compensation{
	name: "delete_tenant",
	run: func(ctx context.Context, s *Saga, t targets) error {
		_, err := s.tenants.Delete(ctx, t.storeID)
		return err
	},
	orphan: func(d *FailureDetails, t targets) {
		id := t.storeID
		d.OrphanedStoreID = &id
	},
}

func (s *Saga) step(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.stepTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateTenant provisions a credential, the store and the ADMIN profile
// joining them. A failure after the first step undoes what was created.
func (s *Saga) CreateTenant(ctx context.Context, p access.Principal, in CreateTenantInput) (*CreateResult, error) {
	if err := access.Require(p, access.CanProvision(p)); err != nil {
		return nil, err
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	start := s.now()
	ctx = s.logg.WithOperation(ctx, "provisioning.create", uuid.NewString())
	m := newMachine(createTransitions)
	var t targets

	err := s.step(ctx, func(ctx context.Context) error {
		id, err := s.identity.CreateCredential(ctx, in.AdminEmail, in.AdminPassword, s.autoConfirm)
		t.credentialID = id
		return err
	})
	if err != nil {
		m.must(EventCredentialFailed)
		m.must(EventCompensated)
		s.metrics.Observe(operationCreate, outcomeFailed, s.now().Sub(start))
		s.logg.Warn(ctx, "provisioning.create.credential_failed")
		return nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "create admin credential")
	}
	m.must(EventCredentialCreated)

	var store *models.Store
	err = s.step(ctx, func(ctx context.Context) error {
		created, err := s.tenants.Create(ctx, in.Store)
		store = created
		return err
	})
	if err != nil {
		m.must(EventTenantFailed)
		return nil, s.compensate(ctx, m, t, "create_tenant", err, start)
	}
	m.must(EventTenantCreated)
	t.storeID = store.ID
	ctx = s.logg.WithStoreID(ctx, store.ID.String())

	storeID := store.ID
	err = s.step(ctx, func(ctx context.Context) error {
		_, err := s.profiles.Create(ctx, users.CreateUserDTO{
			ID:      t.credentialID,
			Name:    in.Store.Owner,
			Email:   strings.ToLower(strings.TrimSpace(in.AdminEmail)),
			Role:    enums.RoleAdmin,
			StoreID: &storeID,
		})
		return err
	})
	if err != nil {
		m.must(EventProfileFailed)
		return nil, s.compensate(ctx, m, t, "link_profile", err, start)
	}
	m.must(EventProfileLinked)

	s.metrics.Observe(operationCreate, outcomeSuccess, s.now().Sub(start))
	s.logg.Info(ctx, "provisioning.create.completed")

	dto := stores.FromModel(store)
	dto.AdminEmail = strings.ToLower(strings.TrimSpace(in.AdminEmail))
	return &CreateResult{Store: dto, AdminID: t.credentialID}, nil
}

// compensate runs the undo list registered for the machine's failure state
// and returns the PARTIAL_FAILURE error describing the outcome.
func (s *Saga) compensate(ctx context.Context, m *machine, t targets, step string, cause error, start time.Time) error {
	details := FailureDetails{Step: step}
	var compErr error
	undo := context.WithoutCancel(ctx)
	for _, c := range compensations[m.state] {
		s.metrics.IncCompensation(c.name)
		if err := s.step(undo, func(ctx context.Context) error { return c.run(ctx, s, t) }); err != nil {
			compErr = multierr.Append(compErr, fmt.Errorf("%s: %w", c.name, err))
			c.orphan(&details, t)
		}
	}
	m.must(EventCompensated)

	details.Compensated = compErr == nil
	outcome := outcomeCompensated
	msg := fmt.Sprintf("tenant provisioning failed at %s; changes were rolled back", step)
	if compErr != nil {
		outcome = outcomeRollbackError
		msg = fmt.Sprintf("tenant provisioning failed at %s; rollback incomplete", step)
		for _, e := range multierr.Errors(compErr) {
			details.CompensationErrors = append(details.CompensationErrors, e.Error())
		}
		s.logg.Error(ctx, "provisioning.create.compensation_failed", compErr)
	} else {
		s.logg.Warn(ctx, "provisioning.create.compensated")
	}
	s.metrics.Observe(operationCreate, outcome, s.now().Sub(start))

	return pkgerrors.Wrap(pkgerrors.CodePartialFailure, multierr.Append(cause, compErr), msg).WithDetails(details)
}

func validateCreate(in CreateTenantInput) error {
	if strings.TrimSpace(in.Store.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if strings.TrimSpace(in.Store.Owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store owner is required")
	}
	if !in.Store.Template.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid store template")
	}
	if in.Store.Currency != "" && !in.Store.Currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}
	if in.Store.Status != "" && !in.Store.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if in.Store.Plan != "" && !in.Store.Plan.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid plan")
	}
	if strings.TrimSpace(in.AdminEmail) == "" || strings.TrimSpace(in.AdminPassword) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin email and password are required")
	}
	return nil
}
