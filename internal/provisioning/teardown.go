package provisioning

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/retry"
	"github.com/google/uuid"
)

// DeleteResult describes a finished teardown. DanglingCredentialID is set
// when the store is gone but its admin credential could not be removed.
type DeleteResult struct {
	StoreID              uuid.UUID  `json:"store_id"`
	AlreadyAbsent        bool       `json:"already_absent"`
	AdminID              *uuid.UUID `json:"admin_id,omitempty"`
	DanglingCredentialID *uuid.UUID `json:"dangling_credential_id,omitempty"`
}

// Message renders the operator-facing summary of the teardown.
func (r *DeleteResult) Message() string {
	switch {
	case r.DanglingCredentialID != nil:
		return "store deleted; admin credential " + r.DanglingCredentialID.String() + " could not be removed"
	case r.AlreadyAbsent:
		return "store was already deleted"
	default:
		return "store deleted"
	}
}

// DeleteTenant removes the store (its catalog and orders cascade) and then
// the credential of its admin. The credential is never touched while the
// store still exists.
func (s *Saga) DeleteTenant(ctx context.Context, p access.Principal, storeID uuid.UUID) (*DeleteResult, error) {
	if err := access.Require(p, access.CanProvision(p)); err != nil {
		return nil, err
	}

	start := s.now()
	ctx = s.logg.WithOperation(ctx, "provisioning.delete", uuid.NewString())
	ctx = s.logg.WithStoreID(ctx, storeID.String())
	m := newMachine(deleteTransitions)
	result := &DeleteResult{StoreID: storeID}

	var admins []models.User
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.step(ctx, func(ctx context.Context) error {
			found, err := s.profiles.FindAdminsByStore(ctx, storeID)
			if err != nil {
				return pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "look up store admin")
			}
			admins = found
			return nil
		})
	})
	if err != nil {
		m.must(EventLookupFailed)
		s.metrics.Observe(operationDelete, outcomeAborted, s.now().Sub(start))
		s.logg.Error(ctx, "provisioning.delete.lookup_failed", err)
		return nil, err
	}
	m.must(EventAdminLocated)

	if len(admins) > 1 {
		ctx = s.logg.WithField(ctx, "admin_count", len(admins))
		s.logg.Warn(ctx, "provisioning.delete.admin_anomaly")
	}
	if len(admins) > 0 {
		id := admins[0].ID
		result.AdminID = &id
	}

	var existed bool
	err = s.step(ctx, func(ctx context.Context) error {
		ok, err := s.tenants.Delete(ctx, storeID)
		existed = ok
		return err
	})
	if err != nil {
		m.must(EventTenantDeleteFailed)
		s.metrics.Observe(operationDelete, outcomeAborted, s.now().Sub(start))
		s.logg.Error(ctx, "provisioning.delete.tenant_failed", err)
		return nil, pkgerrors.Passthrough(err, pkgerrors.CodeDependency, "delete store")
	}
	if existed {
		m.must(EventTenantDeleted)
	} else {
		m.must(EventTenantMissing)
		result.AlreadyAbsent = true
	}

	outcome := outcomeSuccess
	if result.AlreadyAbsent {
		outcome = outcomeAlreadyAbsent
	}

	if result.AdminID == nil {
		m.must(EventNoCredential)
	} else {
		adminID := *result.AdminID
		err = s.step(context.WithoutCancel(ctx), func(ctx context.Context) error {
			return s.identity.DeleteCredential(ctx, adminID)
		})
		if err != nil {
			m.must(EventCredentialDeleteFailed)
			result.DanglingCredentialID = &adminID
			outcome = outcomeDangling
			s.metrics.IncDangling()
			dangling := pkgerrors.Wrap(pkgerrors.CodeDanglingResource, err, "admin credential left behind")
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"credential_id": adminID.String(),
				"error":         dangling.Error(),
			}), "provisioning.delete.credential_dangling")
		} else {
			m.must(EventCredentialDeleted)
		}
	}

	s.metrics.Observe(operationDelete, outcome, s.now().Sub(start))
	s.logg.Info(ctx, "provisioning.delete.completed")
	return result, nil
}
