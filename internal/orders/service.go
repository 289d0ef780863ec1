// Package orders exposes the read-only order history of a store.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID           uuid.UUID         `json:"id"`
	StoreID      uuid.UUID         `json:"store_id"`
	CustomerName string            `json:"customer_name"`
	Date         time.Time         `json:"date"`
	Total        decimal.Decimal   `json:"total"`
	Status       enums.OrderStatus `json:"status"`
}

type ordersRepository interface {
	ListByStore(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Order, error)
	PageByStore(ctx context.Context, scope func(*gorm.DB) *gorm.DB, after *pagination.Cursor, limit int) ([]models.Order, error)
}

// Service lists orders on behalf of a principal.
type Service interface {
	ListByStore(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]OrderDTO, error)
	Page(ctx context.Context, p access.Principal, storeID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error)
}

type service struct {
	repo ordersRepository
}

// NewService builds an orders service.
func NewService(repo ordersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByStore(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]OrderDTO, error) {
	allowed := access.CanReadOrders(p, storeID)
	if err := access.Require(p, allowed); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, access.TenantScope("orders", storeID, allowed))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return toDTOs(rows), nil
}

// Page lists one keyset page of the store's orders, newest first.
func (s *service) Page(ctx context.Context, p access.Principal, storeID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	allowed := access.CanReadOrders(p, storeID)
	if err := access.Require(p, allowed); err != nil {
		return nil, err
	}
	after, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.PageByStore(ctx, access.TenantScope("orders", storeID, allowed), after, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page := pagination.Build(toDTOs(rows), params.Limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{At: o.Date, ID: o.ID}
	})
	return &page, nil
}

func toDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, o := range rows {
		out = append(out, OrderDTO{
			ID:           o.ID,
			StoreID:      o.StoreID,
			CustomerName: o.CustomerName,
			Date:         o.Date,
			Total:        o.Total,
			Status:       o.Status,
		})
	}
	return out
}
