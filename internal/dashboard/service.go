// Package dashboard assembles the multi-read views of a store: the admin
// dashboard and the public storefront. Reads run concurrently and the first
// failure cancels the rest.
package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/storefront-backend/internal/access"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/stores"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/retry"
)

type storeReader interface {
	Get(ctx context.Context, p access.Principal, id uuid.UUID) (*stores.StoreDTO, error)
	Storefront(ctx context.Context, id uuid.UUID) (*stores.StorefrontDTO, error)
}

type catalogReader interface {
	ListProducts(ctx context.Context, p access.Principal, storeID uuid.UUID, opts catalog.ListProductsOptions) ([]catalog.ProductDTO, error)
	ListCategories(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]catalog.CategoryDTO, error)
}

type orderReader interface {
	ListByStore(ctx context.Context, p access.Principal, storeID uuid.UUID) ([]orders.OrderDTO, error)
}

// Dashboard is everything the admin console shows for one store.
type Dashboard struct {
	Store      *stores.StoreDTO      `json:"store"`
	Products   []catalog.ProductDTO  `json:"products"`
	Categories []catalog.CategoryDTO `json:"categories"`
	Orders     []orders.OrderDTO     `json:"orders"`
	Summary    Summary               `json:"summary"`
}

// Summary aggregates the loaded rows.
type Summary struct {
	Products       int             `json:"products"`
	ActiveProducts int             `json:"active_products"`
	OutOfStock     int             `json:"out_of_stock_variants"`
	Orders         int             `json:"orders"`
	PendingOrders  int             `json:"pending_orders"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// Storefront is the public bundle a template renders.
type Storefront struct {
	Store      *stores.StorefrontDTO `json:"store"`
	Products   []catalog.ProductDTO  `json:"products"`
	Categories []catalog.CategoryDTO `json:"categories"`
}

// Service loads dashboard views.
type Service interface {
	Load(ctx context.Context, p access.Principal, storeID uuid.UUID) (*Dashboard, error)
	Storefront(ctx context.Context, storeID uuid.UUID) (*Storefront, error)
}

type service struct {
	stores  storeReader
	catalog catalogReader
	orders  orderReader
	retry   retry.Policy
	logg    *logger.Logger
}

// NewService wires the readers behind the dashboard.
func NewService(storeSvc storeReader, catalogSvc catalogReader, orderSvc orderReader, policy retry.Policy, logg *logger.Logger) (Service, error) {
	if storeSvc == nil {
		return nil, fmt.Errorf("store reader required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{stores: storeSvc, catalog: catalogSvc, orders: orderSvc, retry: policy, logg: logg}, nil
}

func (s *service) Load(ctx context.Context, p access.Principal, storeID uuid.UUID) (*Dashboard, error) {
	if err := access.Require(p, access.CanReadOrders(p, storeID)); err != nil {
		return nil, err
	}

	out := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Store, err = s.stores.Get(ctx, p, storeID)
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Products, err = s.catalog.ListProducts(ctx, p, storeID, catalog.ListProductsOptions{})
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Orders, err = s.orders.ListByStore(ctx, p, storeID)
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Categories, err = s.catalog.ListCategories(ctx, p, storeID)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		s.logg.Error(s.logg.WithStoreID(ctx, storeID.String()), "dashboard.load_failed", err)
		return nil, err
	}

	out.Summary = summarize(out.Products, out.Orders)
	return out, nil
}

func (s *service) Storefront(ctx context.Context, storeID uuid.UUID) (*Storefront, error) {
	visitor := access.Anonymous{}
	out := &Storefront{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Store, err = s.stores.Storefront(ctx, storeID)
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Products, err = s.catalog.ListProducts(ctx, visitor, storeID, catalog.ListProductsOptions{ActiveOnly: true})
			return err
		})
	})
	g.Go(func() error {
		return s.read(gctx, func(ctx context.Context) (err error) {
			out.Categories, err = s.catalog.ListCategories(ctx, visitor, storeID)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// read retries one idempotent load on transient failure.
func (s *service) read(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, s.retry, fn)
}

func summarize(products []catalog.ProductDTO, orderRows []orders.OrderDTO) Summary {
	sum := Summary{Products: len(products), Orders: len(orderRows), Revenue: decimal.Zero}
	for _, p := range products {
		if p.IsActive {
			sum.ActiveProducts++
		}
		for _, v := range p.Variants {
			if v.Stock == 0 {
				sum.OutOfStock++
			}
		}
	}
	for _, o := range orderRows {
		switch o.Status {
		case enums.OrderStatusPending:
			sum.PendingOrders++
		case enums.OrderStatusCancelled:
			continue
		}
		sum.Revenue = sum.Revenue.Add(o.Total)
	}
	return sum
}
