package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=80"`
	Description *string `json:"description"`
}

type createVariantRequest struct {
	Attributes    types.Attributes `json:"attributes" validate:"required"`
	PriceOverride *decimal.Decimal `json:"price_override"`
	Stock         int              `json:"stock" validate:"min=0"`
	SKU           *string          `json:"sku"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,url"`
}

type createProductRequest struct {
	CategoryID   *uuid.UUID             `json:"category_id"`
	Name         string                 `json:"name" validate:"required,max=160"`
	Description  *string                `json:"description"`
	SellingPrice decimal.Decimal        `json:"selling_price"`
	ImageURLs    []string               `json:"image_urls" validate:"omitempty,dive,url"`
	IsActive     *bool                  `json:"is_active"`
	Variants     []createVariantRequest `json:"variants" validate:"omitempty,dive"`
}

func (r createProductRequest) toInput() catalog.CreateProductInput {
	in := catalog.CreateProductInput{
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Description:  r.Description,
		SellingPrice: r.SellingPrice,
		ImageURLs:    r.ImageURLs,
		IsActive:     r.IsActive,
	}
	for _, v := range r.Variants {
		in.Variants = append(in.Variants, catalog.CreateVariantInput{
			Attributes:    v.Attributes,
			PriceOverride: v.PriceOverride,
			Stock:         v.Stock,
			SKU:           v.SKU,
			ImageURL:      v.ImageURL,
		})
	}
	return in
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// AdminListProducts lists the catalog of the admin's store. ?active=true
// limits the result to listed products.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}
		active, err := validators.BoolQuery(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		opts := catalog.ListProductsOptions{ActiveOnly: active != nil && *active}

		products, err := svc.ListProducts(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()), opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminSetProductActive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetProductActive(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()), productID, *body.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOperation(w, "product updated")
	}
}

func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}
		productID, err := validators.UUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOperation(w, "product deleted")
	}
}

func AdminListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}
		categories, err := svc.ListCategories(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func AdminCreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), middleware.PrincipalFromContext(r.Context()), middleware.StoreIDFromContext(r.Context()), catalog.CreateCategoryInput{
			Name:        body.Name,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}
