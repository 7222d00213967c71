package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/odnamestaj/catalog/internal/catalog"
	"github.com/odnamestaj/catalog/internal/domain"
	"github.com/odnamestaj/catalog/internal/webserver"
	"github.com/pkg/errors"
)

type productPayload struct {
	Name        *string  `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    *string  `json:"category" validate:"required"`
	Dimensions  string   `json:"dimensions"`
	Material    string   `json:"material"`
	Images      []string `json:"images" validate:"omitempty,dive,url,max=2048"`
	Featured    *bool    `json:"featured"`
	Available   *bool    `json:"available"`
}

type importPayload struct {
	URL string `json:"url" validate:"required,url"`
}

type createResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type importResponse struct {
	Inserted int    `json:"inserted"`
	Status   string `json:"status"`
	Demo     bool   `json:"demo,omitempty"`
}

func (h *Handlers) registerProductRoutes(s *webserver.WebServer) {
	s.ApiGET("/products", h.listProducts)
	s.ApiPOST("/products", h.createProduct)
	s.ApiPOST("/products/import", h.importProducts)
	s.ApiPOST("/products/import/demo", h.importDemoProducts)
}

// detached keeps store and fetch calls running after the client goes away.
func detached(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func (p productPayload) product() (domain.FurnitureProduct, error) {
	name := strings.TrimSpace(*p.Name)
	if name == "" {
		return domain.FurnitureProduct{}, errors.Wrap(domain.ErrValidation, "Name is required")
	}
	category := strings.TrimSpace(*p.Category)
	if category == "" {
		return domain.FurnitureProduct{}, errors.Wrap(domain.ErrValidation, "Category is required")
	}
	product := domain.FurnitureProduct{
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		Price:       *p.Price,
		Category:    category,
		Dimensions:  strings.TrimSpace(p.Dimensions),
		Material:    strings.TrimSpace(p.Material),
		Images:      p.Images,
		Available:   true,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	if p.Available != nil {
		product.Available = *p.Available
	}
	return product, nil
}

func (h *Handlers) createProduct(c echo.Context) error {
	var payload productPayload
	if err := bindAndValidate(c, &payload); err != nil {
		return failWithError(c, "Unable to parse product", err)
	}
	product, err := payload.product()
	if err != nil {
		return failWithError(c, "Unable to parse product", err)
	}

	id, err := h.products.Create(detached(c), product)
	if err != nil {
		return failWithError(c, "Failed to create product", err)
	}
	return ok(c, createResponse{ID: id, Status: "ok"})
}

func (h *Handlers) listProducts(c echo.Context) error {
	q := catalog.ListQuery{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Limit:    catalog.DefaultListLimit,
	}

	if v := strings.TrimSpace(c.QueryParam("featured")); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "featured must be a boolean", v)
		}
		q.Featured = &featured
	}

	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > catalog.MaxListLimit {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer between 1 and 200", v)
		}
		q.Limit = limit
	}

	products, err := h.products.List(detached(c), q)
	if err != nil {
		return failWithError(c, "Failed to query products", err)
	}
	return ok(c, products)
}

func (h *Handlers) importProducts(c echo.Context) error {
	var payload importPayload
	if err := bindAndValidate(c, &payload); err != nil {
		return failWithError(c, "Unable to parse import request", err)
	}

	inserted, err := h.importer.ImportURL(detached(c), strings.TrimSpace(payload.URL))
	if err != nil {
		return failWithError(c, "Failed to import products", err)
	}
	return ok(c, importResponse{Inserted: inserted, Status: "ok"})
}

func (h *Handlers) importDemoProducts(c echo.Context) error {
	inserted, err := h.importer.ImportDemo(detached(c))
	if err != nil {
		return failWithError(c, "Failed to import demo products", err)
	}
	return ok(c, importResponse{Inserted: inserted, Status: "ok", Demo: true})
}
