package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// ProductsService covers the catalog CRUD endpoints.
type ProductsService struct {
	client *Client
}

// Products returns the catalog sub-client.
func (c *Client) Products() *ProductsService {
	return &ProductsService{client: c}
}

// ListProductsParams filters the product listing. Zero values are omitted
// from the query string.
type ListProductsParams struct {
	Page       int
	Limit      int
	Search     string
	CategoryID int
}

func (p ListProductsParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.CategoryID > 0 {
		q.Set("categoryId", strconv.Itoa(p.CategoryID))
	}
	return q
}

func (ps *ProductsService) List(ctx context.Context, params ListProductsParams) ([]Product, *Pagination, error) {
	var out []Product
	page, err := ps.client.do(ctx, http.MethodGet, "/products", params.query(), nil, &out)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[ProductsService.List]")
	}
	return out, page, nil
}

func (ps *ProductsService) Get(ctx context.Context, id int) (*Product, error) {
	var out Product
	_, err := ps.client.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[ProductsService.Get]")
	}
	return &out, nil
}

// CreateProductParams is the full payload for a new product. Attaching an
// Image switches the request to multipart/form-data.
type CreateProductParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	SKU         string     `json:"sku,omitempty"`
	Stock       int        `json:"stock"`
	CategoryID  int        `json:"categoryId"`
	IsActive    bool       `json:"isActive"`
	Image       *ImageFile `json:"-"`
}

func (p CreateProductParams) body() requestBody {
	if p.Image == nil {
		return jsonBody{p}
	}
	fields := map[string]string{
		"title":      p.Title,
		"price":      strconv.FormatFloat(p.Price, 'f', -1, 64),
		"stock":      strconv.Itoa(p.Stock),
		"categoryId": strconv.Itoa(p.CategoryID),
		"isActive":   strconv.FormatBool(p.IsActive),
	}
	if p.Description != "" {
		fields["description"] = p.Description
	}
	if p.SKU != "" {
		fields["sku"] = p.SKU
	}
	return formBody{fields: fields, file: p.Image}
}

func (ps *ProductsService) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	var out Product
	_, err := ps.client.do(ctx, http.MethodPost, "/products", nil, params.body(), &out)
	if err != nil {
		return nil, errors.Wrap(err, "[ProductsService.Create]")
	}
	return &out, nil
}

// UpdateProductParams is a partial update: nil fields are left untouched by
// the backend.
type UpdateProductParams struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	SKU         *string    `json:"sku,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
	CategoryID  *int       `json:"categoryId,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	Image       *ImageFile `json:"-"`
}

func (p UpdateProductParams) body() requestBody {
	if p.Image == nil {
		return jsonBody{p}
	}
	fields := map[string]string{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Price != nil {
		fields["price"] = strconv.FormatFloat(*p.Price, 'f', -1, 64)
	}
	if p.SKU != nil {
		fields["sku"] = *p.SKU
	}
	if p.Stock != nil {
		fields["stock"] = strconv.Itoa(*p.Stock)
	}
	if p.CategoryID != nil {
		fields["categoryId"] = strconv.Itoa(*p.CategoryID)
	}
	if p.IsActive != nil {
		fields["isActive"] = strconv.FormatBool(*p.IsActive)
	}
	return formBody{fields: fields, file: p.Image}
}

func (ps *ProductsService) Update(ctx context.Context, id int, params UpdateProductParams) (*Product, error) {
	var out Product
	_, err := ps.client.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, params.body(), &out)
	if err != nil {
		return nil, errors.Wrap(err, "[ProductsService.Update]")
	}
	return &out, nil
}

func (ps *ProductsService) Delete(ctx context.Context, id int) error {
	_, err := ps.client.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
	if err != nil {
		return errors.Wrap(err, "[ProductsService.Delete]")
	}
	return nil
}
