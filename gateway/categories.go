package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// CategoriesService covers the category CRUD endpoints.
type CategoriesService struct {
	client *Client
}

// Categories returns the category sub-client.
func (c *Client) Categories() *CategoriesService {
	return &CategoriesService{client: c}
}

func (cs *CategoriesService) List(ctx context.Context) ([]Category, error) {
	var out []Category
	_, err := cs.client.do(ctx, http.MethodGet, "/categories", nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[CategoriesService.List]")
	}
	return out, nil
}

func (cs *CategoriesService) Get(ctx context.Context, id int) (*Category, error) {
	var out Category
	_, err := cs.client.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[CategoriesService.Get]")
	}
	return &out, nil
}

// CreateCategoryParams is the payload for a new category; an attached Image
// switches the request to multipart/form-data.
type CreateCategoryParams struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Image       *ImageFile `json:"-"`
}

func (p CreateCategoryParams) body() requestBody {
	if p.Image == nil {
		return jsonBody{p}
	}
	fields := map[string]string{"name": p.Name}
	if p.Description != "" {
		fields["description"] = p.Description
	}
	return formBody{fields: fields, file: p.Image}
}

func (cs *CategoriesService) Create(ctx context.Context, params CreateCategoryParams) (*Category, error) {
	var out Category
	_, err := cs.client.do(ctx, http.MethodPost, "/categories", nil, params.body(), &out)
	if err != nil {
		return nil, errors.Wrap(err, "[CategoriesService.Create]")
	}
	return &out, nil
}

// UpdateCategoryParams is a partial update: nil fields are left untouched.
type UpdateCategoryParams struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Image       *ImageFile `json:"-"`
}

func (p UpdateCategoryParams) body() requestBody {
	if p.Image == nil {
		return jsonBody{p}
	}
	fields := map[string]string{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	return formBody{fields: fields, file: p.Image}
}

func (cs *CategoriesService) Update(ctx context.Context, id int, params UpdateCategoryParams) (*Category, error) {
	var out Category
	_, err := cs.client.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), nil, params.body(), &out)
	if err != nil {
		return nil, errors.Wrap(err, "[CategoriesService.Update]")
	}
	return &out, nil
}

func (cs *CategoriesService) Delete(ctx context.Context, id int) error {
	_, err := cs.client.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil, nil)
	if err != nil {
		return errors.Wrap(err, "[CategoriesService.Delete]")
	}
	return nil
}
