package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// OrdersService covers the admin order endpoints.
type OrdersService struct {
	client *Client
}

// Orders returns the order sub-client.
func (c *Client) Orders() *OrdersService {
	return &OrdersService{client: c}
}

// ListOrdersParams filters the admin order listing.
type ListOrdersParams struct {
	Page   int
	Limit  int
	Status OrderStatus
}

func (p ListOrdersParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	return q
}

// List fetches all orders across users; admin only.
func (os *OrdersService) List(ctx context.Context, params ListOrdersParams) ([]Order, *Pagination, error) {
	var out []Order
	page, err := os.client.do(ctx, http.MethodGet, "/orders/admin/all", params.query(), nil, &out)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[OrdersService.List]")
	}
	return out, page, nil
}

func (os *OrdersService) Get(ctx context.Context, id int) (*Order, error) {
	var out Order
	_, err := os.client.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[OrdersService.Get]")
	}
	return &out, nil
}

// UpdateOrderStatusParams moves an order through its state machine.
type UpdateOrderStatusParams struct {
	Status     OrderStatus `json:"status"`
	PaymentRef string      `json:"paymentRef,omitempty"`
}

func (os *OrdersService) UpdateStatus(ctx context.Context, id int, params UpdateOrderStatusParams) (*Order, error) {
	var out Order
	_, err := os.client.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/admin/%d/status", id), nil, jsonBody{params}, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[OrdersService.UpdateStatus]")
	}
	return &out, nil
}
