package gateway

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// DashboardService covers the aggregate statistics endpoint.
type DashboardService struct {
	client *Client
}

// Dashboard returns the dashboard sub-client.
func (c *Client) Dashboard() *DashboardService {
	return &DashboardService{client: c}
}

func (ds *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	_, err := ds.client.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[DashboardService.Stats]")
	}
	return &out, nil
}
