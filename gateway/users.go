package gateway

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-admin-client/users"
	"github.com/pkg/errors"
)

// UsersService covers the user administration endpoints.
type UsersService struct {
	client *Client
}

// Users returns the user sub-client.
func (c *Client) Users() *UsersService {
	return &UsersService{client: c}
}

func (us *UsersService) List(ctx context.Context) ([]users.User, error) {
	var out []users.User
	_, err := us.client.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	if err != nil {
		return nil, errors.Wrap(err, "[UsersService.List]")
	}
	return out, nil
}
