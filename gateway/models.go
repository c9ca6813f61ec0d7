package gateway

import (
	"encoding/json"
	"time"

	"github.com/jrsteele09/go-admin-client/users"
)

// Category is a product grouping. The backend reports the product count
// under the Prisma-style `_count` key on list responses.
type Category struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Count       *CategoryCount `json:"_count,omitempty"`
}

type CategoryCount struct {
	Products int `json:"products"`
}

// Product is a catalog item. Price is a decimal string exactly as the
// backend sends it; this client never does arithmetic on it.
type Product struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	Image       string    `json:"image,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Stock       int       `json:"stock"`
	CategoryID  int       `json:"categoryId"`
	Category    Category  `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderStatus is the backend's order state machine.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderFailed    OrderStatus = "FAILED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderFulfilled OrderStatus = "FULFILLED"
)

type OrderItem struct {
	ID        int              `json:"id"`
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     string           `json:"price"`
	Product   OrderItemProduct `json:"product"`
}

type OrderItemProduct struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

type OrderUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"userId"`
	User            *OrderUser      `json:"user,omitempty"`
	Total           string          `json:"total"`
	Currency        string          `json:"currency"`
	Status          OrderStatus     `json:"status"`
	PaymentRef      string          `json:"paymentRef,omitempty"`
	RazorpayOrderID string          `json:"razorpayOrderId,omitempty"`
	Items           []OrderItem     `json:"items"`
	Address         json.RawMessage `json:"address,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// AuthResponse is the login payload: the authenticated identity plus a fresh
// credential pair.
type AuthResponse struct {
	User         users.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

// DashboardStats aggregates the counts shown on the admin landing page.
type DashboardStats struct {
	TotalProducts   int     `json:"totalProducts"`
	TotalOrders     int     `json:"totalOrders"`
	TotalCategories int     `json:"totalCategories"`
	TotalUsers      int     `json:"totalUsers"`
	TotalRevenue    float64 `json:"totalRevenue"`
	RecentOrders    []Order `json:"recentOrders"`
}
