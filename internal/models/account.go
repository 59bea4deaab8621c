package models

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationOrderUpdate   NotificationType = "order_update"
	NotificationPaymentUpdate NotificationType = "payment_update"
	NotificationSystem        NotificationType = "system"
	NotificationPromotion     NotificationType = "promotion"
	NotificationCustomOrder   NotificationType = "custom_order"
)

// Notification is a message for the current user.
type Notification struct {
	ID        int64            `json:"id"`
	User      int64            `json:"user"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at,omitzero"`
}

// Address is a saved shipping address.
type Address struct {
	ID           int64  `json:"id"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// CreateAddressRequest is the body of POST addresses/.
type CreateAddressRequest struct {
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,len=2"`
	ZipCode      string `json:"zip_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

// AddressUpdate is a partial address update.
type AddressUpdate struct {
	Street       *string `json:"street,omitempty" validate:"omitempty,min=1"`
	Number       *string `json:"number,omitempty" validate:"omitempty,min=1"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty" validate:"omitempty,min=1"`
	City         *string `json:"city,omitempty" validate:"omitempty,min=1"`
	State        *string `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode      *string `json:"zip_code,omitempty" validate:"omitempty,min=1"`
	Country      *string `json:"country,omitempty" validate:"omitempty,min=1"`
	IsDefault    *bool   `json:"is_default,omitempty"`
}

// DashboardStats summarizes store activity.
type DashboardStats struct {
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PendingOrders  int             `json:"pending_orders"`
	TotalProducts  int             `json:"total_products"`
	TotalCustomers int             `json:"total_customers"`
	RecentOrders   []Order         `json:"recent_orders"`
}

// SearchParams is the query of GET search/.
type SearchParams struct {
	Query    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Ordering string
	Page     int
	PageSize int
}

// Values encodes the search as query parameters, skipping unset fields.
func (p *SearchParams) Values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setString(v, "q", p.Query)
	setString(v, "category", p.Category)
	setDecimal(v, "min_price", p.MinPrice)
	setDecimal(v, "max_price", p.MaxPrice)
	setString(v, "ordering", p.Ordering)
	setInt(v, "page", p.Page)
	setInt(v, "page_size", p.PageSize)
	return v
}

// SearchResult is the response of GET search/.
type SearchResult struct {
	Products    []Product `json:"products"`
	TotalCount  int       `json:"total_count"`
	Suggestions []string  `json:"suggestions"`
}
