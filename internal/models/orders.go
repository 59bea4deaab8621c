package models

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in the cart.
type CartItem struct {
	ID       int64           `json:"id"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is the current user's shopping cart.
type Cart struct {
	ID         int64           `json:"id"`
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalItems int             `json:"total_items"`
	CreatedAt  time.Time       `json:"created_at,omitzero"`
	UpdatedAt  time.Time       `json:"updated_at,omitzero"`
}

// AddToCartRequest is the body of POST cart/add/.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemRequest is the body of PATCH cart/items/{id}/.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Cancellable reports whether the backend still accepts a cancel.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID       int64           `json:"id"`
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Order is a placed catalog order.
type Order struct {
	ID                int64           `json:"id"`
	User              *User           `json:"user,omitempty"`
	Items             []OrderItem     `json:"items"`
	Status            OrderStatus     `json:"status"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ShippingAddress   string          `json:"shipping_address"`
	PaymentMethod     string          `json:"payment_method"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	CreatedAt         time.Time       `json:"created_at,omitzero"`
	UpdatedAt         time.Time       `json:"updated_at,omitzero"`
}

// OrderLine is one requested product in CreateOrderRequest.
type OrderLine struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the body of POST orders/.
type CreateOrderRequest struct {
	Items           []OrderLine `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string      `json:"shipping_address" validate:"required"`
	PaymentMethod   string      `json:"payment_method" validate:"required"`
}

// CustomOrderStatus is the lifecycle state of a custom order.
type CustomOrderStatus string

const (
	CustomOrderStatusPending    CustomOrderStatus = "pending"
	CustomOrderStatusInProgress CustomOrderStatus = "in_progress"
	CustomOrderStatusCompleted  CustomOrderStatus = "completed"
	CustomOrderStatusCancelled  CustomOrderStatus = "cancelled"
	CustomOrderStatusRejected   CustomOrderStatus = "rejected"
)

// CustomOrder is a made-to-order print request.
type CustomOrder struct {
	ID          int64             `json:"id"`
	User        *User             `json:"user,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	BudgetMin   decimal.Decimal   `json:"budget_min"`
	BudgetMax   decimal.Decimal   `json:"budget_max"`
	Deadline    string            `json:"deadline"`
	Status      CustomOrderStatus `json:"status"`
	Attachments []string          `json:"attachments,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitzero"`
	UpdatedAt   time.Time         `json:"updated_at,omitzero"`
}

// Attachment is a file sent with a custom order or upload.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateCustomOrderRequest is sent as multipart/form-data.
type CreateCustomOrderRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	BudgetMin   decimal.Decimal `json:"budget_min" validate:"gte=0"`
	BudgetMax   decimal.Decimal `json:"budget_max" validate:"gte=0"`
	Deadline    string          `json:"deadline" validate:"required,datetime=2006-01-02"`
	Attachments []Attachment    `json:"-"`
}

func (r *CreateCustomOrderRequest) fieldErrors() map[string][]string {
	if r.BudgetMax.LessThan(r.BudgetMin) {
		return map[string][]string{"budget_max": {"Must be greater than or equal to budget_min"}}
	}
	return nil
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment records a payment against an order.
type Payment struct {
	ID            int64           `json:"id"`
	Order         int64           `json:"order"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitzero"`
	UpdatedAt     time.Time       `json:"updated_at,omitzero"`
}

// PaymentRequest is the body of POST payments/.
type PaymentRequest struct {
	OrderID       int64           `json:"order_id" validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
}
