package models

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	Weight        *float64        `json:"weight,omitempty"`
	Dimensions    string          `json:"dimensions,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitzero"`
	UpdatedAt     time.Time       `json:"updated_at,omitzero"`
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.IsActive && p.StockQuantity > 0
}

// ProductInput creates a product.
type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	Category      string          `json:"category" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	ImageURL      string          `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive      bool            `json:"is_active"`
	Weight        *float64        `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Dimensions    string          `json:"dimensions,omitempty"`
}

// ProductUpdate is a partial product update. Nil fields are left unchanged.
type ProductUpdate struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,min=1"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ProductFilter narrows a product listing. The zero value lists everything.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// Values encodes the filter as query parameters, skipping unset fields.
func (f *ProductFilter) Values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	setString(v, "category", f.Category)
	setDecimal(v, "min_price", f.MinPrice)
	setDecimal(v, "max_price", f.MaxPrice)
	setString(v, "search", f.Search)
	setString(v, "ordering", f.Ordering)
	setInt(v, "page", f.Page)
	setInt(v, "page_size", f.PageSize)
	return v
}

// Review is a product rating by a user.
type Review struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Product   Product   `json:"product"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// CreateReviewRequest is the body of POST reviews/.
type CreateReviewRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
}

// ReviewUpdate is a partial review update.
type ReviewUpdate struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

func setDecimal(v url.Values, key string, value *decimal.Decimal) {
	if value != nil {
		v.Set(key, value.String())
	}
}
