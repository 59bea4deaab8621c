// Package models provides canonical type definitions for storefront API entities.
// These types are used by the shop services and the CLI for requests and responses.
package models

import (
	"net/url"
	"time"
)

// User is a storefront account.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined,omitzero"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
}

// FullName joins first and last name, falling back to the email.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

// LoginRequest is the body of POST auth/login/.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST auth/register/.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// UploadResult is returned by POST upload/.
type UploadResult struct {
	URL string `json:"url"`
}

// ListOptions pages and sorts a listing. The zero value uses the server
// defaults.
type ListOptions struct {
	Page     int
	PageSize int
	Ordering string
}

// Values encodes the options as query parameters.
func (o *ListOptions) Values() url.Values {
	v := url.Values{}
	if o == nil {
		return v
	}
	setInt(v, "page", o.Page)
	setInt(v, "page_size", o.PageSize)
	setString(v, "ordering", o.Ordering)
	return v
}
