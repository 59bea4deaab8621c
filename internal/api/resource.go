package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query is anything that can be sent as URL query parameters.
type Query interface {
	Values() url.Values
}

// Params is a ready-made Query. Empty values are skipped.
type Params map[string]string

func (p Params) Values() url.Values {
	v := url.Values{}
	for key, value := range p {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnmarshalJSON accepts the paginated envelope and a bare JSON array,
// which some endpoints return instead.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	return nil
}

// pageEnvelope has Page's fields without its UnmarshalJSON method.
type pageEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// maxPages caps ListAll so a misbehaving server cannot loop forever.
const maxPages = 100

// Resource implements the standard CRUD calls for one REST collection.
type Resource[T any] struct {
	client *Client
	base   string
}

// NewResource binds a collection path such as "products/".
func NewResource[T any](client *Client, base string) *Resource[T] {
	return &Resource[T]{client: client, base: strings.Trim(base, "/") + "/"}
}

// Client returns the underlying client.
func (r *Resource[T]) Client() *Client {
	return r.client
}

// Path builds base/part/part/ with a trailing slash.
func (r *Resource[T]) Path(parts ...string) string {
	p := r.base
	for _, part := range parts {
		p += strings.Trim(part, "/") + "/"
	}
	return p
}

func (r *Resource[T]) itemPath(id int64, parts ...string) string {
	return r.Path(append([]string{strconv.FormatInt(id, 10)}, parts...)...)
}

// List fetches one page. filters may be nil.
func (r *Resource[T]) List(ctx context.Context, filters Query) (*Page[T], error) {
	var page Page[T]
	if err := r.client.Get(ctx, r.base, values(filters), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAll follows next links and returns every item.
func (r *Resource[T]) ListAll(ctx context.Context, filters Query) ([]T, error) {
	page, err := r.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	items := page.Results

	for n := 1; page.HasNext(); n++ {
		if n >= maxPages {
			r.client.logger.Warn("pagination capped, results may be incomplete", "resource", r.base, "pages", maxPages)
			break
		}
		next := *page.Next
		page = &Page[T]{}
		if err := r.client.Get(ctx, next, nil, page); err != nil {
			return nil, err
		}
		items = append(items, page.Results...)
	}
	return items, nil
}

// Get fetches one item.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.client.Get(ctx, r.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts body to the collection.
func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var item T
	if err := r.client.Post(ctx, r.base, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial update (PATCH).
func (r *Resource[T]) Update(ctx context.Context, id int64, body any) (*T, error) {
	var item T
	if err := r.client.Patch(ctx, r.itemPath(id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Replace applies a full update (PUT).
func (r *Resource[T]) Replace(ctx context.Context, id int64, body any) (*T, error) {
	var item T
	if err := r.client.Put(ctx, r.itemPath(id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes one item.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, r.itemPath(id), nil)
}

// Action calls base/{id}/{action}/. GET sends data as query parameters;
// DELETE ignores out.
func (r *Resource[T]) Action(ctx context.Context, id int64, action string, data any, method string, out any) error {
	return r.perform(ctx, r.itemPath(id, action), data, method, out)
}

// CollectionAction calls base/{action}/ with the same rules as Action.
func (r *Resource[T]) CollectionAction(ctx context.Context, action string, data any, method string, out any) error {
	return r.perform(ctx, r.Path(action), data, method, out)
}

func (r *Resource[T]) perform(ctx context.Context, path string, data any, method string, out any) error {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodPost
	}

	req := &Request{Method: method, Path: path}
	switch method {
	case http.MethodGet:
		q, err := toValues(data)
		if err != nil {
			return err
		}
		req.Query = q
	case http.MethodDelete:
		out = nil
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.Body = data
	default:
		return unsupportedMethod(method)
	}
	return r.client.Do(ctx, req, out)
}

// PerformAction runs Action and decodes the response as U.
func PerformAction[U, T any](ctx context.Context, r *Resource[T], id int64, action string, data any, method string) (*U, error) {
	var out U
	if err := r.Action(ctx, id, action, data, method, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PerformCollectionAction runs CollectionAction and decodes the response as U.
func PerformCollectionAction[U, T any](ctx context.Context, r *Resource[T], action string, data any, method string) (*U, error) {
	var out U
	if err := r.CollectionAction(ctx, action, data, method, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func values(q Query) url.Values {
	if q == nil {
		return nil
	}
	return q.Values()
}

func toValues(data any) (url.Values, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return d, nil
	case Query:
		return d.Values(), nil
	case map[string]string:
		return Params(d).Values(), nil
	default:
		return nil, &Error{
			Message: fmt.Sprintf("cannot send %T as query parameters", data),
			Status:  http.StatusBadRequest,
			Code:    "invalid_query",
		}
	}
}
