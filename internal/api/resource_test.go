package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recorded struct {
	method string
	path   string
	query  string
	body   string
}

// recordingServer returns the server and a func reporting the calls it saw.
func recordingServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body)})
		mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func TestResourceCRUD(t *testing.T) {
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if r.URL.Path == "/api/v1/widgets/" {
				writeJSON(w, http.StatusOK, map[string]any{"count": 1, "results": []widget{{ID: 1, Name: "mug"}}})
				return
			}
			writeJSON(w, http.StatusOK, widget{ID: 1, Name: "mug"})
		default:
			writeJSON(w, http.StatusOK, widget{ID: 1, Name: "mug"})
		}
	})

	c := newTestClient(t, srv, nil)
	res := NewResource[widget](c, "/widgets/")
	ctx := context.Background()

	page, err := res.List(ctx, Params{"category": "cups", "search": ""})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "mug", page.Results[0].Name)

	item, err := res.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.ID)

	_, err = res.Create(ctx, map[string]string{"name": "mug"})
	require.NoError(t, err)
	_, err = res.Update(ctx, 1, map[string]string{"name": "cup"})
	require.NoError(t, err)
	_, err = res.Replace(ctx, 1, widget{ID: 1, Name: "cup"})
	require.NoError(t, err)
	require.NoError(t, res.Delete(ctx, 1))

	want := []recorded{
		{method: "GET", path: "/api/v1/widgets/", query: "category=cups"},
		{method: "GET", path: "/api/v1/widgets/1/"},
		{method: "POST", path: "/api/v1/widgets/", body: `{"name":"mug"}`},
		{method: "PATCH", path: "/api/v1/widgets/1/", body: `{"name":"cup"}`},
		{method: "PUT", path: "/api/v1/widgets/1/", body: `{"id":1,"name":"cup"}`},
		{method: "DELETE", path: "/api/v1/widgets/1/"},
	}
	assert.Equal(t, want, calls())
}

func TestResourceListNilFilters(t *testing.T) {
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []widget{{ID: 1}, {ID: 2}})
	})

	res := NewResource[widget](newTestClient(t, srv, nil), "widgets")
	page, err := res.List(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Count, "bare array becomes a page")
	assert.False(t, page.HasNext())
	assert.Empty(t, calls()[0].query)
}

func TestResourceListAllFollowsNext(t *testing.T) {
	var srv *httptest.Server
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, map[string]any{"count": 3, "next": nil, "results": []widget{{ID: 3}}})
			return
		}
		next := srv.URL + "/api/v1/widgets/?page=2"
		writeJSON(w, http.StatusOK, map[string]any{"count": 3, "next": next, "results": []widget{{ID: 1}, {ID: 2}}})
	})

	res := NewResource[widget](newTestClient(t, srv, nil), "widgets/")
	items, err := res.ListAll(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[2].ID)
	assert.Len(t, calls(), 2)
}

func TestResourceActions(t *testing.T) {
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			writeJSON(w, http.StatusOK, map[string]any{"ignored": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	})

	res := NewResource[widget](newTestClient(t, srv, nil), "orders/")
	ctx := context.Background()

	out, err := PerformAction[map[string]string](ctx, res, 7, "cancel", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", (*out)["status"])

	_, err = PerformAction[map[string]string](ctx, res, 7, "history", Params{"limit": "5"}, "get")
	require.NoError(t, err)

	_, err = PerformCollectionAction[map[string]string](ctx, res, "mark_all_read", map[string]bool{"all": true}, http.MethodPatch)
	require.NoError(t, err)

	var dropped map[string]any
	require.NoError(t, res.Action(ctx, 7, "items", nil, http.MethodDelete, &dropped))
	assert.Nil(t, dropped, "DELETE does not decode a body")

	want := []recorded{
		{method: "POST", path: "/api/v1/orders/7/cancel/"},
		{method: "GET", path: "/api/v1/orders/7/history/", query: "limit=5"},
		{method: "PATCH", path: "/api/v1/orders/mark_all_read/", body: `{"all":true}`},
		{method: "DELETE", path: "/api/v1/orders/7/items/"},
	}
	assert.Equal(t, want, calls())
}

func TestResourceActionUnsupportedMethod(t *testing.T) {
	srv, calls := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	res := NewResource[widget](newTestClient(t, srv, nil), "orders/")
	err := res.Action(context.Background(), 1, "cancel", nil, "OPTIONS", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Empty(t, calls())
}

func TestResourceActionGetRejectsBody(t *testing.T) {
	srv, _ := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	res := NewResource[widget](newTestClient(t, srv, nil), "orders/")

	err := res.Action(context.Background(), 1, "history", []int{1, 2}, http.MethodGet, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_query", apiErr.Code)
}

func TestResourceErrorIsNormalized(t *testing.T) {
	srv, _ := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})

	res := NewResource[widget](newTestClient(t, srv, nil), "products/")
	item, err := res.Get(context.Background(), 999)

	assert.Nil(t, item)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Not found.", apiErr.Detail)
}

func TestResourcePath(t *testing.T) {
	res := NewResource[widget](nil, "/cart/")
	assert.Equal(t, "cart/", res.Path())
	assert.Equal(t, "cart/items/3/", res.Path("items", "/3/"))
	assert.Equal(t, "cart/12/status/", res.itemPath(12, "status"))
}

func TestMultipartUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Caneca personalizada", r.FormValue("description"))

		f, hdr, err := r.FormFile("reference_image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, `art "v2".png`, hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "PNGDATA", string(data))

		writeJSON(w, http.StatusCreated, map[string]any{"id": 5})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	form := NewMultipart().
		Field("description", "Caneca personalizada").
		File("reference_image", `art "v2".png`, "image/png", strings.NewReader("PNGDATA"))

	var out map[string]any
	require.NoError(t, c.Post(context.Background(), "custom-orders/", form, &out))
	assert.Equal(t, float64(5), out["id"])
}

func TestPageUnmarshal(t *testing.T) {
	var page Page[widget]
	require.NoError(t, json.Unmarshal([]byte(`{"count":10,"next":"http://x/api/v1/widgets/?page=2","previous":null,"results":[{"id":1}]}`), &page))
	assert.Equal(t, 10, page.Count)
	assert.True(t, page.HasNext())
	assert.Nil(t, page.Previous)

	require.Error(t, json.Unmarshal([]byte(`"nope"`), &page))
}

func ExampleResource() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, widget{ID: 1, Name: "Banner 2x1m"})
	}))
	defer srv.Close()

	c, _ := NewClient(Options{BaseURL: srv.URL}, nil)
	item, err := NewResource[widget](c, "products/").Get(context.Background(), 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(item.Name)
	// Output: Banner 2x1m
}
