package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilterInvalid(t *testing.T) {
	_, err := CompileFilter(".[")
	require.Error(t, err)

	e := AsError(err)
	assert.Equal(t, CodeUsage, e.Code)
}

func TestFilterApply(t *testing.T) {
	type product struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	data := []product{{1, "Caneca", "39.90"}, {2, "Banner", "120.00"}}

	f, err := CompileFilter(`.[] | select(.id > 1) | .name`)
	require.NoError(t, err)
	assert.Equal(t, ".[] | select(.id > 1) | .name", f.String())

	got, err := f.Apply(data)
	require.NoError(t, err)
	assert.Equal(t, []any{"Banner"}, got)

	f, err = CompileFilter(`length`)
	require.NoError(t, err)
	got, err = f.Apply(json.RawMessage(`[{"id":1},{"id":2},{"id":3}]`))
	require.NoError(t, err)
	assert.Equal(t, []any{3}, got)
}

func TestFilterRuntimeError(t *testing.T) {
	f, err := CompileFilter(`.name | ascii_downcase`)
	require.NoError(t, err)

	_, err = f.Apply(map[string]any{"name": 5})
	require.Error(t, err)
	assert.Equal(t, CodeUsage, AsError(err).Code)
}

func TestWriterFilteredOutput(t *testing.T) {
	f, err := CompileFilter(`.[].name`)
	require.NoError(t, err)

	data := []map[string]any{{"id": 1, "name": "Caneca"}, {"id": 2, "name": "Banner"}}

	var buf bytes.Buffer
	w := New(Options{Format: FormatStyled, Writer: &buf, Filter: f})
	require.NoError(t, w.OK(data, WithSummary("2 products")))
	assert.Equal(t, "Caneca\nBanner\n", buf.String())

	buf.Reset()
	w = New(Options{Format: FormatJSON, Writer: &buf, Filter: f})
	require.NoError(t, w.OK(data))
	assert.Equal(t, "\"Caneca\"\n\"Banner\"\n", buf.String())
}

func TestWriterFilterSkipsErrors(t *testing.T) {
	f, err := CompileFilter(`.name`)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf, Filter: f})
	require.NoError(t, w.Err(ErrNotFound("product", "9")))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, CodeNotFound, resp.Code)
}
