package inventory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestSheetsBackend_GetRange(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range":"Inventario!A1:C3","majorDimension":"ROWS","values":[["Nombre","Stock","Receta"],["Ibuprofeno",12,"no"],["Aspirina"]]}`)
	}))
	defer srv.Close()

	backend, err := NewSheetsBackend(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	rows, err := backend.GetRange(context.Background(), "sheet-1", "Inventario!A:C")
	require.NoError(t, err)
	assert.True(t, strings.Contains(path, "/spreadsheets/sheet-1/values/"), path)
	assert.Equal(t, [][]string{
		{"Nombre", "Stock", "Receta"},
		{"Ibuprofeno", "12", "no"},
		{"Aspirina"},
	}, rows)
}
