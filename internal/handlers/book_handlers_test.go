package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookEndpoints(t *testing.T) {
	router := newRouter(t)

	book := map[string]any{
		"title":        "test book",
		"isbn":         "9784774142232",
		"author_name":  "test author",
		"published_at": "2020-01-15",
	}
	w := do(router, http.MethodPost, "/api/v1.0/books", book)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Book test book saved successfully"}`, w.Body.String())

	w = do(router, http.MethodPost, "/api/v1.0/books", book)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(router, http.MethodGet, "/api/v1.0/books?offset=0&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var books struct {
		Books []map[string]any `json:"books"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books.Books, 1)
	assert.Equal(t, "test author", books.Books[0]["author_name"])
	assert.Equal(t, "2020-01-15", books.Books[0]["published_at"])

	w = do(router, http.MethodGet, "/api/v1.0/authors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"author_name":"test author"`)
}

func TestBookEndpointValidation(t *testing.T) {
	router := newRouter(t)

	w := do(router, http.MethodPost, "/api/v1.0/books", map[string]any{
		"title":        "test book",
		"isbn":         "97847741",
		"author_name":  "test author",
		"published_at": "2020-01-15",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1.0/books", map[string]any{
		"title":        "test book",
		"isbn":         "9784774142232",
		"author_name":  "test author",
		"published_at": "15/01/2020",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1.0/books?limit=101", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(router, http.MethodGet, "/api/v1.0/authors?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(router, http.MethodPost, "/api/v1.0/books/openbd", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
