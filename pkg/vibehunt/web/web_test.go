package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/products"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeLister struct {
	products []products.ProductResponse
	err      error
}

func (f fakeLister) List(context.Context, auth.Identity) ([]products.ProductResponse, error) {
	return f.products, f.err
}

func setupTestRouter(t *testing.T, lister Lister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h, err := NewHandler(lister, zaptest.NewLogger(t))
	require.NoError(t, err)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestIndexRendersCards(t *testing.T) {
	router := setupTestRouter(t, fakeLister{products: []products.ProductResponse{
		{
			ID:               "p1",
			URL:              "https://www.example.com",
			Title:            "Example <b>",
			ShortDescription: "A sample site.",
			Tags:             []string{"AI", "Design", "CLI", "Testing", "Docs"},
			UpvoteCount:      4,
			HasUpvoted:       true,
		},
		{ID: "p2", URL: "https://www.example.org", Title: "Other", Tags: []string{}},
	}})

	resp := get(router, "/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")

	body := resp.Body.String()
	assert.Contains(t, body, `data-product-id="p1"`)
	assert.Contains(t, body, "Example &lt;b&gt;", "titles are escaped")
	assert.Contains(t, body, `<span class="tag">CLI</span>`)
	assert.NotContains(t, body, `<span class="tag">Testing</span>`)
	assert.Contains(t, body, `<span class="tag">+2</span>`)
	assert.Contains(t, body, `<span class="count">4</span>`)
	assert.Contains(t, body, `class="upvote active"`)
	assert.Contains(t, body, `aria-label="Remove upvote"`)
	assert.Equal(t, 2, strings.Count(body, `<article class="card"`))
}

func TestIndexEmpty(t *testing.T) {
	router := setupTestRouter(t, fakeLister{})

	resp := get(router, "/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "No products found")
	assert.Contains(t, resp.Body.String(), `id="add-product"`)
}

func TestIndexListFailure(t *testing.T) {
	router := setupTestRouter(t, fakeLister{err: errors.New("db down")})

	resp := get(router, "/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Error loading products")
}

func TestStaticAssets(t *testing.T) {
	router := setupTestRouter(t, fakeLister{})

	resp := get(router, "/static/app.js")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "/api/products/")

	resp = get(router, "/static/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestIndexSSOLink(t *testing.T) {
	router := setupTestRouter(t, fakeLister{})
	assert.NotContains(t, get(router, "/").Body.String(), `id="sso-login"`)

	gin.SetMode(gin.TestMode)
	h, err := NewHandler(fakeLister{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	h.EnableSSO("Example ID")
	r := gin.New()
	h.RegisterRoutes(r)

	body := get(r, "/").Body.String()
	assert.Contains(t, body, `id="sso-login"`)
	assert.Contains(t, body, "Sign in with Example ID")
	assert.Contains(t, body, "/api/auth/oidc/login")
}
