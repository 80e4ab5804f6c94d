// Package web renders the directory page: the resource grid, the submission
// form and the client script that applies votes optimistically.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/products"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*
var assets embed.FS

// cardTagLimit is how many tags a card shows before collapsing the rest
// into a "+N" badge.
const cardTagLimit = 3

// Lister supplies the products shown on the page.
type Lister interface {
	List(ctx context.Context, id auth.Identity) ([]products.ProductResponse, error)
}

// Handler serves the HTML front end.
type Handler struct {
	lister  Lister
	tmpl    *template.Template
	logger  *zap.Logger
	ssoName string
}

type pageData struct {
	Products []products.ProductResponse
	Failed   bool
	SSOName  string
}

var funcs = template.FuncMap{
	"visibleTags": func(tags []string) []string {
		if len(tags) > cardTagLimit {
			return tags[:cardTagLimit]
		}
		return tags
	},
	"hiddenTagCount": func(tags []string) int {
		if len(tags) > cardTagLimit {
			return len(tags) - cardTagLimit
		}
		return 0
	},
}

// NewHandler parses the embedded templates.
func NewHandler(lister Lister, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{lister: lister, tmpl: tmpl, logger: logger}, nil
}

// EnableSSO adds a "Sign in with <name>" link next to the password form.
func (h *Handler) EnableSSO(name string) {
	h.ssoName = name
}

// Index renders the directory. A listing failure still renders the page,
// with an error panel in place of the grid.
func (h *Handler) Index(c *gin.Context) {
	data := pageData{SSOName: h.ssoName}
	list, err := h.lister.List(c.Request.Context(), auth.GetIdentity(c))
	if err != nil {
		h.logger.Error("render directory failed", zap.Error(err))
		data.Failed = true
	} else {
		data.Products = list
	}

	c.Render(http.StatusOK, render.HTML{Template: h.tmpl, Name: "index.html", Data: data})
}

// RegisterRoutes mounts the page and its static assets.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	static, _ := fs.Sub(assets, "static")
	r.GET("/", h.Index)
	r.StaticFS("/static", http.FS(static))
}
