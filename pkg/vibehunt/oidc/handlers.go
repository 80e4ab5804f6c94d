// Package oidc signs members in through an external OpenID Connect identity
// provider and hands them the same session token a password login issues.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	stateCookie      = "vibehunt_oidc_state"
	stateTTL         = 10 * time.Minute
	discoveryTimeout = 10 * time.Second
)

var (
	// ErrProvisioningDisabled is returned when an unknown member signs in
	// and automatic account creation is off.
	ErrProvisioningDisabled = errors.New("oidc: no account for this identity")
	// ErrEmailUnverified is returned when linking to an existing account
	// would rely on an address the provider has not verified.
	ErrEmailUnverified = errors.New("oidc: email not verified by provider")
)

// Config describes the single identity provider the directory trusts.
type Config struct {
	Name          string
	Issuer        string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	Scopes        []string
	AutoProvision bool
}

// Handler handles OIDC-related requests
type Handler struct {
	db            *gorm.DB
	logger        *zap.Logger
	name          string
	issuer        string
	autoProvision bool
	secureCookie  bool
	config        oauth2.Config
	verifier      *oidc.IDTokenVerifier
}

// StateData travels through the provider in the state parameter.
type StateData struct {
	ReturnURL string `json:"return_url"`
	Nonce     string `json:"nonce"`
}

// NewHandler discovers the provider's endpoints and keys.
func NewHandler(ctx context.Context, db *gorm.DB, cfg Config, logger *zap.Logger) (*Handler, error) {
	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	name := cfg.Name
	if name == "" {
		name = "SSO"
	}

	return &Handler{
		db:            db,
		logger:        logger,
		name:          name,
		issuer:        cfg.Issuer,
		autoProvision: cfg.AutoProvision,
		secureCookie:  strings.HasPrefix(cfg.RedirectURL, "https://"),
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Name is the provider label shown on the sign-in button.
func (h *Handler) Name() string {
	return h.name
}

// ProviderResponse describes the configured provider to clients
type ProviderResponse struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Provider reports the configured provider (public endpoint)
// @Summary Single sign-on provider
// @Tags auth
// @Produce json
// @Success 200 {object} ProviderResponse
// @Router /auth/oidc [get]
func (h *Handler) Provider(c *gin.Context) {
	c.JSON(http.StatusOK, ProviderResponse{Name: h.name, Enabled: true})
}

// AuthURLRequest represents a request for an auth URL
type AuthURLRequest struct {
	ReturnURL string `json:"return_url"`
}

// GetAuthURL returns the provider's authorization URL for API clients
// @Summary Start single sign-on
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AuthURLRequest false "Where to send the browser afterwards"
// @Success 200 {object} map[string]string "auth_url"
// @Router /auth/oidc/auth [post]
func (h *Handler) GetAuthURL(c *gin.Context) {
	var req AuthURLRequest
	_ = c.ShouldBindJSON(&req)

	authURL, err := h.startAuth(c, req.ReturnURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign-in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// Login redirects the browser straight to the provider
// @Summary Start single sign-on (browser)
// @Tags auth
// @Param return_url query string false "Local path to return to"
// @Success 302
// @Router /auth/oidc/login [get]
func (h *Handler) Login(c *gin.Context) {
	authURL, err := h.startAuth(c, c.Query("return_url"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sign-in"})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// startAuth builds the state, pins it to the browser with a cookie and
// returns the provider URL.
func (h *Handler) startAuth(c *gin.Context, returnURL string) (string, error) {
	nonce, err := randomString(32)
	if err != nil {
		return "", err
	}
	stateJSON, err := json.Marshal(StateData{ReturnURL: localPath(returnURL), Nonce: nonce})
	if err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(stateJSON)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int(stateTTL.Seconds()), "/", "", h.secureCookie, true)
	return h.config.AuthCodeURL(state, oidc.Nonce(nonce)), nil
}

// Callback handles the provider's redirect back to the directory
// @Summary Single sign-on callback
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State issued at sign-in"
// @Success 200 {object} auth.AuthResponse
// @Success 302 "Redirect to return_url with the token in the fragment"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/oidc/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		desc := c.Query("error_description")
		if desc == "" {
			desc = e
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authentication failed: " + desc})
		return
	}

	state := c.Query("state")
	pinned, err := c.Cookie(stateCookie)
	if err != nil || state == "" || pinned != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.secureCookie, true)

	var stateData StateData
	stateJSON, err := base64.RawURLEncoding.DecodeString(state)
	if err == nil {
		err = json.Unmarshal(stateJSON, &stateData)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code is required"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := h.config.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn("oidc code exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange token"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": "No ID token in response"})
		return
	}

	idToken, err := h.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		h.logger.Warn("oidc id token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify ID token"})
		return
	}
	if idToken.Nonce != stateData.Nonce {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nonce"})
		return
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to parse claims"})
		return
	}
	if claims.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not provided by identity provider"})
		return
	}

	user, err := h.findOrCreateUser(ctx, idToken.Subject, claims)
	switch {
	case errors.Is(err, ErrProvisioningDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "No account exists for this email"})
		return
	case errors.Is(err, ErrEmailUnverified):
		c.JSON(http.StatusForbidden, gin.H{"error": "Email must be verified by the identity provider"})
		return
	case err != nil:
		h.logger.Error("oidc user lookup failed", zap.String("subject", idToken.Subject), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process user"})
		return
	}

	resp, err := auth.NewAuthResponse(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	h.logger.Info("oidc sign-in", zap.Uint("user_id", user.ID))

	if stateData.ReturnURL != "" {
		// Token rides in the fragment, never the query string.
		c.Redirect(http.StatusFound, stateData.ReturnURL+"#token="+resp.Token)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Claims are the ID token claims the directory reads.
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// DisplayName picks the best available name, falling back to the mailbox.
func (c Claims) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.GivenName + " " + c.FamilyName); name != "" {
		return name
	}
	return strings.Split(c.Email, "@")[0]
}

// findOrCreateUser resolves the member behind an ID token: by an existing
// identity link, then by verified email, then by provisioning a new account.
func (h *Handler) findOrCreateUser(ctx context.Context, subject string, claims Claims) (*models.User, error) {
	db := h.db.WithContext(ctx)

	var identity models.OIDCIdentity
	err := db.Where("issuer = ? AND subject = ?", h.issuer, subject).First(&identity).Error
	if err == nil {
		var user models.User
		if err := db.First(&user, identity.UserID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := auth.NormalizeEmail(claims.Email)
	link := models.OIDCIdentity{Issuer: h.issuer, Subject: subject, Email: email}

	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if !claims.EmailVerified {
			return nil, ErrEmailUnverified
		}
		link.UserID = user.ID
		if err := db.Create(&link).Error; err != nil {
			return nil, err
		}
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if !h.autoProvision {
		return nil, ErrProvisioningDisabled
	}

	user = models.User{
		Email:      email,
		Name:       claims.DisplayName(),
		SystemRole: models.SystemRoleUser,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		link.UserID = user.ID
		return tx.Create(&link).Error
	})
	if err != nil {
		return nil, err
	}
	h.logger.Info("oidc user provisioned", zap.Uint("user_id", user.ID))
	return &user, nil
}

// RegisterRoutes registers OIDC routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Provider)
	rg.POST("/auth", h.GetAuthURL)
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
}

// localPath keeps only same-site paths so the callback cannot be used as an
// open redirect.
func localPath(returnURL string) string {
	if !strings.HasPrefix(returnURL, "/") || strings.HasPrefix(returnURL, "//") || strings.HasPrefix(returnURL, "/\\") {
		return ""
	}
	if i := strings.IndexByte(returnURL, '#'); i >= 0 {
		returnURL = returnURL[:i]
	}
	return returnURL
}

func randomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
