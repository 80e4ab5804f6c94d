// Package config loads server configuration from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const devJWTSecret = "vibehunt-dev-secret-change-in-production"

// Config is the fully resolved server configuration.
type Config struct {
	Port              string
	DBDriver          string
	DBDSN             string
	JWTSecret         string
	PerplexityAPIKey  string
	PerplexityBaseURL string
	PerplexityModel   string
	EnrichmentTimeout time.Duration
	LogLevel          string
	LogFormat         string
	AdminEmail        string
	AdminPassword     string
	WebDistPath       string

	// Optional single sign-on; disabled while OIDCIssuer is empty.
	OIDCName          string
	OIDCIssuer        string
	OIDCClientID      string
	OIDCClientSecret  string
	OIDCRedirectURL   string
	OIDCScopes        []string
	OIDCAutoProvision bool
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"port":                "PORT",
	"db.driver":           "VIBEHUNT_DB_DRIVER",
	"db.dsn":              "VIBEHUNT_DB_DSN",
	"jwt.secret":          "JWT_SECRET",
	"perplexity.api_key":  "PERPLEXITY_API_KEY",
	"perplexity.base_url": "PERPLEXITY_BASE_URL",
	"perplexity.model":    "PERPLEXITY_MODEL",
	"enrichment.timeout":  "VIBEHUNT_ENRICHMENT_TIMEOUT",
	"log.level":           "VIBEHUNT_LOG_LEVEL",
	"log.format":          "VIBEHUNT_LOG_FORMAT",
	"admin.email":         "VIBEHUNT_ADMIN_EMAIL",
	"admin.password":      "VIBEHUNT_ADMIN_PASSWORD",
	"web.dist":            "VIBEHUNT_WEB_DIST",
	"oidc.name":           "VIBEHUNT_OIDC_NAME",
	"oidc.issuer":         "VIBEHUNT_OIDC_ISSUER",
	"oidc.client_id":      "VIBEHUNT_OIDC_CLIENT_ID",
	"oidc.client_secret":  "VIBEHUNT_OIDC_CLIENT_SECRET",
	"oidc.redirect_url":   "VIBEHUNT_OIDC_REDIRECT_URL",
	"oidc.scopes":         "VIBEHUNT_OIDC_SCOPES",
	"oidc.auto_provision": "VIBEHUNT_OIDC_AUTO_PROVISION",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "vibehunt.db")
	v.SetDefault("jwt.secret", devJWTSecret)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	// Matches the hosting platform's maximum duration for the enrichment path.
	v.SetDefault("enrichment.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("admin.email", "admin@vibehunt.local")
	v.SetDefault("admin.password", "changeme")
	v.SetDefault("web.dist", "./web/dist")
	v.SetDefault("oidc.name", "SSO")
	v.SetDefault("oidc.redirect_url", "http://localhost:8080/api/auth/oidc/callback")
	v.SetDefault("oidc.scopes", []string{"openid", "profile", "email"})
	v.SetDefault("oidc.auto_provision", true)
}

// Load resolves configuration. Environment variables override values from
// configFile, which in turn override defaults. configFile may be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("port"),
		DBDriver:          v.GetString("db.driver"),
		DBDSN:             v.GetString("db.dsn"),
		JWTSecret:         v.GetString("jwt.secret"),
		PerplexityAPIKey:  v.GetString("perplexity.api_key"),
		PerplexityBaseURL: v.GetString("perplexity.base_url"),
		PerplexityModel:   v.GetString("perplexity.model"),
		EnrichmentTimeout: v.GetDuration("enrichment.timeout"),
		LogLevel:          v.GetString("log.level"),
		LogFormat:         v.GetString("log.format"),
		AdminEmail:        v.GetString("admin.email"),
		AdminPassword:     v.GetString("admin.password"),
		WebDistPath:       v.GetString("web.dist"),
		OIDCName:          v.GetString("oidc.name"),
		OIDCIssuer:        v.GetString("oidc.issuer"),
		OIDCClientID:      v.GetString("oidc.client_id"),
		OIDCClientSecret:  v.GetString("oidc.client_secret"),
		OIDCRedirectURL:   v.GetString("oidc.redirect_url"),
		OIDCScopes:        v.GetStringSlice("oidc.scopes"),
		OIDCAutoProvision: v.GetBool("oidc.auto_provision"),
	}

	if cfg.EnrichmentTimeout <= 0 {
		return nil, fmt.Errorf("enrichment.timeout must be positive, got %s", cfg.EnrichmentTimeout)
	}
	if cfg.OIDCIssuer != "" && cfg.OIDCClientID == "" {
		return nil, fmt.Errorf("oidc.client_id is required when oidc.issuer is set")
	}
	return cfg, nil
}

// UsingDevSecret reports whether the JWT secret was left at its development default.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}
