package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultJWTSecret is only accepted outside production.
	DefaultJWTSecret   = "your-secret-key-change-in-production"
	defaultFrontendURL = "http://localhost:3000"
)

type Config struct {
	PostgresURI    string
	RedisURI       string
	MongoURI       string
	JWTSecret      string
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Host           string   // Raw HOST env (e.g. https://api.studio.dev)
	Environment    string   // ENV: production, development, etc.

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Outbound email. Without a SendGrid key messages are printed to the log.
	SendGridAPIKey   string
	EmailFrom        string
	EmailFromName    string
	AdminNotifyEmail string

	GitHubToken    string
	GitHubCacheTTL time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "http://localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_URI", "postgres://localhost:5432/studio?sslmode=disable")
	v.SetDefault("REDIS_URI", "redis://localhost:6379/0")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017/studio")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("FRONTEND_URL", defaultFrontendURL)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "hello@localhost")
	v.SetDefault("EMAIL_FROM_NAME", "Studio")
	v.SetDefault("ADMIN_NOTIFY_EMAIL", "")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_CACHE_TTL", 5*time.Minute)
}

// Load reads configuration from the environment (after godotenv has run).
func Load() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	ttl := v.GetDuration("GITHUB_CACHE_TTL")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Config{
		PostgresURI:         v.GetString("POSTGRES_URI"),
		RedisURI:            v.GetString("REDIS_URI"),
		MongoURI:            v.GetString("MONGODB_URI"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		Host:                v.GetString("HOST"),
		Environment:         strings.ToLower(strings.TrimSpace(v.GetString("ENV"))),
		Port:                v.GetString("PORT"),
		FrontendURL:         v.GetString("FRONTEND_URL"),
		AllowedOrigins:      corsOrigins(v.GetString("ALLOWED_ORIGINS"), v.GetString("FRONTEND_URL"), v.GetString("HOST")),
		CloudinaryName:      v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
		SendGridAPIKey:      v.GetString("SENDGRID_API_KEY"),
		EmailFrom:           v.GetString("EMAIL_FROM"),
		EmailFromName:       v.GetString("EMAIL_FROM_NAME"),
		AdminNotifyEmail:    v.GetString("ADMIN_NOTIFY_EMAIL"),
		GitHubToken:         v.GetString("GITHUB_TOKEN"),
		GitHubCacheTTL:      ttl,
	}
}

// corsOrigins builds the CORS allow list. ALLOWED_ORIGINS wins over
// FRONTEND_URL. When HOST is an API subdomain such as api.studio.dev the apex
// and www origins of its parent domain are added as well.
func corsOrigins(allowed, frontend, host string) []string {
	var origins []string
	seen := map[string]bool{}
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[strings.ToLower(o)] {
			return
		}
		seen[strings.ToLower(o)] = true
		origins = append(origins, o)
	}

	for _, o := range strings.Split(allowed, ",") {
		add(o)
	}
	if len(origins) == 0 {
		add(frontend)
	}
	if labels := strings.Split(hostOnly(host), "."); len(labels) >= 3 {
		parent := strings.Join(labels[1:], ".")
		add("https://" + parent)
		add("https://www." + parent)
	}
	if len(origins) == 0 {
		add(defaultFrontendURL)
	}
	return origins
}

// hostOnly returns the bare hostname of a HOST value, with or without scheme.
func hostOnly(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// EmailEnabled reports whether outbound email goes through SendGrid.
func (c *Config) EmailEnabled() bool {
	return c.SendGridAPIKey != ""
}

// Validate rejects settings that are only acceptable during development.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}
