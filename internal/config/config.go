// Package config loads the service configuration from the environment. A .env
// file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr string `envconfig:"ADDR" default:"0.0.0.0:8080"`

	// Embedded: its variables are read without a prefix.
	Postgres

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	AdminTokenTTL  time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"15m"`
	VoterTokenTTL  time.Duration `envconfig:"VOTER_TOKEN_TTL" default:"5m"`
	VoterKeySecret string        `envconfig:"VOTER_KEY_SECRET" required:"true"`

	GoogleClientID string   `envconfig:"GOOGLE_CLIENT_ID"`
	AdminEmails    []string `envconfig:"ADMIN_EMAILS"`
	RedirectURL    string   `envconfig:"REDIRECT_URL" default:"/"`
	CookieDomain   string   `envconfig:"COOKIE_DOMAIN"`
	CookieSameSite string   `envconfig:"COOKIE_SAME_SITE" default:"lax"`

	FaceServiceURL string  `envconfig:"FACE_SERVICE_URL" default:"http://localhost:5000"`
	FaceThreshold  float64 `envconfig:"FACE_THRESHOLD" default:"0.5"`
	ImageDir       string  `envconfig:"IMAGE_DIR" default:"./data/faces"`

	RedisURL   string        `envconfig:"REDIS_URL"`
	ResultsTTL time.Duration `envconfig:"RESULTS_TTL" default:"1h"`

	CloserInterval time.Duration `envconfig:"CLOSER_INTERVAL" default:"1m"`
}

type Postgres struct {
	DB       string `envconfig:"POSTGRES_DB" default:"election"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Load reads .env, if any, and then the process environment. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, ok := sameSiteModes[strings.ToLower(c.CookieSameSite)]; !ok {
		return fmt.Errorf("invalid COOKIE_SAME_SITE %q", c.CookieSameSite)
	}
	if c.AdminTokenTTL <= 0 || c.VoterTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.CloserInterval <= 0 {
		return errors.New("CLOSER_INTERVAL must be positive")
	}
	return nil
}

var sameSiteModes = map[string]http.SameSite{
	"lax":    http.SameSiteLaxMode,
	"strict": http.SameSiteStrictMode,
	"none":   http.SameSiteNoneMode,
}

func (c *Config) SameSite() http.SameSite {
	return sameSiteModes[strings.ToLower(c.CookieSameSite)]
}

// LoadPostgres reads only the database settings, for tools that need nothing else.
func LoadPostgres() (*Postgres, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var p Postgres
	if err := envconfig.Process("", &p); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &p, nil
}
