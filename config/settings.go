package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	defaultTokenExpiry = 2 * time.Hour
	defaultBcryptCost  = 12
	defaultGithubAPI   = "https://api.github.com"
)

// Config is built once at startup and handed by pointer to every component that needs it.
type Config struct {
	Port            string
	AcceptedOrigins []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration

	LogLevel  string
	LogFormat string

	DatabaseURL        string
	DatabaseReplicaURL string
	AutoMigrate        bool

	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int

	Github  GithubConfig
	Storage StorageConfig
	Mail    MailConfig
}

type GithubConfig struct {
	Token    string
	Username string
	APIURL   string
}

type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// Enabled reports whether uploads can be stored at all.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

type MailConfig struct {
	ResendAPIKey string
	FromEmail    string
	NotifyEmail  string
}

func (m MailConfig) Enabled() bool {
	return m.ResendAPIKey != "" && m.FromEmail != "" && m.NotifyEmail != ""
}

// Load reads .env (when present), the process environment and, if SSM_PARAMETER_PREFIX
// is set, parameters stored under that path. The result is validated before returning.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using process environment")
	}

	env := New()
	if prefix := GetString(env, "SSM_PARAMETER_PREFIX", ""); prefix != "" {
		overrides, err := LoadSSMParameters(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("loading SSM parameters under %s: %w", prefix, err)
		}
		for key, value := range overrides {
			env[key] = value
		}
		log.Info().Int("count", len(overrides)).Str("prefix", prefix).Msg("applied SSM parameters")
	}

	cfg, err := FromMap(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromMap builds a Config from already collected key/value settings without validating it.
func FromMap(env map[string]string) (*Config, error) {
	expiry, err := ParseTokenExpiry(GetString(env, "JWT_EXPIRES_IN", ""))
	if err != nil {
		return nil, errs.NewConfigError("JWT_EXPIRES_IN", err)
	}

	origins := GetList(env, "ACCEPTED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:            GetString(env, "PORT", "8080"),
		AcceptedOrigins: origins,
		ReadTimeout:     time.Duration(GetInt(env, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout:    time.Duration(GetInt(env, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:     time.Duration(GetInt(env, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,

		LogLevel:  GetString(env, "LOG_LEVEL", "info"),
		LogFormat: GetString(env, "LOG_FORMAT", "console"),

		DatabaseURL:        GetString(env, "DATABASE_URL", ""),
		DatabaseReplicaURL: GetString(env, "DATABASE_REPLICA_URL", ""),
		AutoMigrate:        GetBool(env, "AUTO_MIGRATE", true),

		JWTSecret:   GetString(env, "JWT_SECRET", ""),
		TokenExpiry: expiry,
		BcryptCost:  GetInt(env, "BCRYPT_COST", defaultBcryptCost),

		Github: GithubConfig{
			Token:    GetString(env, "GITHUB_TOKEN", ""),
			Username: GetString(env, "GITHUB_USERNAME", ""),
			APIURL:   strings.TrimSuffix(GetString(env, "GITHUB_API_URL", defaultGithubAPI), "/"),
		},
		Storage: StorageConfig{
			Bucket:          GetString(env, "S3_BUCKET", ""),
			Region:          GetString(env, "S3_REGION", "us-east-1"),
			Endpoint:        GetString(env, "S3_ENDPOINT", ""),
			AccessKeyID:     GetString(env, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: GetString(env, "S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   strings.TrimSuffix(GetString(env, "S3_PUBLIC_BASE_URL", ""), "/"),
		},
		Mail: MailConfig{
			ResendAPIKey: GetString(env, "RESEND_API_KEY", ""),
			FromEmail:    GetString(env, "RESEND_FROM_EMAIL", ""),
			NotifyEmail:  GetString(env, "CONTACT_NOTIFY_EMAIL", ""),
		},
	}, nil
}

// Validate fails on settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errs.NewConfigError("DATABASE_URL is required", nil)
	}
	if c.JWTSecret == "" {
		return errs.NewConfigError("JWT_SECRET is required", nil)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errs.NewConfigError("BCRYPT_COST must be between 4 and 31", fmt.Errorf("got %d", c.BcryptCost))
	}
	return nil
}

// ParseTokenExpiry accepts Go durations ("2h", "90m"), whole days ("7d") or plain seconds ("3600").
// An empty value yields the two hour default.
func ParseTokenExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultTokenExpiry, nil
	}

	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("token expiry must be positive, got %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid token expiry %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid token expiry %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("token expiry must be positive, got %q", s)
	}
	return d, nil
}
