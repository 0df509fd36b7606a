// Package config carga la configuración desde config.yaml (opcional) y
// variables de entorno usando Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Auth          AuthConfig          `mapstructure:"auth"`
	RateLimiter   RateLimiterConfig   `mapstructure:"rate_limiter"`
	Reminders     RemindersConfig     `mapstructure:"reminders"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	QR            QRConfig            `mapstructure:"qr"`
	Import        ImportConfig        `mapstructure:"import"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	BaseURL         string        `mapstructure:"base_url"` // para links compartibles y QR
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustProxy toma la IP de X-Forwarded-For / X-Real-IP. Sólo detrás de un proxy propio.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

type DatabaseConfig struct {
	DSN            string `mapstructure:"dsn"` // vacío = in-memory
	MaxOpenConns   int    `mapstructure:"max_open_conns"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	App    string `mapstructure:"app"`
}

type TokenConfig struct {
	Token  string `mapstructure:"token"`
	UserID string `mapstructure:"user_id"`
	Email  string `mapstructure:"email"`
	Role   string `mapstructure:"role"`
}

// RemoteAuthConfig apunta al servicio de identidad municipal. Tiene
// prioridad sobre los tokens estáticos.
type RemoteAuthConfig struct {
	URL          string        `mapstructure:"url"`
	APIKey       string        `mapstructure:"api_key"`
	APIKeyHeader string        `mapstructure:"api_key_header"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	Tokens []TokenConfig    `mapstructure:"tokens"`
	Remote RemoteAuthConfig `mapstructure:"remote"`
	// DevHeaders habilita X-Debug-User-ID / X-Debug-Role cuando no hay verifier (tokens o remoto).
	DevHeaders bool `mapstructure:"dev_headers"`
}

type RateLimiterConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type RuleConfig struct {
	Status string `mapstructure:"status"`
	Days   int    `mapstructure:"days"`
	Tier   string `mapstructure:"tier"`
}

type RemindersConfig struct {
	Rules []RuleConfig `mapstructure:"rules"` // vacío = reglas por defecto
}

type NotificationsConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type QRConfig struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Foreground string `mapstructure:"foreground"`
	Width      int    `mapstructure:"width"`
}

type ImportConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load lee la configuración. path vacío busca config.yaml en . y ./config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Nombres de env cortos (PORT, DB_DSN, ...) que ya usan los despliegues.
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.base_url", "APP_SERVER_BASE_URL", "BASE_URL")
	_ = v.BindEnv("database.dsn", "APP_DATABASE_DSN", "DB_DSN")
	_ = v.BindEnv("logging.level", "APP_LOGGING_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "APP_LOGGING_FORMAT", "LOG_FORMAT")
	_ = v.BindEnv("logging.app", "APP_LOGGING_APP", "APP_NAME")
	_ = v.BindEnv("auth.remote.url", "APP_AUTH_REMOTE_URL", "AUTH_URL")
	_ = v.BindEnv("auth.remote.api_key", "APP_AUTH_REMOTE_API_KEY", "AUTH_API_KEY")

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.migrate_on_start", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.app", "pet-adoption")

	v.SetDefault("auth.dev_headers", true)
	v.SetDefault("auth.remote.timeout", "5s")

	v.SetDefault("rate_limiter.enabled", true)
	v.SetDefault("rate_limiter.rps", 0.2)
	v.SetDefault("rate_limiter.burst", 5)

	v.SetDefault("notifications.webhook_url", "")
	v.SetDefault("notifications.timeout", "5s")

	v.SetDefault("qr.primary", "#0F766E")
	v.SetDefault("qr.secondary", "#F59E0B")
	v.SetDefault("qr.foreground", "#111827")
	v.SetDefault("qr.width", 600)

	v.SetDefault("import.max_bytes", 5<<20)
}

var (
	validStatuses = map[string]struct{}{
		"pendiente": {}, "en_revision": {}, "entrevista": {}, "aprobada": {},
	}
	validTiers = map[string]struct{}{"urgente": {}, "normal": {}}
	validRoles = map[string]struct{}{"admin": {}, "operador": {}}
)

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return errors.New("server.base_url must be an absolute http(s) url")
	}

	if c.IsProduction() {
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required in production")
		}
		if c.Auth.DevHeaders {
			return errors.New("auth.dev_headers must be false in production")
		}
	}

	for i, t := range c.Auth.Tokens {
		if strings.TrimSpace(t.Token) == "" || strings.TrimSpace(t.UserID) == "" {
			return fmt.Errorf("auth.tokens[%d]: token and user_id are required", i)
		}
		if _, ok := validRoles[t.Role]; !ok {
			return fmt.Errorf("auth.tokens[%d]: unknown role %q", i, t.Role)
		}
	}

	if u := strings.TrimSpace(c.Auth.Remote.URL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return errors.New("auth.remote.url must be an absolute http(s) url")
	}

	if c.RateLimiter.Enabled && (c.RateLimiter.RPS <= 0 || c.RateLimiter.Burst <= 0) {
		return errors.New("rate_limiter.rps and rate_limiter.burst must be positive when enabled")
	}

	seen := map[string]struct{}{}
	for i, r := range c.Reminders.Rules {
		if _, ok := validStatuses[r.Status]; !ok {
			return fmt.Errorf("reminders.rules[%d]: status %q has no reminder", i, r.Status)
		}
		if _, dup := seen[r.Status]; dup {
			return fmt.Errorf("reminders.rules[%d]: duplicated status %q", i, r.Status)
		}
		seen[r.Status] = struct{}{}
		if r.Days < 0 {
			return fmt.Errorf("reminders.rules[%d]: days must be >= 0", i)
		}
		if _, ok := validTiers[r.Tier]; !ok {
			return fmt.Errorf("reminders.rules[%d]: tier must be urgente or normal", i)
		}
	}

	for name, col := range map[string]string{
		"qr.primary": c.QR.Primary, "qr.secondary": c.QR.Secondary, "qr.foreground": c.QR.Foreground,
	} {
		if !isHexColor(col) {
			return fmt.Errorf("%s must be a #RRGGBB color", name)
		}
	}

	if c.Import.MaxBytes <= 0 {
		return errors.New("import.max_bytes must be positive")
	}
	return nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 3 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
