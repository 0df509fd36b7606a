package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Empty(t, cfg.Database.DSN)
	assert.True(t, cfg.Auth.DevHeaders)
	assert.Equal(t, 600, cfg.QR.Width)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestLoad_FileAndLegacyEnv(t *testing.T) {
	p := writeConfig(t, `
server:
  base_url: https://adopciones.example.org
auth:
  tokens:
    - token: s3cret
      user_id: admin-1
      role: admin
reminders:
  rules:
    - status: pendiente
      days: 1
      tier: urgente
`)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "https://adopciones.example.org", cfg.Server.BaseURL)
	require.Len(t, cfg.Auth.Tokens, 1)
	assert.Equal(t, "admin-1", cfg.Auth.Tokens[0].UserID)
	require.Len(t, cfg.Reminders.Rules, 1)
	assert.Equal(t, 1, cfg.Reminders.Rules[0].Days)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Environment: "development",
			Server:      ServerConfig{Port: "8080", BaseURL: "http://localhost:8080"},
			QR:          QRConfig{Primary: "#0F766E", Secondary: "#F59E0B", Foreground: "#111"},
			Import:      ImportConfig{MaxBytes: 1024},
		}
	}

	ok := base()
	require.NoError(t, ok.Validate())

	cases := map[string]func(*Config){
		"relative base url": func(c *Config) { c.Server.BaseURL = "/x" },
		"prod without dsn":  func(c *Config) { c.Environment = "production" },
		"prod dev headers": func(c *Config) {
			c.Environment = "production"
			c.Database.DSN = "postgres://x"
			c.Auth.DevHeaders = true
		},
		"bad rule status": func(c *Config) {
			c.Reminders.Rules = []RuleConfig{{Status: "completada", Days: 1, Tier: "normal"}}
		},
		"bad rule tier": func(c *Config) {
			c.Reminders.Rules = []RuleConfig{{Status: "pendiente", Days: 1, Tier: "alta"}}
		},
		"dup rule": func(c *Config) {
			r := RuleConfig{Status: "pendiente", Days: 1, Tier: "normal"}
			c.Reminders.Rules = []RuleConfig{r, r}
		},
		"bad color":       func(c *Config) { c.QR.Primary = "verde" },
		"bad token role":  func(c *Config) { c.Auth.Tokens = []TokenConfig{{Token: "t", UserID: "u", Role: "root"}} },
		"rate limiter":    func(c *Config) { c.RateLimiter = RateLimiterConfig{Enabled: true} },
		"remote auth url": func(c *Config) { c.Auth.Remote.URL = "id.muni.gob/verify" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
