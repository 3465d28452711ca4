package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"mass-sign-client/internal/domain"
)

// AppConfig implements the domain.Config interface. Values come from the
// environment (a .env file is loaded by main before this runs).
type AppConfig struct {
	ServiceURL     string        `envconfig:"SERVICE_URL" default:"http://127.0.0.1:5000"`
	GatewayPort    string        `envconfig:"GATEWAY_PORT" default:"8080"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	DebounceWindow time.Duration `envconfig:"DEBOUNCE_WINDOW" default:"500ms"`
	MaxFileSize    int64         `envconfig:"MAX_FILE_SIZE" default:"14680064"` // 14 MiB
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:4173,http://localhost:3000"`
}

// NewConfig creates a new configuration instance from the environment.
// Unset variables fall back to the struct defaults, so the error path only
// triggers on malformed values (bad durations, non-numeric sizes).
func NewConfig() (domain.Config, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetServiceURL returns the remote signing service base URL
func (c *AppConfig) GetServiceURL() string {
	return c.ServiceURL
}

// GetGatewayPort returns the local gateway listen port
func (c *AppConfig) GetGatewayPort() string {
	return c.GatewayPort
}

// GetPollInterval returns the progress polling period
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.PollInterval
}

// GetDebounceWindow returns the CUIL edit debounce window
func (c *AppConfig) GetDebounceWindow() time.Duration {
	return c.DebounceWindow
}

// GetMaxFileSize returns the maximum allowed upload size per file
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetAllowedOrigins returns the origins the gateway accepts
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}
