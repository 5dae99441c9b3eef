/*
config.go - Runtime configuration

PURPOSE:
  Collects all runtime knobs from the environment under the STOCKBOT prefix
  and applies defaults. Flags in cmd/stockbot override the file-ish settings
  (database path, listen address) for local runs.

ENVIRONMENT:
  STOCKBOT_GATEWAY_URL       Chat gateway API base URL
  STOCKBOT_GATEWAY_TOKEN     API token for outbound calls
  STOCKBOT_WEBHOOK_SECRET    Shared secret checked on inbound webhooks
  STOCKBOT_ADMINS            Comma-separated administrator chat IDs
  STOCKBOT_DB_PATH           SQLite database path
  STOCKBOT_HTTP_ADDR         Webhook listen address
  STOCKBOT_PER_PAGE          Products per picker page
  STOCKBOT_SHUTDOWN_TIMEOUT  Graceful shutdown window

SEE ALSO:
  - cmd/stockbot/main.go: Startup wiring
*/
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting.
type Config struct {
	GatewayURL      string        `envconfig:"GATEWAY_URL" default:"https://api.telegram.org"`
	GatewayToken    string        `envconfig:"GATEWAY_TOKEN"`
	WebhookSecret   string        `envconfig:"WEBHOOK_SECRET"`
	Admins          []string      `envconfig:"ADMINS"`
	DBPath          string        `envconfig:"DB_PATH" default:"stockbot.db"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	PerPage         int           `envconfig:"PER_PAGE" default:"8"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Load reads the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("stockbot", &cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}
