package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/tarobot.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DailyQuota caps regular readings per user per UTC day.
	DailyQuota int `envconfig:"DAILY_QUOTA" default:"5"`
	// Daylight window [from, to) in UTC hours gating spontaneous offers.
	DaylightFromH int `envconfig:"DAYLIGHT_START_HOUR" default:"8"`
	DaylightToH   int `envconfig:"DAYLIGHT_END_HOUR" default:"20"`

	// EphemeralTTL is how long service messages live before the
	// janitor removes them.
	EphemeralTTL time.Duration `envconfig:"EPHEMERAL_TTL" default:"20s"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.DailyQuota < 1 {
		return cfg, fmt.Errorf("DAILY_QUOTA must be positive, got %d", cfg.DailyQuota)
	}
	if cfg.DaylightFromH < 0 || cfg.DaylightToH > 24 || cfg.DaylightFromH > cfg.DaylightToH {
		return cfg, fmt.Errorf("daylight window [%d, %d) is not a valid UTC hour range",
			cfg.DaylightFromH, cfg.DaylightToH)
	}
	return cfg, nil
}
