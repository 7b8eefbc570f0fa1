package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/services"
	"github.com/yungbote/mycoach-backend/internal/utils"
)

type Config struct {
	HTTPAddr string
	HTTPPort string

	APIToken       string
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	// Hex key for sealing provider credentials at rest.
	CredentialsKey string

	// Owner identity, used once to bootstrap the single user row.
	UserEmail string
	UserName  string

	// Bootstrap-only Garmin credentials. Sealed into the data source config
	// on first start, then served from the database.
	GarminEmail    string
	GarminPassword string

	RedisAddr     string
	ArchiveBucket string
	PlanCardFont  string

	Scheduler services.SchedulerConfig

	TracingEnabled bool

	Version string
}

// LoadConfig reads configuration from the environment, after seeding any
// unset variables from the optional CONFIG_FILE YAML overlay. Environment
// values always win over file values.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := applyConfigFile(log); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr: utils.GetEnv("HTTP_ADDR", "0.0.0.0", log),
		HTTPPort: utils.GetEnv("HTTP_PORT", "8080", log),

		APIToken:       os.Getenv("API_TOKEN"),
		JWTSecretKey:   os.Getenv("JWT_SECRET_KEY"),
		AccessTokenTTL: time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,

		CredentialsKey: os.Getenv("CREDENTIALS_KEY"),

		UserEmail: utils.GetEnv("USER_EMAIL", "owner@localhost", log),
		UserName:  utils.GetEnv("USER_NAME", "Owner", log),

		GarminEmail:    os.Getenv("GARMIN_EMAIL"),
		GarminPassword: os.Getenv("GARMIN_PASSWORD"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		ArchiveBucket: os.Getenv("ARCHIVE_BUCKET"),
		PlanCardFont:  os.Getenv("PLAN_CARD_FONT"),

		Scheduler: services.SchedulerConfig{
			Enabled:      utils.GetEnvAsBool("SCHEDULER_ENABLED", true, log),
			SyncHour:     utils.GetEnvAsInt("SCHEDULER_SYNC_HOUR", 6, log),
			BriefingHour: utils.GetEnvAsInt("SCHEDULER_BRIEFING_HOUR", 7, log),
			PlanDOW:      utils.GetEnvAsInt("SCHEDULER_PLAN_DAY_OF_WEEK", 6, log),
			PlanHour:     utils.GetEnvAsInt("SCHEDULER_PLAN_HOUR", 18, log),
		},

		TracingEnabled: utils.GetEnvAsBool("OTEL_ENABLED", false, log),

		Version: utils.GetEnv("VERSION", "dev", log),
	}

	if cfg.APIToken == "" {
		return Config{}, fmt.Errorf("API_TOKEN is required")
	}
	if cfg.JWTSecretKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if cfg.CredentialsKey == "" {
		return Config{}, fmt.Errorf("CREDENTIALS_KEY is required")
	}

	return cfg, nil
}

// applyConfigFile loads the CONFIG_FILE YAML mapping (lowercase keys matching
// the environment variable names) and exports each entry into the environment
// unless the variable is already set.
func applyConfigFile(log *logger.Logger) error {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var entries map[string]any
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	applied := 0
	for key, value := range entries {
		envKey := strings.ToUpper(strings.TrimSpace(key))
		if envKey == "" || value == nil {
			continue
		}
		if os.Getenv(envKey) != "" {
			continue
		}
		if err := os.Setenv(envKey, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("apply config file key %s: %w", envKey, err)
		}
		applied++
	}

	log.Info("Applied config file", "path", path, "keys", applied)
	return nil
}
