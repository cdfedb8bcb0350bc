package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Upstream UpstreamConfig
	Redis    RedisConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Chart    ChartConfig
	Sync     SyncConfig
}

// UpstreamConfig holds settings for the external affiliate backend
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration

	// Service account used for the legacy /Affiliate/* network endpoints.
	// Optional; when empty those calls carry the user credential instead.
	ServiceUsername string
	ServicePassword string
}

// RedisConfig holds the credential-slot store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds browser session settings
type SessionConfig struct {
	TTL time.Duration
}

// CookieConfig holds session cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// ChartConfig holds performance-chart behavior switches
type ChartConfig struct {
	// CompatFixedWindow pins the chart to 7 points regardless of the
	// selected range, matching the legacy panel output.
	CompatFixedWindow bool
}

// SyncConfig holds the scheduled partner-network campaign sync settings
type SyncConfig struct {
	Enabled  bool
	Schedule string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Upstream: loadUpstreamConfig(appMode),
		Redis:    loadRedisConfig(appMode),
		Session:  loadSessionConfig(),
		Cookie:   loadCookieConfig(appMode),
		Chart:    loadChartConfig(),
		Sync:     loadSyncConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadUpstreamConfig loads external backend config based on mode
func loadUpstreamConfig(mode string) UpstreamConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "30"))
	if timeoutSecs <= 0 {
		timeoutSecs = 30
	}

	return UpstreamConfig{
		BaseURL:         strings.TrimRight(getEnv(prefix+"UPSTREAM_BASE_URL", "http://localhost:8000"), "/"),
		Timeout:         time.Duration(timeoutSecs) * time.Second,
		ServiceUsername: getEnv(prefix+"MLINK_USERNAME", ""),
		ServicePassword: getEnv(prefix+"MLINK_PASSWORD", ""),
	}
}

// loadRedisConfig loads credential store config based on mode
func loadRedisConfig(mode string) RedisConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	db, _ := strconv.Atoi(getEnv(prefix+"REDIS_DB", "0"))

	return RedisConfig{
		Addr:     getEnv(prefix+"REDIS_ADDR", ""),
		Password: getEnv(prefix+"REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// loadSessionConfig loads session settings
func loadSessionConfig() SessionConfig {
	ttlHours, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "12"))
	if ttlHours <= 0 {
		ttlHours = 12
	}
	return SessionConfig{TTL: time.Duration(ttlHours) * time.Hour}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadChartConfig loads chart behavior switches
func loadChartConfig() ChartConfig {
	compat, _ := strconv.ParseBool(getEnv("CHART_COMPAT_FIXED_WINDOW", "false"))
	return ChartConfig{CompatFixedWindow: compat}
}

// loadSyncConfig loads the scheduled network sync settings
func loadSyncConfig() SyncConfig {
	enabled, _ := strconv.ParseBool(getEnv("NETWORK_SYNC_ENABLED", "false"))
	return SyncConfig{
		Enabled:  enabled,
		Schedule: getEnv("NETWORK_SYNC_SCHEDULE", "30 3 * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origin
		return "https://panel.qubeagency.com.tr"
	}
	return origins
}
