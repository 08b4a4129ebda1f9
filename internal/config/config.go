// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Firestore / Firebase
	FirebaseProjectID       string
	FirebaseCredentialsPath string
	FirebaseCredentialsJSON string

	// Storage driver: "firestore" or "memory" (local development)
	StoreDriver string

	// Cache
	RedisURL      string
	MatchCacheTTL time.Duration

	// Matching
	MatchTimezone    string
	MatchCapacity    int
	LookbackPrompts  int
	ProfileBatchSize int

	// Weekly generation scheduler
	SchedulerEnabled bool
	SchedulerWeekday time.Weekday
	SchedulerHour    int

	// Notifications
	PushEnabled bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Firestore / Firebase
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),

		// Storage
		StoreDriver: getEnv("STORE_DRIVER", "firestore"),

		// Cache
		RedisURL:      getEnv("REDIS_URL", ""),
		MatchCacheTTL: getEnvDuration("MATCH_CACHE_TTL", "5m"),

		// Matching
		MatchTimezone:    getEnv("MATCH_TIMEZONE", "America/New_York"),
		MatchCapacity:    getEnvInt("MATCH_CAPACITY", 3),
		LookbackPrompts:  getEnvInt("MATCH_LOOKBACK_PROMPTS", 20),
		ProfileBatchSize: getEnvInt("PROFILE_BATCH_SIZE", 10),

		// Scheduler (Monday 09:00 in MatchTimezone by default)
		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", false),
		SchedulerWeekday: time.Weekday(getEnvInt("SCHEDULER_WEEKDAY", int(time.Monday))),
		SchedulerHour:    getEnvInt("SCHEDULER_HOUR", 9),

		// Notifications
		PushEnabled: getEnvBool("PUSH_ENABLED", true),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "firestore":
		if c.FirebaseProjectID == "" && c.FirebaseCredentialsPath == "" && c.FirebaseCredentialsJSON == "" {
			return fmt.Errorf("firestore driver requires FIREBASE_PROJECT_ID or credentials")
		}
	case "memory":
		// no external requirements
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (expected firestore or memory)", c.StoreDriver)
	}

	if c.MatchCapacity < 1 {
		return fmt.Errorf("MATCH_CAPACITY must be at least 1, got %d", c.MatchCapacity)
	}
	if c.ProfileBatchSize < 1 {
		return fmt.Errorf("PROFILE_BATCH_SIZE must be at least 1, got %d", c.ProfileBatchSize)
	}
	if c.LookbackPrompts < 0 {
		return fmt.Errorf("MATCH_LOOKBACK_PROMPTS must not be negative, got %d", c.LookbackPrompts)
	}
	if c.SchedulerHour < 0 || c.SchedulerHour > 23 {
		return fmt.Errorf("SCHEDULER_HOUR must be between 0 and 23, got %d", c.SchedulerHour)
	}
	if _, err := time.LoadLocation(c.MatchTimezone); err != nil {
		return fmt.Errorf("invalid MATCH_TIMEZONE %q: %w", c.MatchTimezone, err)
	}

	return nil
}

// Location resolves the canonical matching timezone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MatchTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaultValue)
	return d
}
