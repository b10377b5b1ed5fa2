package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		Name    string
		Env     string
		BaseURL string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	SMS struct {
		ProviderURL string
		ProviderKey string
		FromNumber  string
		UseMock     bool
		// MockDeliveryDelay is how long the mock gateway waits before
		// flipping a queued message to delivered.
		MockDeliveryDelay time.Duration
	}

	Scheduler struct {
		DispatchInterval time.Duration
		PurgeInterval    time.Duration
		JobTimeout       time.Duration
		RetentionDays    int
	}

	Worker struct {
		MaxWorkers        int
		PerMessageTimeout time.Duration
	}

	Survey struct {
		// RequireSingleActiveCampaign rejects inbound replies when more than
		// one campaign is running, instead of silently picking one.
		RequireSingleActiveCampaign bool
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "wellbeing-survey")
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.BaseURL = getEnv("APP_BASE_URL", "http://localhost:8080")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "db")
	cfg.DB.Port = getInt("DB_PORT", 5432)
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "123456")
	cfg.DB.Name = getEnv("DB_NAME", "db_wellbeing_survey")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "redis:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// SMS provider
	cfg.SMS.ProviderURL = getEnv("SMS_PROVIDER_URL", "")
	cfg.SMS.ProviderKey = getEnv("SMS_PROVIDER_KEY", "")
	cfg.SMS.FromNumber = getEnv("SMS_FROM_NUMBER", "+1234567890")
	cfg.SMS.UseMock = isTruthy(getEnv("SMS_USE_MOCK", "false"))
	cfg.SMS.MockDeliveryDelay = getDuration("SMS_MOCK_DELIVERY_DELAY", 2*time.Second)

	// Scheduler. The dispatch tick defaults to daily and the purge tick to
	// weekly; the exact cadence is a deployment concern, not an engine one.
	cfg.Scheduler.DispatchInterval = getDuration("SCHEDULER_DISPATCH_INTERVAL", 24*time.Hour)
	cfg.Scheduler.PurgeInterval = getDuration("SCHEDULER_PURGE_INTERVAL", 7*24*time.Hour)
	cfg.Scheduler.JobTimeout = getDuration("SCHEDULER_JOB_TIMEOUT", 5*time.Minute)
	cfg.Scheduler.RetentionDays = getInt("SURVEY_RETENTION_DAYS", 90)

	// Batch workers
	cfg.Worker.MaxWorkers = getInt("DISPATCH_MAX_WORKERS", 4)
	cfg.Worker.PerMessageTimeout = getDuration("DISPATCH_PER_MESSAGE_TIMEOUT", 5*time.Second)

	// Survey semantics
	cfg.Survey.RequireSingleActiveCampaign = isTruthy(getEnv("SURVEY_REQUIRE_SINGLE_ACTIVE_CAMPAIGN", "true"))

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

// Retention returns the rolling window after which survey instances are purged.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Scheduler.RetentionDays) * 24 * time.Hour
}
