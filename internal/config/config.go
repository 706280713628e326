package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // reference timezones must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("timezone", validateTimezone)
	_ = validate.RegisterValidation("cron", validateCron)
}

func validateTimezone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}

func validateCron(fl validator.FieldLevel) bool {
	spec := fl.Field().String()
	if spec == "" {
		return true // scheduling disabled
	}
	_, err := cron.ParseStandard(spec)
	return err == nil
}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Valuation ValuationConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `validate:"required"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `validate:"dive,required"`
}

// ValuationConfig holds the inputs of every calendar-day and currency decision.
type ValuationConfig struct {
	// Timezone names the reference location for "today". It never falls
	// back to the host's local zone.
	Timezone string         `validate:"required,timezone"`
	Location *time.Location `validate:"-"`
	// SeedRates are inserted into an empty rate table at startup.
	SeedRates map[string]decimal.Decimal `validate:"-"`
}

// SchedulerConfig configures background interest accrual.
type SchedulerConfig struct {
	// AccrualSchedule is a standard five-field cron expression; empty disables the job.
	AccrualSchedule string `validate:"cron"`
}

// DefaultSeedRates is the rate table used when no rates file is configured.
func DefaultSeedRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("4.0"),
		"EUR": decimal.RequireFromString("4.3"),
		"GBP": decimal.RequireFromString("5.0"),
	}
}

// Load reads configuration from environment variables and a .env file.
// An empty envFile loads ./.env when present; a named file must exist.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		// Try to load .env file (ignore error if it doesn't exist)
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5002"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/net_worth.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Valuation: ValuationConfig{
			Timezone: getEnv("TIMEZONE", "UTC"),
		},
		Scheduler: SchedulerConfig{
			AccrualSchedule: strings.TrimSpace(os.Getenv("ACCRUAL_SCHEDULE")),
		},
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(config.Valuation.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone location '%s': %w", config.Valuation.Timezone, err)
	}
	config.Valuation.Location = loc

	config.Valuation.SeedRates = DefaultSeedRates()
	if ratesFile := os.Getenv("RATES_FILE"); ratesFile != "" {
		rates, err := LoadRatesFile(ratesFile)
		if err != nil {
			return nil, err
		}
		config.Valuation.SeedRates = rates
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
