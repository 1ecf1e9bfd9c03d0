package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	AlertSinkPostgres = "postgres"
	AlertSinkLog      = "log"
)

type Config struct {
	HTTPPort string `mapstructure:"http_port"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	StorageDriver string `mapstructure:"storage_driver"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`

	JWTSecret string `mapstructure:"jwt_secret"`

	AlertQueueSize int    `mapstructure:"alert_queue_size"`
	AlertSink      string `mapstructure:"alert_sink"`

	OverdueSchedule string `mapstructure:"overdue_schedule"`

	WeekStartDay int    `mapstructure:"week_start_day"`
	Timezone     string `mapstructure:"timezone"`

	LogLevel string `mapstructure:"log_level"`
	AppEnv   string `mapstructure:"app_env"`

	PricingBaseCost float64 `mapstructure:"pricing_base_cost"`
}

var defaults = map[string]any{
	"http_port":         "8080",
	"db_host":           "localhost",
	"db_port":           "5432",
	"db_user":           "postgres",
	"db_password":       "",
	"db_name":           "parceltrack",
	"db_sslmode":        "disable",
	"storage_driver":    StoragePostgres,
	"redis_addr":        "",
	"stats_cache_ttl":   time.Minute,
	"jwt_secret":        "",
	"alert_queue_size":  256,
	"alert_sink":        AlertSinkPostgres,
	"overdue_schedule":  "@hourly",
	"week_start_day":    int(time.Sunday),
	"timezone":          "UTC",
	"log_level":         "info",
	"app_env":           "production",
	"pricing_base_cost": 150.0,
}

// LoadConfig reads envFile when it exists, then the process environment.
// Environment variables win over the file; unset keys take their defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errSecret, errStorage, errSink, errWeek, errZone, errQueue, errBase error

	if c.JWTSecret == "" {
		errSecret = errs.NewValueIsRequiredError("JWT_SECRET")
	}
	if c.StorageDriver != StoragePostgres && c.StorageDriver != StorageMemory {
		errStorage = errs.NewValueIsInvalidErrorWithCause("STORAGE_DRIVER",
			fmt.Errorf("%q is neither %s nor %s", c.StorageDriver, StoragePostgres, StorageMemory))
	}
	if c.AlertSink != AlertSinkPostgres && c.AlertSink != AlertSinkLog {
		errSink = errs.NewValueIsInvalidErrorWithCause("ALERT_SINK",
			fmt.Errorf("%q is neither %s nor %s", c.AlertSink, AlertSinkPostgres, AlertSinkLog))
	}
	if c.WeekStartDay < 0 || c.WeekStartDay > 6 {
		errWeek = errs.NewValueIsOutOfRangeError("WEEK_START_DAY", c.WeekStartDay, 0, 6)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errZone = errs.NewValueIsInvalidErrorWithCause("TIMEZONE", err)
	}
	if c.AlertQueueSize < 1 {
		errQueue = errs.NewValueIsOutOfRangeError("ALERT_QUEUE_SIZE", c.AlertQueueSize, 1, "+Inf")
	}
	if c.PricingBaseCost < 0 {
		errBase = errs.NewValueIsOutOfRangeError("PRICING_BASE_COST", c.PricingBaseCost, 0, "+Inf")
	} else if base := decimal.NewFromFloat(c.PricingBaseCost); !base.Round(delivery.MoneyPlaces).Equal(base) {
		errBase = errs.NewValueIsInvalidErrorWithCause("PRICING_BASE_COST",
			fmt.Errorf("%s has more than %d decimal places", base, delivery.MoneyPlaces))
	}

	return errors.Join(errSecret, errStorage, errSink, errWeek, errZone, errQueue, errBase)
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Location is the timezone of the reporting windows.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) WeekStart() time.Weekday {
	return time.Weekday(c.WeekStartDay)
}
