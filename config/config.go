package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Worker configuration.
	WorkerConcurrency int `mapstructure:"WORKER_CONCURRENCY"`

	// Cron expressions for the scheduled job producers.
	CronLegStartReminders string `mapstructure:"CRON_LEG_START_REMINDERS"`
	CronLegEndReminders   string `mapstructure:"CRON_LEG_END_REMINDERS"`
	CronStatusActivation  string `mapstructure:"CRON_STATUS_ACTIVATION"`
	CronStatusCompletion  string `mapstructure:"CRON_STATUS_COMPLETION"`
	CronPendingPayouts    string `mapstructure:"CRON_PENDING_PAYOUTS"`
	CronPendingDeliveries string `mapstructure:"CRON_PENDING_DELIVERIES"`

	ReminderWindowMinutes  int `mapstructure:"REMINDER_WINDOW_MINUTES"`
	DirectoryCacheTTLHours int `mapstructure:"DIRECTORY_CACHE_TTL_HOURS"`

	// Outbound sender configuration.
	EmailAPIURL    string `mapstructure:"EMAIL_API_URL"`
	EmailAPIKey    string `mapstructure:"EMAIL_API_KEY"`
	EmailFromName  string `mapstructure:"EMAIL_FROM_NAME"`
	EmailFromAddr  string `mapstructure:"EMAIL_FROM_ADDR"`
	SMSAPIURL      string `mapstructure:"SMS_API_URL"`
	SMSAPIKey      string `mapstructure:"SMS_API_KEY"`
	SMSRatePerMin  int    `mapstructure:"SMS_RATE_PER_MIN"`
	StripeKey      string `mapstructure:"STRIPE_KEY"`
	PayoutCurrency string `mapstructure:"PAYOUT_CURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_QUEUE_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("WORKER_CONCURRENCY", 10)

	// Lifecycle transitions and reminders are polled hourly, so a booking may
	// sit in its prior status for up to one scan interval after the real-world
	// trigger time. The lag is a design parameter, not a bug.
	viper.SetDefault("CRON_LEG_START_REMINDERS", "0 * * * *")
	viper.SetDefault("CRON_LEG_END_REMINDERS", "0 * * * *")
	viper.SetDefault("CRON_STATUS_ACTIVATION", "5 * * * *")
	viper.SetDefault("CRON_STATUS_COMPLETION", "10 * * * *")
	viper.SetDefault("CRON_PENDING_PAYOUTS", "15 */2 * * *")
	viper.SetDefault("CRON_PENDING_DELIVERIES", "*/15 * * * *")
	viper.SetDefault("REMINDER_WINDOW_MINUTES", 60)
	viper.SetDefault("DIRECTORY_CACHE_TTL_HOURS", 6)

	viper.SetDefault("EMAIL_API_URL", "https://api.brevo.com/v3/smtp/email")
	viper.SetDefault("EMAIL_API_KEY", "")
	viper.SetDefault("EMAIL_FROM_NAME", "Driveline")
	viper.SetDefault("EMAIL_FROM_ADDR", "no-reply@driveline.app")
	viper.SetDefault("SMS_API_URL", "")
	viper.SetDefault("SMS_API_KEY", "")
	viper.SetDefault("SMS_RATE_PER_MIN", 60)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("PAYOUT_CURRENCY", "usd")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
