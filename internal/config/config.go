package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Backend   BackendConfig
	Billing   BillingConfig
	Printer   PrinterConfig
	Store     StoreConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// BackendConfig points at the pharmacy REST backend
type BackendConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     uint64
	RetryBaseDelay time.Duration
}

// BillingConfig tunes the bill composition workflow
type BillingConfig struct {
	SuggestionDebounce time.Duration
	NoticeTTL          time.Duration
	SessionTTL         time.Duration
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int

	// AdminRoles may send test pages
	AdminRoles []string
}

// StoreConfig is the pharmacy header printed on receipts
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
	TaxID   string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	return fromViper(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pharmabill-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "pharmabill")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_EXPIRY_HOURS", 12)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:5000")
	v.SetDefault("BACKEND_TIMEOUT_SECS", 15)
	v.SetDefault("BACKEND_MAX_RETRIES", 2)
	v.SetDefault("BACKEND_RETRY_BASE_DELAY_MS", 500)
	v.SetDefault("BILLING_SUGGESTION_DEBOUNCE_MS", 350)
	v.SetDefault("BILLING_NOTICE_TTL_SECS", 3)
	v.SetDefault("BILLING_SESSION_TTL_MINUTES", 720)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_CHAR_WIDTH", 32)
	v.SetDefault("PRINTER_ADMIN_ROLES", "admin")
	v.SetDefault("STORE_NAME", "Pharmacy")
}

func fromViper(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Enabled:  v.GetBool("DB_ENABLED"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			Issuer:      v.GetString("JWT_ISSUER"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Backend: BackendConfig{
			BaseURL:        v.GetString("BACKEND_BASE_URL"),
			Timeout:        time.Duration(v.GetInt("BACKEND_TIMEOUT_SECS")) * time.Second,
			MaxRetries:     v.GetUint64("BACKEND_MAX_RETRIES"),
			RetryBaseDelay: time.Duration(v.GetInt("BACKEND_RETRY_BASE_DELAY_MS")) * time.Millisecond,
		},
		Billing: BillingConfig{
			SuggestionDebounce: time.Duration(v.GetInt("BILLING_SUGGESTION_DEBOUNCE_MS")) * time.Millisecond,
			NoticeTTL:          time.Duration(v.GetInt("BILLING_NOTICE_TTL_SECS")) * time.Second,
			SessionTTL:         time.Duration(v.GetInt("BILLING_SESSION_TTL_MINUTES")) * time.Minute,
		},
		Printer: PrinterConfig{
			Type:       v.GetString("PRINTER_TYPE"),
			USBPath:    v.GetString("PRINTER_USB_PATH"),
			Address:    v.GetString("PRINTER_ADDRESS"),
			CharWidth:  v.GetInt("PRINTER_CHAR_WIDTH"),
			AdminRoles: v.GetStringSlice("PRINTER_ADMIN_ROLES"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
			Phone:   v.GetString("STORE_PHONE"),
			TaxID:   v.GetString("STORE_TAX_ID"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
