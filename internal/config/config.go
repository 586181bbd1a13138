package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type RFQConfig struct {
	DefaultCurrency   string
	AllowedCurrencies []string
	ListLimit         int
}

type RedisConfig struct {
	Addr string
	DB   int
}

type RateLimitConfig struct {
	QuoteLimit  int
	QuoteWindow time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	RFQ         RFQConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		RFQ: RFQConfig{
			DefaultCurrency:   strings.ToUpper(strings.TrimSpace(v.GetString("RFQ_DEFAULT_CURRENCY"))),
			AllowedCurrencies: upperAll(parseList(v.GetString("RFQ_ALLOWED_CURRENCIES"))),
			ListLimit:         v.GetInt("RFQ_LIST_LIMIT"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			DB:   v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			QuoteLimit:  v.GetInt("QUOTE_RATE_LIMIT"),
			QuoteWindow: v.GetDuration("QUOTE_RATE_WINDOW"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.RFQ.DefaultCurrency == "" {
		cfg.RFQ.DefaultCurrency = "INR"
	}
	if len(cfg.RFQ.AllowedCurrencies) == 0 {
		cfg.RFQ.AllowedCurrencies = []string{cfg.RFQ.DefaultCurrency}
	}
	if cfg.RFQ.ListLimit == 0 {
		cfg.RFQ.ListLimit = 50
	}
	if cfg.RateLimit.QuoteLimit == 0 {
		cfg.RateLimit.QuoteLimit = 30
	}
	if cfg.RateLimit.QuoteWindow == 0 {
		cfg.RateLimit.QuoteWindow = time.Minute
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if len(cfg.RFQ.DefaultCurrency) != 3 {
		return fmt.Errorf("RFQ_DEFAULT_CURRENCY must be a 3-letter code")
	}
	if !contains(cfg.RFQ.AllowedCurrencies, cfg.RFQ.DefaultCurrency) {
		return fmt.Errorf("RFQ_ALLOWED_CURRENCIES must include %s", cfg.RFQ.DefaultCurrency)
	}
	if cfg.RFQ.ListLimit < 0 {
		return fmt.Errorf("RFQ_LIST_LIMIT must be > 0")
	}
	if cfg.RateLimit.QuoteLimit < 0 || cfg.RateLimit.QuoteWindow < 0 {
		return fmt.Errorf("QUOTE_RATE_LIMIT and QUOTE_RATE_WINDOW must be > 0")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func upperAll(items []string) []string {
	for i := range items {
		items[i] = strings.ToUpper(items[i])
	}
	return items
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
