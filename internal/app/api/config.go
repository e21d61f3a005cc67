package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/messaging/rabbitmq"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/tokens"
)

// Config carries the settings for the API process. It is built once by
// LoadConfig and handed to constructors by value.
type Config struct {
	Port              string `yaml:"port"`
	PostgresDSN       string `yaml:"postgresDsn"`
	TemporalAddress   string `yaml:"temporalAddress"`
	TemporalNamespace string `yaml:"temporalNamespace"`
	TemporalDisabled  bool   `yaml:"temporalDisabled"`

	RabbitMQURL      string `yaml:"rabbitmqUrl"`
	RabbitMQExchange string `yaml:"rabbitmqExchange"`

	JWT    JWTConfig    `yaml:"jwt"`
	Cookie CookieConfig `yaml:"cookie"`

	Razorpay RazorpayConfig `yaml:"razorpay"`
	Admin    AdminConfig    `yaml:"admin"`
}

type JWTConfig struct {
	AccessSecret  string        `yaml:"accessSecret"`
	RefreshSecret string        `yaml:"refreshSecret"`
	AccessTTL     time.Duration `yaml:"accessTtl"`
	RefreshTTL    time.Duration `yaml:"refreshTtl"`
	Issuer        string        `yaml:"issuer"`
}

type CookieConfig struct {
	Domain string `yaml:"domain"`
	Secure bool   `yaml:"secure"`
}

// RazorpayConfig holds the gateway credentials. KeySecret also signs checkout callbacks.
type RazorpayConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	KeyID     string `yaml:"keyId"`
	KeySecret string `yaml:"keySecret"`
}

// Enabled reports whether both gateway keys are present.
func (c RazorpayConfig) Enabled() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

// AdminConfig bootstraps the first ADMIN account when Email is set.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

func defaultConfig() Config {
	return Config{
		Port:              "8080",
		TemporalAddress:   client.DefaultHostPort,
		TemporalNamespace: client.DefaultNamespace,
		RabbitMQExchange:  rabbitmq.DefaultExchange,
		JWT: JWTConfig{
			AccessTTL:  tokens.DefaultAccessTTL,
			RefreshTTL: tokens.DefaultRefreshTTL,
			Issuer:     "poster-parlor-api",
		},
		Admin: AdminConfig{Name: "Administrator"},
	}
}

// LoadConfig applies defaults, then the YAML file named by CONFIG_FILE, then
// environment variables, and validates the result.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.TemporalAddress, "TEMPORAL_ADDRESS")
	setString(&cfg.TemporalNamespace, "TEMPORAL_NAMESPACE")
	if raw, ok := lookup("TEMPORAL_DISABLED"); ok {
		cfg.TemporalDisabled = isTruthy(raw)
	}
	setString(&cfg.RabbitMQURL, "RABBITMQ_URL")
	setString(&cfg.RabbitMQExchange, "RABBITMQ_EXCHANGE")

	setString(&cfg.JWT.AccessSecret, "JWT_ACCESS_SECRET")
	setString(&cfg.JWT.RefreshSecret, "JWT_REFRESH_SECRET")
	setString(&cfg.JWT.Issuer, "JWT_ISSUER")
	if err := setDuration(&cfg.JWT.AccessTTL, "JWT_ACCESS_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.JWT.RefreshTTL, "JWT_REFRESH_TTL"); err != nil {
		return err
	}

	setString(&cfg.Cookie.Domain, "COOKIE_DOMAIN")
	if raw, ok := lookup("COOKIE_SECURE"); ok {
		cfg.Cookie.Secure = isTruthy(raw)
	}

	setString(&cfg.Razorpay.BaseURL, "RAZORPAY_BASE_URL")
	setString(&cfg.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	setString(&cfg.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")

	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Name, "ADMIN_NAME")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	return nil
}

func (c Config) validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("port %q must be numeric", c.Port))
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required"))
	}
	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("access and refresh secrets must differ"))
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if (c.Razorpay.KeyID == "") != (c.Razorpay.KeySecret == "") {
		errs = append(errs, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set together"))
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set"))
	}
	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func setString(dst *string, key string) {
	if val, ok := lookup(key); ok {
		*dst = val
	}
}

// setDuration accepts Go duration syntax ("15m", "168h").
func setDuration(dst *time.Duration, key string) error {
	val, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return fmt.Errorf("%s must be a positive duration", key)
	}
	*dst = d
	return nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
