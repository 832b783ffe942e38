package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Store    StoreConfig
	Shipping ShippingConfig
	Bank     BankConfig
	MP       MercadoPagoConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPIFREE_APP_ENV" default:"development"`
	Port         string `envconfig:"SHOPIFREE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPIFREE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPIFREE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPIFREE_DB_DSN"`
	Driver string `envconfig:"SHOPIFREE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"SHOPIFREE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPIFREE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPIFREE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPIFREE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPIFREE_REDIS_URL"`
	Address      string        `envconfig:"SHOPIFREE_REDIS_ADDRESS"`
	Password     string        `envconfig:"SHOPIFREE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPIFREE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPIFREE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPIFREE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPIFREE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPIFREE_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"SHOPIFREE_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// StoreConfig describes the storefront served by this instance.
type StoreConfig struct {
	ID           string `envconfig:"SHOPIFREE_STORE_ID" default:"store-local"`
	Name         string `envconfig:"SHOPIFREE_STORE_NAME" default:"Shopifree Store"`
	Currency     string `envconfig:"SHOPIFREE_STORE_CURRENCY" default:"USD"`
	Country      string `envconfig:"SHOPIFREE_STORE_COUNTRY"`
	Language     string `envconfig:"SHOPIFREE_STORE_LANGUAGE" default:"es"`
	BusinessType string `envconfig:"SHOPIFREE_STORE_BUSINESS_TYPE" default:"general"`
	WhatsApp     string `envconfig:"SHOPIFREE_STORE_WHATSAPP"`
	Origin       string `envconfig:"SHOPIFREE_STORE_ORIGIN" default:"https://shopifree.app"`

	// Countries whose addresses require a state/province, comma separated
	// ISO codes. Validated only when the store country is listed.
	StateRequiredCountries []string `envconfig:"SHOPIFREE_STATE_REQUIRED_COUNTRIES" default:"MX,US,BR,AR"`
}

// RequiresState reports whether delivery addresses for the store's country
// must carry a state/province.
func (s StoreConfig) RequiresState() bool {
	country := strings.ToUpper(strings.TrimSpace(s.Country))
	if country == "" {
		return false
	}
	for _, code := range s.StateRequiredCountries {
		if strings.ToUpper(strings.TrimSpace(code)) == country {
			return true
		}
	}
	return false
}

type ShippingConfig struct {
	Enabled   bool    `envconfig:"SHOPIFREE_SHIPPING_ENABLED" default:"false"`
	Cost      float64 `envconfig:"SHOPIFREE_SHIPPING_COST" default:"0"`
	FreeAbove float64 `envconfig:"SHOPIFREE_SHIPPING_FREE_ABOVE" default:"0"`
}

// BankConfig holds the manual transfer instructions surfaced to buyers.
type BankConfig struct {
	Name          string `envconfig:"SHOPIFREE_BANK_NAME"`
	AccountHolder string `envconfig:"SHOPIFREE_BANK_ACCOUNT_HOLDER"`
	AccountNumber string `envconfig:"SHOPIFREE_BANK_ACCOUNT_NUMBER"`
}

func (b BankConfig) Configured() bool {
	return strings.TrimSpace(b.Name) != "" &&
		strings.TrimSpace(b.AccountHolder) != "" &&
		strings.TrimSpace(b.AccountNumber) != ""
}

type MercadoPagoConfig struct {
	Enabled      bool          `envconfig:"SHOPIFREE_MP_ENABLED" default:"false"`
	PublicKey    string        `envconfig:"SHOPIFREE_MP_PUBLIC_KEY"`
	AccessToken  string        `envconfig:"SHOPIFREE_MP_ACCESS_TOKEN"`
	Sandbox      bool          `envconfig:"SHOPIFREE_MP_SANDBOX" default:"false"`
	BrickEnabled bool          `envconfig:"SHOPIFREE_MP_BRICK_ENABLED" default:"true"`
	BaseURL      string        `envconfig:"SHOPIFREE_MP_BASE_URL" default:"https://api.mercadopago.com"`
	Timeout      time.Duration `envconfig:"SHOPIFREE_MP_TIMEOUT" default:"10s"`
}

type StripeConfig struct {
	Enabled   bool   `envconfig:"SHOPIFREE_STRIPE_ENABLED" default:"false"`
	SecretKey string `envconfig:"SHOPIFREE_STRIPE_SECRET_KEY"`
}

type CheckoutConfig struct {
	SessionTTL       time.Duration `envconfig:"SHOPIFREE_CHECKOUT_SESSION_TTL" default:"2h"`
	CartTTL          time.Duration `envconfig:"SHOPIFREE_CART_TTL" default:"72h"`
	SavedCustomerTTL time.Duration `envconfig:"SHOPIFREE_SAVED_CUSTOMER_TTL" default:"720h"`
}
