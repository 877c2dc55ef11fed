package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreFile   = "file"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Orders    OrdersConfig    `yaml:"orders"`
	Cart      CartConfig      `yaml:"cart"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	Log       LogConfig       `yaml:"log"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Trace     TraceConfig     `yaml:"trace"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Receipt   ReceiptConfig   `yaml:"receipt"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	PublicDir string `yaml:"public_dir"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type OrdersConfig struct {
	Store    string `yaml:"store"`
	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
}

type CartConfig struct {
	Store      string        `yaml:"store"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	Secret       string `yaml:"secret"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CatalogConfig struct {
	Watch bool `yaml:"watch"`
}

type TraceConfig struct {
	Stdout bool `yaml:"stdout"`
}

type ReceiptConfig struct {
	LogoPath string `yaml:"logo_path"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "", Port: "8080", PublicDir: "public"},
		Data:      DataConfig{Dir: "data"},
		Orders:    OrdersConfig{Store: StoreFile, MongoURI: "mongodb://localhost:27017", MongoDB: "lakecity"},
		Cart:      CartConfig{Store: StoreMemory, SessionTTL: 24 * time.Hour},
		Log:       LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
	}
}

// Load builds the configuration: defaults, then the optional YAML file at
// path (or $LAKECITY_CONFIG), then .env, then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("LAKECITY_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "HOST")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.PublicDir, "PUBLIC_DIR")
	setString(&c.Data.Dir, "DATA_DIR")
	setString(&c.Orders.Store, "ORDER_STORE")
	setString(&c.Orders.MongoURI, "MONGO_URI")
	setString(&c.Orders.MongoDB, "MONGO_DB")
	setString(&c.Cart.Store, "CART_STORE")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Session.Secret, "SESSION_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Receipt.LogoPath, "RECEIPT_LOGO")

	for _, b := range []struct {
		dst *bool
		key string
	}{
		{&c.Catalog.Watch, "CATALOG_WATCH"},
		{&c.Trace.Stdout, "TRACE_STDOUT"},
		{&c.Session.SecureCookie, "SECURE_COOKIE"},
	} {
		if v, ok := os.LookupEnv(b.key); ok {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", b.key, err)
			}
			*b.dst = parsed
		}
	}

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimit.RPS = f
	}
	if v, ok := os.LookupEnv("CART_SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CART_SESSION_TTL: %w", err)
		}
		c.Cart.SessionTTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Orders.Store {
	case StoreFile, StoreMongo:
	default:
		return fmt.Errorf("unknown order store %q (want %s or %s)", c.Orders.Store, StoreFile, StoreMongo)
	}
	switch c.Cart.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("cart store redis needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown cart store %q (want %s or %s)", c.Cart.Store, StoreMemory, StoreRedis)
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET must be set")
	}
	if c.RateLimit.RPS <= 0 {
		return errors.New("rate limit rps must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) ProductsPath() string {
	return filepath.Join(c.Data.Dir, "products.json")
}

func (c *Config) OrdersPath() string {
	return filepath.Join(c.Data.Dir, "orders.json")
}

// ReceiptLogoPath defaults to the site logo under the public directory.
func (c *Config) ReceiptLogoPath() string {
	if c.Receipt.LogoPath != "" {
		return c.Receipt.LogoPath
	}
	return filepath.Join(c.Server.PublicDir, "static", "logo.png")
}
