// Package config loads process configuration from the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingMongoURI is returned by Validate when no database connection string is configured.
var ErrMissingMongoURI = errors.New("MONGODB_URI is not defined")

// Config holds every setting the server needs at start-up.
type Config struct {
	Port        string           `yaml:"port"`
	LogLevel    string           `yaml:"log_level"`
	CORSOrigins []string         `yaml:"cors_origins"`
	Mongo       MongoConfig      `yaml:"mongo"`
	Redis       RedisConfig      `yaml:"redis"`
	Cloudinary  CloudinaryConfig `yaml:"cloudinary"`
	Clerk       ClerkConfig      `yaml:"clerk"`
	CacheTTL    time.Duration    `yaml:"cache_ttl"`
}

// MongoConfig describes the document database connection.
type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// RedisConfig describes the optional cache connection.
// An empty Host disables the cache.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// CloudinaryConfig holds media host credentials.
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

// Complete reports whether all credentials are present.
func (c CloudinaryConfig) Complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// ClerkConfig holds identity provider settings.
type ClerkConfig struct {
	// JWTKey is the PEM encoded public key used to verify session tokens.
	JWTKey string `yaml:"jwt_key"`
	// AuthorizedParties restricts the azp claim when non-empty.
	AuthorizedParties []string `yaml:"authorized_parties"`
	// WebhookSecret is the shared signing secret for identity webhooks.
	WebhookSecret string `yaml:"webhook_secret"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Port:        "5000",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
		Mongo: MongoConfig{
			Database:       "job-portal",
			ConnectTimeout: 10 * time.Second,
		},
		Redis:      RedisConfig{Port: "6379"},
		Cloudinary: CloudinaryConfig{Folder: "job-portal"},
		CacheTTL:   5 * time.Minute,
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if path is
// non-empty), then environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mongo.URI) == "" {
		return ErrMissingMongoURI
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setList(&cfg.CORSOrigins, "CORS_ALLOWED_ORIGINS")

	setString(&cfg.Mongo.URI, "MONGODB_URI")
	setString(&cfg.Mongo.Database, "MONGODB_DATABASE")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&cfg.Cloudinary.Folder, "CLOUDINARY_FOLDER")

	setString(&cfg.Clerk.JWTKey, "CLERK_JWT_KEY")
	setList(&cfg.Clerk.AuthorizedParties, "CLERK_AUTHORIZED_PARTIES")
	setString(&cfg.Clerk.WebhookSecret, "WEBHOOK_SECRET")

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
