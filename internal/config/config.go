package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	HTTPPort string `mapstructure:"HTTP_PORT"`

	// Store selects the repository backend: "mongo" or "memory".
	Store    string `mapstructure:"STORE"`
	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`
	Migrate  bool   `mapstructure:"APP_MIGRATE"`

	// RedisAddr empty disables the listing cache.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	// JWTAccessSecret empty disables token issuing; identity then comes
	// from the user-id header only.
	JWTAccessSecret  string        `mapstructure:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string        `mapstructure:"JWT_REFRESH_SECRET"`
	JWTIssuer        string        `mapstructure:"JWT_ISSUER"`
	JWTAccessTTL     time.Duration `mapstructure:"JWT_ACCESS_TTL"`
	JWTRefreshTTL    time.Duration `mapstructure:"JWT_REFRESH_TTL"`

	UploadsDir    string `mapstructure:"UPLOADS_DIR"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
	MaxUploadMB   int64  `mapstructure:"MAX_UPLOAD_MB"`
	MaxImages     int    `mapstructure:"MAX_IMAGES"`

	Workers     int      `mapstructure:"WORKERS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]any{
	"APP_ENV":            "dev",
	"HTTP_PORT":          "5000",
	"STORE":              "mongo",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DB":           "findhome",
	"APP_MIGRATE":        true,
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"CACHE_TTL":          "10m",
	"JWT_ACCESS_SECRET":  "",
	"JWT_REFRESH_SECRET": "",
	"JWT_ISSUER":         "findhome-backend",
	"JWT_ACCESS_TTL":     "15m",
	"JWT_REFRESH_TTL":    "168h",
	"UPLOADS_DIR":        "uploads",
	"PUBLIC_BASE_URL":    "http://localhost:5000",
	"MAX_UPLOAD_MB":      5,
	"MAX_IMAGES":         10,
	"WORKERS":            4,
	"CORS_ORIGINS":       "*",
}

// Load reads defaults, then an optional config.env in the working directory,
// then the environment.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// JWTEnabled reports whether bearer tokens are issued and accepted.
func (c Config) JWTEnabled() bool { return c.JWTAccessSecret != "" && c.JWTRefreshSecret != "" }
