package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// HFToken is the HuggingFace access token used for every upstream call.
	// There is no default: an empty token is a per-request configuration
	// error, not a startup failure.
	HFToken   string `mapstructure:"HF_TOKEN"`
	HFBaseURL string `mapstructure:"HF_BASE_URL"`
	HFModel   string `mapstructure:"HF_MODEL"`

	// UpstreamTimeoutSeconds bounds a single inference call. The provider
	// itself imposes no limit, so the cap is made an explicit option here.
	UpstreamTimeoutSeconds int `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	JWTIssuer     string `mapstructure:"JWT_ISSUER"`
	JWTTTLMinutes int    `mapstructure:"JWT_TTL_MINUTES"`
}

// UpstreamTimeout returns the configured inference call limit as a Duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// JWTTTL returns the configured session token lifetime as a Duration.
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 5000)
	viper.SetDefault("DATABASE_PATH", "/data/hance.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	// Registered with an empty default so AutomaticEnv can bind it; absence
	// is handled per-request by the chat service.
	viper.SetDefault("HF_TOKEN", "")
	viper.SetDefault("HF_BASE_URL", "https://router.huggingface.co")
	viper.SetDefault("HF_MODEL", "openai/gpt-oss-20b")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 60)
	viper.SetDefault("JWT_SECRET", "dev-secret-change")
	viper.SetDefault("JWT_ISSUER", "hanceai")
	viper.SetDefault("JWT_TTL_MINUTES", 60)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./server")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
