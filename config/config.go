package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey       string        `mapstructure:"secretKey"`
	Issuer          string        `mapstructure:"issuer"`
	Audience        string        `mapstructure:"audience"`
	AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"`
}

// LLMConfig selects and tunes the completion backend. APIKey is never read from
// the YAML file, only from the environment.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"baseURL"`
	Temperature float32 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"-"`
}

type PlacesConfig struct {
	CacheTTL        time.Duration `mapstructure:"cacheTTL"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idleTTL"`
}

type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"googleClientID"`
	GoogleClientSecret string `mapstructure:"googleClientSecret"`
	CallbackURL        string `mapstructure:"callbackURL"`
	SessionSecret      string `mapstructure:"sessionSecret"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Places    PlacesConfig    `mapstructure:"places"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applySecrets(&config)
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// applySecrets pulls credentials that must only come from the environment.
func applySecrets(cfg *Config) {
	switch cfg.LLM.Provider {
	case "gemini":
		cfg.LLM.APIKey = os.Getenv("GOOGLE_GEMINI_API_KEY")
	default:
		cfg.LLM.APIKey = os.Getenv("TOGETHER_API_KEY")
	}
	if s := os.Getenv("JWT_SECRET_KEY"); s != "" {
		cfg.JWT.SecretKey = s
	}
	if s := os.Getenv("POSTGRES_PASSWORD"); s != "" {
		cfg.Repositories.Postgres.Password = s
	}
	if s := os.Getenv("GOOGLE_CLIENT_ID"); s != "" {
		cfg.OAuth.GoogleClientID = s
	}
	if s := os.Getenv("GOOGLE_CLIENT_SECRET"); s != "" {
		cfg.OAuth.GoogleClientSecret = s
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		cfg.OAuth.SessionSecret = s
	}
}
