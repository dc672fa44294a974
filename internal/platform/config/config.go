package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External OAuth Provider
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Review provider client
	ProviderTimeout time.Duration

	// Access tokens inside this margin of expiry are refreshed before use.
	TokenRefreshMargin time.Duration

	// Reply generation webhook
	ReplyWebhookURL     string `mapstructure:"REPLY_WEBHOOK_URL"`
	ReplyWebhookTimeout time.Duration

	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "review-pilot-app")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("PROVIDER_TIMEOUT", "30s")
	viper.SetDefault("TOKEN_REFRESH_MARGIN", "60s")
	viper.SetDefault("REPLY_WEBHOOK_URL", "")
	viper.SetDefault("REPLY_WEBHOOK_TIMEOUT", "30s")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "review-pilot-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}

	providerTimeoutStr := viper.GetString("PROVIDER_TIMEOUT")
	cfg.ProviderTimeout, err = time.ParseDuration(providerTimeoutStr)
	if err != nil {
		cfg.ProviderTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for PROVIDER_TIMEOUT ('%s'). Defaulting to %s.\n", providerTimeoutStr, cfg.ProviderTimeout.String())
	}

	refreshMarginStr := viper.GetString("TOKEN_REFRESH_MARGIN")
	cfg.TokenRefreshMargin, err = time.ParseDuration(refreshMarginStr)
	if err != nil {
		cfg.TokenRefreshMargin = 60 * time.Second
		log.Printf("Warning: Invalid value for TOKEN_REFRESH_MARGIN ('%s'). Defaulting to %s.\n", refreshMarginStr, cfg.TokenRefreshMargin.String())
	}

	cfg.ReplyWebhookURL = viper.GetString("REPLY_WEBHOOK_URL")
	if cfg.ReplyWebhookURL == "" {
		log.Println("Warning: REPLY_WEBHOOK_URL not set. Reply drafting will not function.")
	}

	webhookTimeoutStr := viper.GetString("REPLY_WEBHOOK_TIMEOUT")
	cfg.ReplyWebhookTimeout, err = time.ParseDuration(webhookTimeoutStr)
	if err != nil {
		cfg.ReplyWebhookTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for REPLY_WEBHOOK_TIMEOUT ('%s'). Defaulting to %s.\n", webhookTimeoutStr, cfg.ReplyWebhookTimeout.String())
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
