package config

import "os"

// LinkedIn holds the OAuth client credentials. Any of them may be empty;
// the auth endpoints refuse requests instead of the process refusing to
// start.
type LinkedIn struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

func (l LinkedIn) LoginConfigured() bool {
	return l.ClientID != "" && l.RedirectURI != ""
}

func (l LinkedIn) CallbackConfigured() bool {
	return l.ClientID != "" && l.ClientSecret != "" && l.RedirectURI != ""
}

// Config contains runtime settings, read once at boot.
type Config struct {
	Port     string
	LogLevel string

	DatabaseURL  string // MongoDB connection string; empty disables the store
	DatabaseName string

	RedisURL string // optional; CSRF state falls back to process memory

	LinkedIn LinkedIn
}

// Load populates config from environment variables. Nothing is hard
// required: missing collaborators degrade the endpoints that need them.
func Load() Config {
	cfg := Config{
		Port:         "8080",
		LogLevel:     "info",
		DatabaseName: "jobnexus",
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DATABASE_NAME"); v != "" {
		cfg.DatabaseName = v
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.LinkedIn.ClientID = os.Getenv("LINKEDIN_CLIENT_ID")
	cfg.LinkedIn.ClientSecret = os.Getenv("LINKEDIN_CLIENT_SECRET")
	cfg.LinkedIn.RedirectURI = os.Getenv("LINKEDIN_REDIRECT_URI")

	return cfg
}
