// Package config loads application configuration from environment variables
// into typed structs.
//
// It combines github.com/joho/godotenv for .env file support with
// github.com/caarlos0/env/v11 for struct parsing, and caches each parsed
// configuration type so the expensive parse happens once per process even
// under concurrent access.
//
// Usage:
//
//	type FacebookConfig struct {
//	    ClientID     string `env:"FACEBOOK_CLIENT_ID,required"`
//	    ClientSecret string `env:"FACEBOOK_CLIENT_SECRET,required"`
//	    RedirectURL  string `env:"FACEBOOK_REDIRECT_URL,required"`
//	}
//
//	var cfg FacebookConfig
//	config.MustLoad(&cfg)
//
// Errors are sentinel values compatible with errors.Is: ErrParsingConfig,
// ErrConfigNotLoaded, ErrNilPointer, ErrLoadingEnvFile. Tests that modify the
// environment can call ResetCache between cases.
package config
