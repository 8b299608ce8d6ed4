package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Production is strict about secrets; development and test
// get permissive defaults so a bare checkout still boots.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		if IsProduction() {
			errs = append(errs, "JWT_SECRET is required in production")
		} else {
			cfg.JWTSecret = "dev-secret-do-not-use-in-production"
		}
	}

	if IsProduction() {
		if cfg.DBUser == "" {
			errs = append(errs, "DB_USER is required in production")
		}
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, "DB_SSL_MODE must not be disable in production")
		}
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, fmt.Sprintf("SERVER_PORT %q is not a number", cfg.ServerPort))
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		errs = append(errs, fmt.Sprintf("DB_PORT %q is not a number", cfg.DBPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
