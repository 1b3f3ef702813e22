package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	switch c.Hashing.Algorithm {
	case "md5", "sha256":
	default:
		errors = append(errors, ValidationError{
			Field:   "hashing.algorithm",
			Message: fmt.Sprintf("must be md5 or sha256, got %q", c.Hashing.Algorithm),
		})
	}

	switch c.Output.Format {
	case "delimited", "fixed":
	default:
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("must be delimited or fixed, got %q", c.Output.Format),
		})
	}

	if c.Output.Directory == "" {
		errors = append(errors, ValidationError{
			Field:   "output.directory",
			Message: "must not be empty",
		})
	}

	if c.Database.Enabled {
		errors = append(errors, c.validateDatabase()...)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be debug, info, warn or error, got %q", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", c.Logging.Format),
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors

	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "database.path",
				Message: "required when driver is sqlite3",
			})
		}
	case "mysql":
		if c.Database.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "database.host",
				Message: "required when driver is mysql",
			})
		}
		if c.Database.User == "" {
			errors = append(errors, ValidationError{
				Field:   "database.user",
				Message: "required when driver is mysql",
			})
		}
		if c.Database.Database == "" {
			errors = append(errors, ValidationError{
				Field:   "database.database",
				Message: "required when driver is mysql",
			})
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "database.port",
				Message: fmt.Sprintf("must be between 1 and 65535, got %d", c.Database.Port),
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("must be sqlite3 or mysql, got %q", c.Database.Driver),
		})
	}

	return errors
}
