package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s=%s]: %s", e.Field, e.Value, e.Message)
}

// Validate normalizes paths in place and rejects unusable values.
// Missing credentials are not an error here: the forwarder reports them per request.
func (c *Config) Validate() error {
	c.Server.BasePath = normalizeBasePath(c.Server.BasePath)
	c.Credentials.APIKey = strings.TrimSpace(c.Credentials.APIKey)
	c.Credentials.ServiceKeyPath = strings.TrimSpace(c.Credentials.ServiceKeyPath)

	if err := validatePort(c.Server.Port); err != nil {
		return ValidationError{Field: "port", Value: c.Server.Port, Message: err.Error()}
	}
	if strings.TrimSpace(c.Upstream.Model) == "" {
		return ValidationError{Field: "gemini_model", Message: "must not be empty"}
	}
	if err := validateURL(c.Upstream.Endpoint); err != nil {
		return ValidationError{Field: "gemini_endpoint", Value: c.Upstream.Endpoint, Message: err.Error()}
	}
	c.Upstream.Endpoint = strings.TrimRight(c.Upstream.Endpoint, "/")
	if c.Upstream.ProxyURL != "" {
		if err := validateURL(c.Upstream.ProxyURL); err != nil {
			return ValidationError{Field: "proxy_url", Value: c.Upstream.ProxyURL, Message: err.Error()}
		}
	}

	var err error
	if c.Credentials.ServiceKeyPath, err = expandPath(c.Credentials.ServiceKeyPath); err != nil {
		return ValidationError{Field: "google_service_key_path", Value: c.Credentials.ServiceKeyPath, Message: err.Error()}
	}
	if c.Logging.LogFile, err = expandPath(c.Logging.LogFile); err != nil {
		return ValidationError{Field: "log_file", Value: c.Logging.LogFile, Message: err.Error()}
	}
	return nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

func expandPath(p string) (string, error) {
	if p == "" || !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p, fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
