package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	sessionStores = []string{"sqlite", "postgres", "redis", "memory"}
	dbDrivers     = []string{"sqlite", "postgres"}
	logFormats    = []string{"json", "text"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Validate checks the settings shared by every binary.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	if !slices.Contains(sessionStores, strings.ToLower(c.Session.Store)) {
		errs = append(errs, fmt.Errorf("session.store %q must be one of %v", c.Session.Store, sessionStores))
	}
	if c.Session.Duration <= 0 {
		errs = append(errs, errors.New("session.duration must be positive"))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format %q must be one of %v", c.Log.Format, logFormats))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level %q must be one of %v", c.Log.Level, logLevels))
	}
	if !slices.Contains(dbDrivers, strings.ToLower(c.DevBackend.Driver)) {
		errs = append(errs, fmt.Errorf("dev_backend.driver %q must be one of %v", c.DevBackend.Driver, dbDrivers))
	}

	c.Backend.BaseURL = strings.TrimSuffix(c.Backend.BaseURL, "/")
	return errors.Join(errs...)
}

// ValidateDevBackend checks the settings only cmd/devbackend needs.
func (c DevBackendConfig) ValidateDevBackend() error {
	var errs []error
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("dev_backend.jwt_secret must be at least 16 characters"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("dev_backend.port %d out of range", c.Port))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("dev_backend.token_ttl must be positive"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("dev_backend admin_email and admin_password must be set together"))
	}
	return errors.Join(errs...)
}
