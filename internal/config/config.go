// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bryan-buckman/rewind365/internal/api"
	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvAPIBaseURL   = "REWIND365_API_BASE_URL"
	EnvAddr         = "REWIND365_ADDR"
	EnvPort         = "PORT"
	EnvSessionStore = "REWIND365_SESSION_STORE"
	EnvSessionDSN   = "REWIND365_SESSION_DSN"
	EnvStrict       = "REWIND365_STRICT"
	EnvTimezone     = "REWIND365_TIMEZONE"
)

// DefaultAddr is where the tab is served when nothing is configured.
const DefaultAddr = ":3000"

// Config holds application configuration.
type Config struct {
	Addr         string
	APIBaseURL   string
	SessionStore string
	SessionDSN   string
	Strict       bool
	Timezone     string
}

// Load reads .env files (if present) and then the environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env file not loaded: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:         DefaultAddr,
		APIBaseURL:   api.DefaultBaseURL,
		SessionStore: "memory",
	}

	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		cfg.Addr = v
	} else if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		cfg.Addr = ":" + v
	}
	if v := strings.TrimSpace(getenv(EnvAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvSessionStore)); v != "" {
		cfg.SessionStore = strings.ToLower(v)
	}
	cfg.SessionDSN = strings.TrimSpace(getenv(EnvSessionDSN))
	cfg.Timezone = strings.TrimSpace(getenv(EnvTimezone))

	if v := strings.TrimSpace(getenv(EnvStrict)); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvStrict, err)
		}
		cfg.Strict = strict
	}
	return cfg, nil
}

// Location resolves Timezone. An empty value means time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
