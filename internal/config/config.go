// Package config provides functionality for managing configuration options
// for the server and the client using command-line flags, an optional JSON
// file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// TokenSecret signs bearer tokens. Required.
	TokenSecret string `json:"token_secret"`

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL Duration `json:"token_ttl"`

	// AdminUsername and AdminPassword seed the first account when the
	// users table is empty. Seeding is skipped when either is empty.
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey switch the server to HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// CleanInterval and Retention drive the soft-deleted user cleaner.
	CleanInterval Duration `json:"clean_interval"`
	Retention     Duration `json:"retention"`
}

// Duration is a time.Duration that reads from JSON as "90s"-style text.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Parse parses os.Args and the environment. Errors are fatal.
func Parse() *Options {
	opts, err := ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return opts
}

// ParseArgs builds Options from args. Precedence, lowest first: flag
// defaults and values, the JSON config file, environment variables.
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}
	var ttl, interval, retention time.Duration

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&options.TokenSecret, "s", "", "token signing secret")
	fs.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.StringVar(&options.TLSCert, "tls-cert", "", "server certificate PEM")
	fs.StringVar(&options.TLSKey, "tls-key", "", "server private key PEM")
	fs.DurationVar(&interval, "clean-interval", time.Hour, "soft-delete cleaner interval")
	fs.DurationVar(&retention, "retention", 30*24*time.Hour, "how long soft-deleted users are kept")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	options.TokenTTL = Duration(ttl)
	options.CleanInterval = Duration(interval)
	options.Retention = Duration(retention)

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		options.TokenSecret = secret
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL: %w", err)
		}
		options.TokenTTL = Duration(d)
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		options.AdminUsername = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		options.AdminPassword = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}

	if v := os.Getenv("TLS_CERT"); v != "" {
		options.TLSCert = v
	}
	if v := os.Getenv("TLS_KEY"); v != "" {
		options.TLSKey = v
	}

	if (options.TLSCert == "") != (options.TLSKey == "") {
		return nil, errors.New("tls cert and key must be set together")
	}
	if options.TokenSecret == "" {
		return nil, errors.New("token secret is not set")
	}
	return options, nil
}
