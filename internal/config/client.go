package config

import (
	"os"
	"path/filepath"
	"time"
)

// ClientOptions holds the configuration of the command-line client.
type ClientOptions struct {
	// BaseURL is the backend root, e.g. http://localhost:8080.
	BaseURL string
	// StorePath is the local key-value file.
	StorePath string
	// CAFile optionally pins the backend's CA certificate for https.
	CAFile string
	// IdleTimeout logs the shell out after this much inactivity.
	IdleTimeout time.Duration
	LogLevel    string
}

// DefaultClientOptions returns the values used when no flag is given.
func DefaultClientOptions() ClientOptions {
	store := "shipdash.json"
	if dir, err := os.UserConfigDir(); err == nil {
		store = filepath.Join(dir, "shipdash", "store.json")
	}
	return ClientOptions{
		BaseURL:     "http://localhost:8080",
		StorePath:   store,
		IdleTimeout: 10 * time.Minute,
		LogLevel:    "warn",
	}
}

// ApplyEnv overrides o with BACKEND_URL and SHIPDASH_STORE when set.
func (o *ClientOptions) ApplyEnv() {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		o.BaseURL = v
	}
	if v := os.Getenv("SHIPDASH_STORE"); v != "" {
		o.StorePath = v
	}
}
