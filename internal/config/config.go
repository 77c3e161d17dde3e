// Package config provides centralized configuration for the grabtube server.
// All configurable values are loaded from environment variables with sensible
// defaults; a local .env file is honored but never overrides the real
// environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration values.
type Config struct {
	// Port is the HTTP server listen port.
	Port string

	// Host is the bind address. Empty means all interfaces.
	Host string

	// DownloadDir is the flat directory holding every artifact.
	DownloadDir string

	// RetentionTTL is how long an artifact survives before the sweeper
	// removes it.
	RetentionTTL time.Duration

	// SweepInterval is the pause between retention sweeps.
	SweepInterval time.Duration

	// FetchTimeout is the wall-clock ceiling for one fetch against the
	// extraction collaborator.
	FetchTimeout time.Duration

	// SocketTimeout bounds each network operation the collaborator makes,
	// so a stalled upstream cannot hold a worker indefinitely.
	SocketTimeout time.Duration

	// YTDLPPath is an explicit path to the yt-dlp binary. Empty means
	// look it up on PATH.
	YTDLPPath string

	// UseStub forces the stub extractor regardless of binary availability.
	UseStub bool
}

// Load reads configuration from the environment, applying defaults.
// A .env file in the working directory is loaded first when present.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:          envOr("PORT", "8080"),
		Host:          os.Getenv("HOST"),
		DownloadDir:   envOr("DOWNLOAD_DIR", "downloads"),
		RetentionTTL:  envDuration("RETENTION_TTL", time.Hour),
		SweepInterval: envDuration("SWEEP_INTERVAL", 10*time.Minute),
		FetchTimeout:  envDuration("FETCH_TIMEOUT", 10*time.Minute),
		SocketTimeout: envDuration("SOCKET_TIMEOUT", 30*time.Second),
		YTDLPPath:     os.Getenv("YTDLP_PATH"),
		UseStub:       envBool("USE_STUB", false),
	}
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}
