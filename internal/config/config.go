// Package config resolves gripview settings from a .env file and GRIPVIEW_*
// environment variables. Command-line flags override what Load returns.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mabhi256/gripview/internal/resolver"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultDepth   = 2
)

type Config struct {
	Debug   bool
	Log     LogConfig
	Remote  RemoteConfig
	Inspect InspectConfig
}

type LogConfig struct {
	Dir    string
	ToFile bool
}

type RemoteConfig struct {
	// URL is the websocket endpoint of the remote debugging server.
	URL     string
	Console string
	Timeout time.Duration
}

type InspectConfig struct {
	CacheSize int
	// WindowProperties names a file listing global names to fold under
	// <default properties>. Empty means the built-in list.
	WindowProperties string
	Depth            int
}

// Load reads .env files (missing ones are ignored) and the environment.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		logrus.Debugf("skipping env files %v: %v", files, err)
	}

	return &Config{
		Debug: envBool("GRIPVIEW_DEBUG", false),
		Log: LogConfig{
			Dir:    strings.TrimSpace(os.Getenv("GRIPVIEW_LOG_DIR")),
			ToFile: envBool("GRIPVIEW_LOG_TO_FILE", true),
		},
		Remote: RemoteConfig{
			URL:     firstNonEmpty(strings.TrimSpace(os.Getenv("GRIPVIEW_URL")), strings.TrimSpace(os.Getenv("GRIPVIEW_ENDPOINT"))),
			Console: strings.TrimSpace(os.Getenv("GRIPVIEW_CONSOLE")),
			Timeout: envDuration("GRIPVIEW_TIMEOUT", DefaultTimeout),
		},
		Inspect: InspectConfig{
			CacheSize:        envInt("GRIPVIEW_CACHE_SIZE", resolver.DefaultCacheSize),
			WindowProperties: strings.TrimSpace(os.Getenv("GRIPVIEW_WINDOW_PROPERTIES")),
			Depth:            envInt("GRIPVIEW_DEPTH", DefaultDepth),
		},
	}
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logrus.Warnf("ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return v
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		logrus.Warnf("ignoring %s=%q", key, raw)
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		logrus.Warnf("ignoring %s=%q", key, raw)
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
