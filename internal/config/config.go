package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the simulated-load parameters and the optional surfaces (catalog
// file, FUSE mount point, metrics listener). Loaded from the environment.
type Config struct {
	CatalogPath string // JSON or SQLite catalog; "" = built-in three-lesson course
	MountPoint  string // vodfs mount point
	MetricsAddr string // e.g. ":9108"; "" = no metrics listener. Used by mount only

	SizeMB        int           // lesson size of the built-in course when no catalog is configured
	LoadDelay     time.Duration // fixed simulated load time
	BandwidthMBps float64       // >0 paces loads by size instead of LoadDelay
	LoadTimeout   time.Duration // 0 = no per-load bound
}

// Load reads config from environment. Call LoadEnvFile(".env") first to use a .env file.
func Load() *Config {
	c := &Config{
		CatalogPath:   os.Getenv("VODPROXY_CATALOG"),
		MountPoint:    getEnv("VODPROXY_MOUNT", "/mnt/vodproxy"),
		MetricsAddr:   os.Getenv("VODPROXY_METRICS_ADDR"),
		SizeMB:        getEnvInt("VODPROXY_SIZE_MB", 500),
		LoadDelay:     getEnvDuration("VODPROXY_LOAD_DELAY", 3*time.Second),
		BandwidthMBps: getEnvFloat("VODPROXY_BANDWIDTH_MBPS", 0),
		LoadTimeout:   getEnvDuration("VODPROXY_LOAD_TIMEOUT", 0),
	}
	if c.SizeMB <= 0 {
		c.SizeMB = 500
	}
	if c.LoadDelay < 0 {
		c.LoadDelay = 0
	}
	if c.BandwidthMBps < 0 {
		c.BandwidthMBps = 0
	}
	if c.LoadTimeout < 0 {
		c.LoadTimeout = 0
	}
	return c
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvDuration accepts Go durations ("1500ms") or bare integers as milliseconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}
