package config

import (
	"os"
	"testing"
	"time"
)

func clearVODProxyEnv(t *testing.T) {
	for _, k := range []string{
		"VODPROXY_CATALOG", "VODPROXY_MOUNT", "VODPROXY_METRICS_ADDR", "VODPROXY_SIZE_MB",
		"VODPROXY_LOAD_DELAY", "VODPROXY_BANDWIDTH_MBPS", "VODPROXY_LOAD_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_defaults(t *testing.T) {
	clearVODProxyEnv(t)
	c := Load()
	if c.SizeMB != 500 {
		t.Errorf("SizeMB = %d", c.SizeMB)
	}
	if c.LoadDelay != 3*time.Second {
		t.Errorf("LoadDelay = %s", c.LoadDelay)
	}
	if c.BandwidthMBps != 0 || c.LoadTimeout != 0 {
		t.Errorf("bandwidth=%v timeout=%s", c.BandwidthMBps, c.LoadTimeout)
	}
	if c.CatalogPath != "" || c.MetricsAddr != "" {
		t.Errorf("catalog=%q metrics=%q", c.CatalogPath, c.MetricsAddr)
	}
	if c.MountPoint != "/mnt/vodproxy" {
		t.Errorf("MountPoint = %q", c.MountPoint)
	}
}

func TestLoad_fromEnv(t *testing.T) {
	clearVODProxyEnv(t)
	t.Setenv("VODPROXY_CATALOG", "/data/library.db")
	t.Setenv("VODPROXY_SIZE_MB", "750")
	t.Setenv("VODPROXY_LOAD_DELAY", "250ms")
	t.Setenv("VODPROXY_BANDWIDTH_MBPS", "12.5")
	t.Setenv("VODPROXY_LOAD_TIMEOUT", "2000")
	t.Setenv("VODPROXY_METRICS_ADDR", ":9108")
	c := Load()
	if c.CatalogPath != "/data/library.db" {
		t.Errorf("CatalogPath = %q", c.CatalogPath)
	}
	if c.SizeMB != 750 {
		t.Errorf("SizeMB = %d", c.SizeMB)
	}
	if c.LoadDelay != 250*time.Millisecond {
		t.Errorf("LoadDelay = %s", c.LoadDelay)
	}
	if c.BandwidthMBps != 12.5 {
		t.Errorf("BandwidthMBps = %v", c.BandwidthMBps)
	}
	if c.LoadTimeout != 2*time.Second {
		t.Errorf("LoadTimeout = %s (bare integers are milliseconds)", c.LoadTimeout)
	}
	if c.MetricsAddr != ":9108" {
		t.Errorf("MetricsAddr = %q", c.MetricsAddr)
	}
}

func TestLoad_invalidFallsBack(t *testing.T) {
	clearVODProxyEnv(t)
	t.Setenv("VODPROXY_SIZE_MB", "-3")
	t.Setenv("VODPROXY_LOAD_DELAY", "soon")
	t.Setenv("VODPROXY_BANDWIDTH_MBPS", "-1")
	c := Load()
	if c.SizeMB != 500 {
		t.Errorf("SizeMB = %d", c.SizeMB)
	}
	if c.LoadDelay != 3*time.Second {
		t.Errorf("LoadDelay = %s", c.LoadDelay)
	}
	if c.BandwidthMBps != 0 {
		t.Errorf("BandwidthMBps = %v", c.BandwidthMBps)
	}
}
