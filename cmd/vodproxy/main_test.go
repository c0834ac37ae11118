package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/snapetech/vodproxy/internal/catalog"
)

func fastEnv(t *testing.T) {
	t.Setenv("VODPROXY_LOAD_DELAY", "0")
	t.Setenv("VODPROXY_CATALOG", "")
	t.Setenv("VODPROXY_METRICS_ADDR", "")
	t.Setenv("VODPROXY_BANDWIDTH_MBPS", "")
}

func TestRun_lazyDefaultCourse(t *testing.T) {
	fastEnv(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"lazy"}, &out); err != nil {
		t.Fatalf("run lazy: %v", err)
	}
	s := out.String()
	if n := strings.Count(s, "loaded into memory"); n != 1 {
		t.Errorf("loads = %d, want 1\n%s", n, s)
	}
	if !strings.Contains(s, "video 'aula01_introducao.mp4' loaded into memory") {
		t.Errorf("first lesson not loaded:\n%s", s)
	}
}

func TestRun_eagerPlaysSelected(t *testing.T) {
	fastEnv(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"eager", "-play", "aula03_avancado.mp4"}, &out); err != nil {
		t.Fatalf("run eager: %v", err)
	}
	s := out.String()
	if n := strings.Count(s, "loaded into memory"); n != 3 {
		t.Errorf("loads = %d, want 3", n)
	}
	if !strings.Contains(s, "playing video: aula03_avancado.mp4") {
		t.Errorf("selected video not played:\n%s", s)
	}
}

func TestRun_listNeverLoads(t *testing.T) {
	fastEnv(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	c := catalog.New()
	c.Replace([]catalog.Entry{{ID: "x.mp4", SizeMB: 42}})
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), []string{"list", "-catalog", path}, &out); err != nil {
		t.Fatalf("run list: %v", err)
	}
	if out.String() != "x.mp4 (42MB) [not loaded]\n" {
		t.Errorf("list output = %q", out.String())
	}
}

func TestRun_listUsesConfiguredSize(t *testing.T) {
	fastEnv(t)
	t.Setenv("VODPROXY_SIZE_MB", "7")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"list"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "aula01_introducao.mp4 (7MB) [not loaded]") {
		t.Errorf("list output = %q", out.String())
	}
}

func TestRun_lazyStartsNoMetricsListener(t *testing.T) {
	fastEnv(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()
	t.Setenv("VODPROXY_METRICS_ADDR", addr)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"lazy"}, &out); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	ln, err = net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("metrics address taken after lazy run: %v", err)
	}
	ln.Close()
}

func TestRun_catalogFromEnv(t *testing.T) {
	fastEnv(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"videos":[{"id":"env.mp4","size_mb":5}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VODPROXY_CATALOG", path)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"list"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "env.mp4 (5MB)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_usage(t *testing.T) {
	fastEnv(t)
	for _, args := range [][]string{nil, {"bogus"}} {
		if err := run(context.Background(), args, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			t.Errorf("run(%v) = %v, want usage error", args, err)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a.mp4, ,b.mp4 ")
	if len(got) != 2 || got[0] != "a.mp4" || got[1] != "b.mp4" {
		t.Errorf("splitList = %q", got)
	}
	if splitList("  ") != nil {
		t.Error("blank list should be nil")
	}
}
