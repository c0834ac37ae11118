package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile_missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nonexistent")); err != nil {
		t.Fatalf("missing file should return nil: %v", err)
	}
}

func TestLoadEnvFile_setsEnv(t *testing.T) {
	t.Setenv("VODPROXY_TEST_FOO", "")
	os.Unsetenv("VODPROXY_TEST_FOO")
	t.Setenv("VODPROXY_TEST_BAZ", "")
	os.Unsetenv("VODPROXY_TEST_BAZ")
	path := filepath.Join(t.TempDir(), ".env")
	body := "VODPROXY_TEST_FOO=bar\n# comment\n\nexport VODPROXY_TEST_BAZ='quux'\nnot a pair\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("VODPROXY_TEST_FOO"); got != "bar" {
		t.Errorf("FOO = %q", got)
	}
	if got := os.Getenv("VODPROXY_TEST_BAZ"); got != "quux" {
		t.Errorf("BAZ = %q", got)
	}
}

func TestLoadEnvFile_keepsExisting(t *testing.T) {
	t.Setenv("VODPROXY_TEST_KEEP", "from-env")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(`VODPROXY_TEST_KEEP="from-file"`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("VODPROXY_TEST_KEEP"); got != "from-env" {
		t.Errorf("KEEP = %q, environment should win", got)
	}
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		in       string
		key, val string
		ok       bool
	}{
		{"A=1", "A", "1", true},
		{"  B = two words ", "B", "two words", true},
		{`C="quoted"`, "C", "quoted", true},
		{`D="mismatched'`, "D", `"mismatched'`, true},
		{"=novalue", "", "", false},
		{"# X=1", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		k, v, ok := parseEnvLine(c.in)
		if k != c.key || v != c.val || ok != c.ok {
			t.Errorf("parseEnvLine(%q) = %q, %q, %v", c.in, k, v, ok)
		}
	}
}
