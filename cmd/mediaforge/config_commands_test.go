package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := execCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output %q does not name the target", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
}

func TestConfigInitRefusesExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("media_root = \"/srv/media\"\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	out, err := execCommand(t, "config", "init", "--path", target)
	if err == nil {
		t.Fatalf("expected error, got output %q", out)
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("err = %v, want existing-file refusal", err)
	}
}

func TestConfigInitOverwriteReplacesExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	out, err := execCommand(t, "config", "init", "--path", target, "--overwrite")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) == "stale" {
		t.Fatal("existing config was not replaced")
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatalf("replaced config does not look like the sample: %q", data)
	}
}
