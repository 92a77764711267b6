package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/DOVA00/checking-links/internal/config"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()
	for _, name := range []string{"listen", "cors-origin", "rate-limit", "rate-burst", "max-size", "cache-ttl", "json-logs", "no-banner", "timeout"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
	if cmd.Flags().Lookup("pdf") != nil {
		t.Error("serve must not take report flags")
	}
}

func TestApplyServeFlags(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()
	if err := cmd.ParseFlags([]string{
		"-l", "127.0.0.1:9000", "--cors-origin", "https://app.example",
		"--rate-limit", "0", "--max-size", "1024",
	}); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewConfig()
	if err := applyServeFlags(cmd, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" || cfg.CORSOrigin != "https://app.example" {
		t.Errorf("unexpected listen %q origin %q", cfg.ListenAddr, cfg.CORSOrigin)
	}
	if cfg.RateLimitRPS != 0 || cfg.MaxUploadSize != 1024 {
		t.Errorf("unexpected rate %v size %d", cfg.RateLimitRPS, cfg.MaxUploadSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestPrintBanner(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.ListenAddr = "127.0.0.1:9000"

	var buf bytes.Buffer
	printBanner(&buf, cfg)

	output := buf.String()
	for _, want := range []string{"Link trust API", "127.0.0.1:9000", "Safe Browsing: disabled"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected banner to contain %q\n%s", want, output)
		}
	}
}
