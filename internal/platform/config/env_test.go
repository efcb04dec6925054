package config

import "testing"

type testConfig struct {
	Addr  string `env:"ADRIFT_TEST_ADDR" envDefault:"127.0.0.1:8080"`
	Debug bool   `env:"ADRIFT_TEST_DEBUG" envDefault:"false"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.Debug {
		t.Fatal("expected debug default false")
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("ADRIFT_TEST_ADDR", "0.0.0.0:9000")
	t.Setenv("ADRIFT_TEST_DEBUG", "true")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("expected env addr, got %q", cfg.Addr)
	}
	if !cfg.Debug {
		t.Fatal("expected debug true from env")
	}
}
