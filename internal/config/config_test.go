package config

import "testing"

func TestDefaultMatchesOriginalServerDefaults(t *testing.T) {
	cfg := Default()
	if cfg.IP != "127.0.0.1" {
		t.Fatalf("IP = %q, want 127.0.0.1", cfg.IP)
	}
	if cfg.Port != 8888 {
		t.Fatalf("Port = %d, want 8888", cfg.Port)
	}
	if cfg.Threads != 4 {
		t.Fatalf("Threads = %d, want 4", cfg.Threads)
	}
}

func TestLoadFallsBackToDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8888 {
		t.Fatalf("Port = %d, want 8888 (default)", cfg.Port)
	}
}
