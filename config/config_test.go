package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
server:
  port: 8080
  allowedOrigins:
    - http://localhost:5173
  uploadDir: data/uploads
gemini:
  apiKey: test-key
  model: gemini-2.5-flash
database:
  uri: mongodb://localhost:27017/essayhub
jwt:
  secret: super-secret
  expiry: 24
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("Unexpected allowed origins: %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.UploadDir != "data/uploads" {
		t.Errorf("Expected upload dir data/uploads, got %s", cfg.Server.UploadDir)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected model: %s", cfg.Gemini.Model)
	}
	if cfg.JWT.Secret != "super-secret" || cfg.JWT.Expiry != 24 {
		t.Errorf("Unexpected jwt config: %+v", cfg.JWT)
	}
}

func TestLoadConfigDefaultsUploadDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
server:
  port: 1420
jwt:
  secret: s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.UploadDir != "uploads" {
		t.Errorf("Expected default upload dir, got %s", cfg.Server.UploadDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yml"); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}
