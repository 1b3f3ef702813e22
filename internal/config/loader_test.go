package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
hashing:
  algorithm: sha256

output:
  directory: /var/spool/scans
  format: fixed
  console: false

database:
  enabled: true
  driver: mysql
  host: db-host
  port: 3307
  user: crawler
  password: secret
  database: inventory

exclude:
  - /var/spool/scans
  - /proc

logging:
  level: debug
  format: json
  output: stderr
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Hashing.Algorithm != "sha256" {
		t.Errorf("expected algorithm sha256, got %s", cfg.Hashing.Algorithm)
	}
	if cfg.Output.Directory != "/var/spool/scans" {
		t.Errorf("expected output directory /var/spool/scans, got %s", cfg.Output.Directory)
	}
	if cfg.Output.Format != "fixed" {
		t.Errorf("expected format fixed, got %s", cfg.Output.Format)
	}
	if cfg.Output.Console {
		t.Error("expected console echo disabled")
	}
	if !cfg.Database.Enabled || cfg.Database.Driver != "mysql" {
		t.Errorf("database config not loaded: %+v", cfg.Database)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("expected database port 3307, got %d", cfg.Database.Port)
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("expected 2 exclude entries, got %d", len(cfg.Exclude))
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging config not loaded: %+v", cfg.Logging)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if cfg.Hashing.Algorithm != "md5" {
		t.Errorf("expected default algorithm md5, got %s", cfg.Hashing.Algorithm)
	}
	if cfg.Output.Format != "delimited" {
		t.Errorf("expected default format delimited, got %s", cfg.Output.Format)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(configPath, []byte("hashing: [unclosed"), 0644)

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestEnvVarSubstitution(t *testing.T) {
	t.Setenv("CRAWL_OUT", "/srv/output")
	t.Setenv("CRAWL_DB_PASS", "hunter2")

	configPath := filepath.Join(t.TempDir(), "env.yaml")
	configContent := `
output:
  directory: ${CRAWL_OUT}
database:
  enabled: true
  driver: mysql
  host: dbh
  user: u
  password: ${CRAWL_DB_PASS}
  database: inv
exclude:
  - ${CRAWL_OUT}/archive
`
	os.WriteFile(configPath, []byte(configContent), 0644)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Output.Directory != "/srv/output" {
		t.Errorf("expected substituted output directory, got %s", cfg.Output.Directory)
	}
	if cfg.Database.Password != "hunter2" {
		t.Errorf("expected substituted password, got %s", cfg.Database.Password)
	}
	if cfg.Exclude[0] != "/srv/output/archive" {
		t.Errorf("expected substituted exclude entry, got %s", cfg.Exclude[0])
	}
}

func TestEnvVarSubstitutionKeepsUnknownVars(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	os.WriteFile(configPath, []byte("output:\n  directory: ${DEFINITELY_UNSET_VAR_42}\n"), 0644)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Directory != "${DEFINITELY_UNSET_VAR_42}" {
		t.Errorf("unknown vars must be left intact, got %s", cfg.Output.Directory)
	}
}
