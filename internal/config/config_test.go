package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ergen.yaml")
	content := `namespace: Blog.Data
context: BlogContext
entities_out: Entities.cs
mapping_out: BlogContext.cs
exclude:
  - audit_log
  - schema_migrations
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Namespace != "Blog.Data" {
		t.Errorf("Namespace = %q, want Blog.Data", cfg.Namespace)
	}
	if cfg.Context != "BlogContext" {
		t.Errorf("Context = %q, want BlogContext", cfg.Context)
	}
	if cfg.EntitiesOut != "Entities.cs" || cfg.MappingOut != "BlogContext.cs" {
		t.Errorf("Output paths = %q, %q", cfg.EntitiesOut, cfg.MappingOut)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[0] != "audit_log" || cfg.Exclude[1] != "schema_migrations" {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
}

func TestLoadMissingDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath), false)
	if err != nil {
		t.Fatalf("Missing default config should not error, got: %v", err)
	}
	if cfg == nil || cfg.Namespace != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	if err == nil {
		t.Fatal("Missing explicit config should error")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("namespace: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(path, true); err == nil {
		t.Fatal("Malformed YAML should error")
	}
}
