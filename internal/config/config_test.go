package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr default = %q", cfg.Server.Addr)
	}
	if cfg.Seed.FilePath != "/data/seed.txt" {
		t.Errorf("seed path default = %q", cfg.Seed.FilePath)
	}
	if cfg.Cron.OutputPath != "/cron/last_code.txt" {
		t.Errorf("cron output default = %q", cfg.Cron.OutputPath)
	}
	if cfg.TOTP.Window != 1 {
		t.Errorf("window default = %d", cfg.TOTP.Window)
	}
	if cfg.Keys.PrivateKeyPath != "/app/student_private.pem" {
		t.Errorf("private key default = %q", cfg.Keys.PrivateKeyPath)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9090"
seed:
  file_path: /tmp/seed-test.txt
totp:
  window: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	// env pisa al YAML
	t.Setenv("SEED_FILE_PATH", "/tmp/seed-env.txt")
	t.Setenv("TOTP_VALID_WINDOW", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Seed.FilePath != "/tmp/seed-env.txt" {
		t.Errorf("seed path = %q (env debe pisar yaml)", cfg.Seed.FilePath)
	}
	if cfg.TOTP.Window != 3 {
		t.Errorf("window = %d (env debe pisar yaml)", cfg.TOTP.Window)
	}
}

func TestLoad_InvalidWindow(t *testing.T) {
	t.Setenv("TOTP_VALID_WINDOW", "-1")
	if _, err := Load(""); err == nil {
		t.Fatal("esperado error con window negativo")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("esperado error con archivo inexistente")
	}
}
