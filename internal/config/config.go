package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config agrupa toda la configuración del servicio.
// Se carga desde YAML y se puede overridear por env vars (ver applyEnvOverrides).
type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr    string `yaml:"addr"`
		Metrics bool   `yaml:"metrics"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Keys struct {
		PrivateKeyPath          string `yaml:"private_key_path"`
		PublicKeyPath           string `yaml:"public_key_path"`
		InstructorPublicKeyPath string `yaml:"instructor_public_key_path"`
	} `yaml:"keys"`

	Seed struct {
		FilePath string `yaml:"file_path"`
	} `yaml:"seed"`

	Cron struct {
		OutputPath string `yaml:"output_path"`
	} `yaml:"cron"`

	TOTP struct {
		// Ventana de tolerancia en pasos (±window). Período y dígitos son
		// constantes del paquete totp (30s / 6), igual que en el contrato.
		Window int `yaml:"window"`
	} `yaml:"totp"`
}

// Load lee el YAML de path, aplica defaults y overrides por env.
// path vacío => solo defaults + env (útil para los binarios de cron/tools).
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Keys.PrivateKeyPath == "" {
		c.Keys.PrivateKeyPath = "/app/student_private.pem"
	}
	if c.Keys.PublicKeyPath == "" {
		c.Keys.PublicKeyPath = "/app/student_public.pem"
	}
	if c.Keys.InstructorPublicKeyPath == "" {
		c.Keys.InstructorPublicKeyPath = "/app/instructor_public.pem"
	}
	if c.Seed.FilePath == "" {
		c.Seed.FilePath = "/data/seed.txt"
	}
	if c.Cron.OutputPath == "" {
		c.Cron.OutputPath = "/cron/last_code.txt"
	}
	if c.TOTP.Window == 0 {
		c.TOTP.Window = 1
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	v, ok := getEnvStr(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvBool(key string) (bool, bool) {
	v, ok := getEnvStr(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// applyEnvOverrides pisa la config con env vars.
// Los nombres siguen los del deployment original del servicio.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("API_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvBool("API_METRICS"); ok {
		c.Server.Metrics = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("STUDENT_PRIVATE_KEY_PATH"); ok {
		c.Keys.PrivateKeyPath = v
	}
	if v, ok := getEnvStr("STUDENT_PUBLIC_KEY_PATH"); ok {
		c.Keys.PublicKeyPath = v
	}
	if v, ok := getEnvStr("INSTRUCTOR_PUBLIC_KEY_PATH"); ok {
		c.Keys.InstructorPublicKeyPath = v
	}
	if v, ok := getEnvStr("SEED_FILE_PATH"); ok {
		c.Seed.FilePath = v
	}
	if v, ok := getEnvStr("CRON_OUTPUT_PATH"); ok {
		c.Cron.OutputPath = v
	}
	if v, ok := getEnvInt("TOTP_VALID_WINDOW"); ok {
		c.TOTP.Window = v
	}
}

// Validate rechaza configuraciones sin sentido antes de arrancar.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr vacío")
	}
	if c.Keys.PrivateKeyPath == "" {
		return fmt.Errorf("config: keys.private_key_path vacío")
	}
	if c.Seed.FilePath == "" {
		return fmt.Errorf("config: seed.file_path vacío")
	}
	if c.TOTP.Window < 0 {
		return fmt.Errorf("config: totp.window no puede ser negativo")
	}
	return nil
}
