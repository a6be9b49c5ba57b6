// cron2fa es el entry point que cron invoca una vez por minuto para loguear
// el código 2FA vigente. Nunca le propaga errores al scheduler: cualquier
// falla se reporta a stderr y el proceso sale 0 igual.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/pki2fa/internal/config"
	"github.com/dropDatabas3/pki2fa/internal/cronlog"
)

func main() {
	var (
		flagConfig  = flag.String("config", "", "ruta a config.yaml (vacío => defaults + env)")
		flagEnvFile = flag.String("env-file", "", "ruta a .env (opcional)")
		flagStdout  = flag.Bool("stdout", false, "escribir a stdout en vez del output file (para pipear desde crontab)")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cron2fa: config: %v\n", err)
		return
	}

	out := os.Stdout
	if !*flagStdout {
		f, err := os.OpenFile(cfg.Cron.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cron2fa: open %s: %v\n", cfg.Cron.OutputPath, err)
			return
		}
		defer f.Close()
		out = f
	}

	if err := cronlog.Run(cfg.Seed.FilePath, out, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "cron2fa: %v\n", err)
	}
}
