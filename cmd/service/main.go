package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/pki2fa/internal/config"
	httpx "github.com/dropDatabas3/pki2fa/internal/http"
	"github.com/dropDatabas3/pki2fa/internal/http/router"
	"github.com/dropDatabas3/pki2fa/internal/observability/logger"
	"github.com/dropDatabas3/pki2fa/internal/security/keys"
	"github.com/dropDatabas3/pki2fa/internal/seed"
)

func main() {
	var (
		flagConfig  = flag.String("config", "", "ruta a config.yaml (vacío => defaults + env)")
		flagEnvFile = flag.String("env-file", ".env", "ruta a .env (opcional)")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "pki2fa",
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.Named("service")

	kp, err := keys.LoadPair(cfg.Keys.PrivateKeyPath, cfg.Keys.PublicKeyPath, cfg.Keys.InstructorPublicKeyPath)
	if err != nil {
		lg.Fatal("no se pudo cargar el par de claves", logger.Err(err))
	}

	seeds := seed.Open(cfg.Seed.FilePath)

	var metricsHandler http.Handler
	if cfg.Server.Metrics {
		metricsHandler, err = httpx.RegisterMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			lg.Fatal("registro de métricas falló", logger.Err(err))
		}
	}

	h := router.New(router.Options{
		Keys:    kp,
		Seeds:   seeds,
		Window:  cfg.TOTP.Window,
		Metrics: metricsHandler,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("http listener started", logger.String("addr", cfg.Server.Addr))
		return httpx.Serve(ctx, cfg.Server.Addr, h)
	})

	if err := g.Wait(); err != nil && err != http.ErrServerClosed {
		lg.Fatal("server terminated", logger.Err(err))
	}
	lg.Info("shutdown complete")
}
