// keys genera el par RSA-4096 del servicio en PEM (PKCS8 privada, PKIX pública).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/pki2fa/internal/config"
	"github.com/dropDatabas3/pki2fa/internal/security/keys"
)

func main() {
	var (
		flagEnvFile = flag.String("env-file", ".env", "ruta a .env")
		flagBits    = flag.Int("bits", keys.DefaultBits, "tamaño de la clave RSA")
		flagPriv    = flag.String("private", "", "destino de la clave privada (default: config)")
		flagPub     = flag.String("public", "", "destino de la clave pública (default: config)")
		flagForce   = flag.Bool("force", false, "sobrescribir archivos existentes")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	privPath, pubPath := *flagPriv, *flagPub
	if privPath == "" {
		privPath = cfg.Keys.PrivateKeyPath
	}
	if pubPath == "" {
		pubPath = cfg.Keys.PublicKeyPath
	}

	if !*flagForce {
		if _, err := os.Stat(privPath); err == nil {
			log.Fatalf("ya existe %s (use -force para sobrescribir)", privPath)
		}
	}

	fmt.Printf("generando RSA-%d...\n", *flagBits)
	priv, err := keys.Generate(*flagBits)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	if err := keys.SavePrivateKey(privPath, priv); err != nil {
		log.Fatalf("save private: %v", err)
	}
	if err := keys.SavePublicKey(pubPath, &priv.PublicKey); err != nil {
		log.Fatalf("save public: %v", err)
	}

	fmt.Printf("privada: %s\npública: %s\n", privPath, pubPath)
}
