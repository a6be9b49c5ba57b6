// proof firma un hash de commit con RSA-PSS/SHA-256 y emite la firma en base64.
// Es la contraparte local del flujo de entrega; el servicio HTTP no lo usa.
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/pki2fa/internal/config"
	"github.com/dropDatabas3/pki2fa/internal/security/keys"
	"github.com/dropDatabas3/pki2fa/internal/security/rsacrypto"
)

func main() {
	var (
		flagEnvFile = flag.String("env-file", ".env", "ruta a .env")
		flagCommit  = flag.String("commit", "", "hash de commit a firmar (requerido)")
		flagVerify  = flag.String("verify", "", "firma base64 para verificar en vez de firmar")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	commit := strings.TrimSpace(*flagCommit)
	if commit == "" {
		log.Fatal("falta -commit")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	priv, err := keys.LoadPrivateKey(cfg.Keys.PrivateKeyPath)
	if err != nil {
		log.Fatalf("private key: %v", err)
	}

	if *flagVerify != "" {
		sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*flagVerify))
		if err != nil {
			log.Fatalf("firma no es base64: %v", err)
		}
		if rsacrypto.Verify(&priv.PublicKey, []byte(commit), sig) {
			fmt.Println("valid")
			return
		}
		log.Fatal("invalid signature")
	}

	sig, err := rsacrypto.Sign(priv, []byte(commit))
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(base64.StdEncoding.EncodeToString(sig))
}
