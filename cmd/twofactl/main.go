// twofactl es el CLI cliente del servicio 2FA (decrypt-seed, generate, verify).
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/pki2fa/internal/security/keys"
	"github.com/dropDatabas3/pki2fa/internal/security/rsacrypto"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(strings.TrimSpace(string(body)))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("PKI2FA_URL", "http://localhost:8080")
		out     = envOr("PKI2FA_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "twofactl",
		Short: "CLI cliente del servicio 2FA",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env PKI2FA_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL = baseURL
		cl.OutFormat = out
	}

	var seedFile string
	decryptCmd := &cobra.Command{
		Use:   "decrypt-seed [base64]",
		Short: "Enviar el seed cifrado al servicio para que lo descifre y persista",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var enc string
			switch {
			case len(args) == 1:
				enc = args[0]
			case seedFile != "":
				b, err := os.ReadFile(seedFile)
				if err != nil {
					return err
				}
				enc = strings.TrimSpace(string(b))
			default:
				return fmt.Errorf("falta el seed cifrado (argumento o --file)")
			}

			body, _ := json.Marshal(map[string]string{"encrypted_seed": enc})
			status, resp, err := cl.do("POST", "/decrypt-seed", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status != http.StatusOK {
				return fmt.Errorf("status=%d", status)
			}
			return nil
		},
	}
	decryptCmd.Flags().StringVar(&seedFile, "file", "", "archivo con el seed cifrado en base64")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Pedir el código 2FA vigente",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, resp, err := cl.do("GET", "/generate-2fa", nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status != http.StatusOK {
				return fmt.Errorf("status=%d", status)
			}
			return nil
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <code>",
		Short: "Verificar un código 2FA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"code": args[0]})
			status, resp, err := cl.do("POST", "/verify-2fa", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status != http.StatusOK {
				return fmt.Errorf("status=%d", status)
			}
			return nil
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Chequear el estado del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, resp, err := cl.do("GET", "/health", nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}

	// encrypt-seed corre 100% local: cifra un seed hex con la clave pública
	// dada, para armar fixtures o probar el flujo end-to-end sin contraparte.
	var pubPath string
	encryptCmd := &cobra.Command{
		Use:   "encrypt-seed <hex-seed>",
		Short: "Cifrar un seed hex con una clave pública (OAEP/SHA-256), salida base64",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pubPath == "" {
				return fmt.Errorf("falta --public-key")
			}
			pub, err := keys.LoadPublicKey(pubPath)
			if err != nil {
				return err
			}
			ct, err := rsacrypto.Encrypt(pub, []byte(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}
			fmt.Println(base64.StdEncoding.EncodeToString(ct))
			return nil
		},
	}
	encryptCmd.Flags().StringVar(&pubPath, "public-key", "", "ruta a la clave pública PEM")

	root.AddCommand(decryptCmd, generateCmd, verifyCmd, healthCmd, encryptCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
