// Package cronlog implementa la tarea programada que loguea el código 2FA
// vigente. Corre como proceso propio disparado por cron (cadencia de 1 min),
// desacoplado del API: solo comparten el archivo de seed persistido.
package cronlog

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dropDatabas3/pki2fa/internal/security/totp"
	"github.com/dropDatabas3/pki2fa/internal/seed"
)

// Formato de línea: "2025-01-02 15:04:05 - 2FA Code: 123456" (UTC)
const timeLayout = "2006-01-02 15:04:05"

// Run lee el seed del archivo compartido, genera el código vigente a now y
// escribe la línea en out. Seed ausente => skip silencioso (nil): esto es un
// side channel de observabilidad, no un camino crítico.
func Run(seedPath string, out io.Writer, now time.Time) error {
	hexSeed, err := seed.ReadFile(seedPath)
	if err != nil {
		if errors.Is(err, seed.ErrNotSet) {
			return nil
		}
		return err
	}

	sec, err := totp.SecretFromHex(hexSeed)
	if err != nil {
		return err
	}

	now = now.UTC()
	_, err = fmt.Fprintf(out, "%s - 2FA Code: %s\n",
		now.Format(timeLayout), totp.GenerateAt(sec, now))
	return err
}
