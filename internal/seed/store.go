// Package seed implementa el almacén del seed descifrado: un único valor
// mutable en memoria, respaldado por un archivo para sobrevivir restarts.
// El archivo es además el canal de comunicación con el proceso de cron, por
// eso toda escritura es write-temp+rename (el lector externo nunca ve un
// seed a medio escribir).
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dropDatabas3/pki2fa/internal/observability/logger"
	"github.com/dropDatabas3/pki2fa/internal/security/sealbox"
	"github.com/dropDatabas3/pki2fa/internal/security/totp"
	"github.com/dropDatabas3/pki2fa/internal/util/atomicwrite"
)

var (
	// ErrNotSet distingue "todavía no se descifró ningún seed" de un error
	// de crypto o de disco. El handler HTTP lo mapea a su mensaje propio.
	ErrNotSet = errors.New("seed: not set")

	// ErrPersist envuelve fallas de escritura a disco. El valor en memoria
	// y el archivo previo quedan intactos cuando esto ocurre.
	ErrPersist = errors.New("seed: persist failed")
)

// Store guarda el seed hex activo. Seguro para uso concurrente: los handlers
// lo reciben por inyección y comparten una única instancia.
type Store struct {
	mu   sync.RWMutex
	path string
	// hex de 64 chars; "" => ausente
	value string
}

// Open crea el store y hace una carga best-effort del archivo respaldo.
// Archivo inexistente o corrupto => store vacío, nunca un error de boot.
func Open(path string) *Store {
	s := &Store{path: path}
	if v, err := readSeedFile(path); err == nil {
		s.value = v
	} else if !os.IsNotExist(err) {
		logger.Named("seed").Warn("backing file unreadable, starting empty",
			logger.String("path", path), logger.Err(err))
	}
	return s
}

// Set valida hexSeed, lo persiste de forma atómica y recién ahí lo publica
// en memoria. Si el disco falla no se publica: el último seed commiteado
// sigue siendo el activo.
func (s *Store) Set(hexSeed string) error {
	hexSeed = strings.TrimSpace(hexSeed)
	if _, err := totp.SecretFromHex(hexSeed); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content := []byte(hexSeed)
	sealing, err := sealbox.Enabled()
	if err != nil {
		// clave de sellado configurada pero rota: no persistir en claro
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if sealing {
		sealed, err := sealbox.Seal(content)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
		content = []byte(sealed)
	}
	if err := atomicwrite.AtomicWriteFile(s.path, content, 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	s.value = hexSeed
	return nil
}

// Get retorna el seed activo. Si la memoria está vacía reintenta una carga
// lazy del archivo (cubre el caso de un archivo que apareció después del
// boot o que no se pudo leer en su momento).
func (s *Store) Get() (string, error) {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()
	if v != "" {
		return v, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value != "" {
		return s.value, nil
	}
	v, err := readSeedFile(s.path)
	if err != nil {
		return "", ErrNotSet
	}
	s.value = v
	return v, nil
}

// Path retorna la ruta del archivo respaldo (la comparte el cron).
func (s *Store) Path() string { return s.path }

// readSeedFile lee y valida el archivo respaldo, abriendo el sello si aplica.
func readSeedFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if sealbox.IsSealed(b) {
		pt, err := sealbox.Open(strings.TrimSpace(string(b)))
		if err != nil {
			return "", err
		}
		b = pt
	}
	v := strings.TrimSpace(string(b))
	if _, err := totp.SecretFromHex(v); err != nil {
		return "", err
	}
	return v, nil
}

// ReadFile expone la lectura del archivo respaldo sin pasar por un Store.
// La usa el binario de cron, que corre en otro proceso y no debe compartir
// estado en memoria con el API.
func ReadFile(path string) (string, error) {
	v, err := readSeedFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotSet
		}
		return "", err
	}
	return v, nil
}
