// Package sealbox cifra el seed persistido en disco con NaCl secretbox
// (XSalsa20-Poly1305). Es opcional: si SEED_SEALING_KEY no está seteada el
// archivo queda en texto plano, compatible con deployments viejos. El proceso
// de cron comparte la misma env var, así ambos pueden abrir el archivo.
package sealbox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	envVar    = "SEED_SEALING_KEY"
	keyLen    = 32
	nonceLen  = 24
	prefix    = "sbx1|"
	separator = "|"
)

var (
	ErrNotSealed = errors.New("sealbox: el contenido no tiene prefijo sbx1")
	ErrOpen      = errors.New("sealbox: auth/decrypt falló")

	key     *[keyLen]byte
	keyOnce sync.Once
	loadErr error
	mu      sync.RWMutex
)

// ensureLoaded carga la clave desde SEED_SEALING_KEY (base64 de 32 bytes) una sola vez.
func ensureLoaded() error {
	keyOnce.Do(func() {
		kb64 := strings.TrimSpace(os.Getenv(envVar))
		if kb64 == "" {
			return // deshabilitado, no es error
		}
		k, err := base64.StdEncoding.DecodeString(kb64)
		if err != nil {
			loadErr = fmt.Errorf("sealbox: decode %s: %w", envVar, err)
			return
		}
		if len(k) != keyLen {
			loadErr = fmt.Errorf("sealbox: %s debe decodificar a %d bytes, obtuvo %d", envVar, keyLen, len(k))
			return
		}
		mu.Lock()
		key = new([keyLen]byte)
		copy(key[:], k)
		mu.Unlock()
	})
	return loadErr
}

// Enabled indica si hay clave de sellado configurada. Una clave seteada
// pero inutilizable (base64 roto, largo incorrecto) es un error: el caller
// no debe degradar en silencio a texto plano.
func Enabled() (bool, error) {
	if err := ensureLoaded(); err != nil {
		return false, err
	}
	mu.RLock()
	defer mu.RUnlock()
	return key != nil, nil
}

// Seal cifra plain y devuelve "sbx1|" + base64(nonce) + "|" + base64(box).
func Seal(plain []byte) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}
	mu.RLock()
	k := key
	mu.RUnlock()
	if k == nil {
		return "", fmt.Errorf("sealbox: %s no seteada", envVar)
	}

	var nonce [nonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("sealbox: nonce random: %w", err)
	}
	box := secretbox.Seal(nil, plain, &nonce, k)
	return prefix + base64.StdEncoding.EncodeToString(nonce[:]) + separator +
		base64.StdEncoding.EncodeToString(box), nil
}

// IsSealed detecta si content fue escrito por Seal.
func IsSealed(content []byte) bool {
	return strings.HasPrefix(string(content), prefix)
}

// Open descifra el formato de Seal y devuelve el texto plano.
func Open(content string) ([]byte, error) {
	if !strings.HasPrefix(content, prefix) {
		return nil, ErrNotSealed
	}
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	mu.RLock()
	k := key
	mu.RUnlock()
	if k == nil {
		return nil, fmt.Errorf("sealbox: archivo sellado pero %s no seteada", envVar)
	}

	parts := strings.Split(strings.TrimPrefix(content, prefix), separator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("sealbox: formato inválido: esperado sbx1|base64(nonce)|base64(box)")
	}
	nb, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("sealbox: decode nonce: %w", err)
	}
	if len(nb) != nonceLen {
		return nil, fmt.Errorf("sealbox: nonce inválido: esperado %d bytes, obtuvo %d", nonceLen, len(nb))
	}
	box, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("sealbox: decode box: %w", err)
	}

	var nonce [nonceLen]byte
	copy(nonce[:], nb)
	plain, ok := secretbox.Open(nil, box, &nonce, k)
	if !ok {
		return nil, ErrOpen
	}
	return plain, nil
}

// --- Helpers para tests ---

// UnsafeResetForTests borra estado interno. Usar sólo en tests.
func UnsafeResetForTests() {
	mu.Lock()
	key = nil
	mu.Unlock()
	keyOnce = sync.Once{}
	loadErr = nil
}
