// Package keys maneja la carga y generación del par de claves RSA en PEM.
// Las claves se cargan una vez al boot y son inmutables durante la vida del proceso.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/dropDatabas3/pki2fa/internal/util/atomicwrite"
)

const (
	// RSA-4096 con exponente estándar 65537 (lo que genera crypto/rsa)
	DefaultBits = 4096
)

var (
	ErrNotRSA = errors.New("keys: la clave PEM no es RSA")
	ErrNoPEM  = errors.New("keys: no se encontró bloque PEM")
)

// KeyPair agrupa las claves que el servicio necesita en runtime.
// Instructor es la contraparte que cifra el seed; puede ser nil si no está configurada.
type KeyPair struct {
	Private    *rsa.PrivateKey
	Public     *rsa.PublicKey
	Instructor *rsa.PublicKey
}

// Generate crea un par RSA nuevo. bits<=0 usa DefaultBits.
func Generate(bits int) (*rsa.PrivateKey, error) {
	if bits <= 0 {
		bits = DefaultBits
	}
	return rsa.GenerateKey(rand.Reader, bits)
}

// LoadPrivateKey lee una clave privada RSA desde un PEM (PKCS8, fallback PKCS1).
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keys: read %s: %w", path, err)
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, ErrNoPEM
	}
	if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rk, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrNotRSA
		}
		return rk, nil
	}
	rk, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keys: parse private %s: %w", path, err)
	}
	return rk, nil
}

// LoadPublicKey lee una clave pública RSA desde un PEM (PKIX, fallback PKCS1).
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keys: read %s: %w", path, err)
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, ErrNoPEM
	}
	if k, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rk, ok := k.(*rsa.PublicKey)
		if !ok {
			return nil, ErrNotRSA
		}
		return rk, nil
	}
	rk, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keys: parse public %s: %w", path, err)
	}
	return rk, nil
}

// SavePrivateKey escribe la clave en PEM PKCS8 con perms 0600.
func SavePrivateKey(path string, k *rsa.PrivateKey) error {
	der, err := x509.MarshalPKCS8PrivateKey(k)
	if err != nil {
		return fmt.Errorf("keys: marshal private: %w", err)
	}
	b := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return atomicwrite.AtomicWriteFile(path, b, 0600)
}

// SavePublicKey escribe la clave en PEM PKIX (SubjectPublicKeyInfo) con perms 0644.
func SavePublicKey(path string, k *rsa.PublicKey) error {
	der, err := x509.MarshalPKIXPublicKey(k)
	if err != nil {
		return fmt.Errorf("keys: marshal public: %w", err)
	}
	b := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return atomicwrite.AtomicWriteFile(path, b, 0644)
}

// LoadPair carga private+public del servicio y, si instructorPath no está vacío
// y el archivo existe, la clave de la contraparte. La pública propia es opcional
// (se deriva de la privada si el archivo falta).
func LoadPair(privatePath, publicPath, instructorPath string) (*KeyPair, error) {
	priv, err := LoadPrivateKey(privatePath)
	if err != nil {
		return nil, err
	}
	kp := &KeyPair{Private: priv, Public: &priv.PublicKey}

	if publicPath != "" {
		if pub, err := LoadPublicKey(publicPath); err == nil {
			kp.Public = pub
		}
	}
	if instructorPath != "" {
		if _, err := os.Stat(instructorPath); err == nil {
			pub, err := LoadPublicKey(instructorPath)
			if err != nil {
				return nil, err
			}
			kp.Instructor = pub
		}
	}
	return kp, nil
}
