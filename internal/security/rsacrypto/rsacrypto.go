// Package rsacrypto envuelve las operaciones asimétricas del servicio:
// decrypt OAEP/SHA-256 para el seed y firma/verificación PSS/SHA-256
// para las pruebas de commit.
package rsacrypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
)

var (
	// ErrDecryptionFailed cubre ciphertext malformado, padding inválido o
	// clave equivocada. El detalle real nunca se expone al caller HTTP.
	ErrDecryptionFailed = errors.New("rsacrypto: decryption failed")

	ErrSignFailed = errors.New("rsacrypto: sign failed")
)

// Decrypt descifra con RSA/OAEP, SHA-256 para hash y MGF1, sin label.
func Decrypt(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key not loaded", ErrDecryptionFailed)
	}
	pt, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return pt, nil
}

// Encrypt es la contraparte de Decrypt (mismos parámetros OAEP).
// La usa el CLI y los tests; el servicio solo descifra.
func Encrypt(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
}

// Sign firma message con RSA-PSS, SHA-256 y salt máximo.
func Sign(priv *rsa.PrivateKey, message []byte) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key not loaded", ErrSignFailed)
	}
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	return sig, nil
}

// Verify valida una firma PSS/SHA-256 sobre message.
func Verify(pub *rsa.PublicKey, message, sig []byte) bool {
	if pub == nil {
		return false
	}
	digest := sha256.Sum256(message)
	err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
	return err == nil
}
