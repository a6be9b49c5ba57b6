// Package totp deriva y verifica códigos TOTP (RFC 4226 / 6238) a partir del
// seed compartido. Período 30s, 6 dígitos, HMAC-SHA1: los valores estándar que
// usan los authenticators.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

const (
	// Period es la duración del paso de tiempo en segundos.
	Period = 30
	// Digits es el ancho del código decimal.
	Digits = 6
	// SeedHexLen es el largo esperado del seed en hex (32 bytes).
	SeedHexLen = 64
)

var (
	ErrInvalidSeed = errors.New("totp: seed inválido (se espera hex de 64 chars)")
)

// Secret es el seed listo para derivar códigos.
// El seed viaja como texto hex; la cadena de transformación del contrato es
// hex → bytes → base32, y el HMAC se deriva de decodificar ese base32.
// Se preserva tal cual para que los códigos sean bit-idénticos entre
// implementaciones (el base32 además es lo que consume otpauth://).
type Secret struct {
	key []byte
	b32 string
}

// Base32 retorna el seed en base32 estándar (con padding, como pyotp lo consume).
func (s Secret) Base32() string { return s.b32 }

// SecretFromHex valida y convierte un seed hex de 64 chars.
func SecretFromHex(hexSeed string) (Secret, error) {
	hexSeed = strings.TrimSpace(hexSeed)
	if len(hexSeed) != SeedHexLen {
		return Secret{}, ErrInvalidSeed
	}
	raw, err := hex.DecodeString(hexSeed)
	if err != nil {
		return Secret{}, ErrInvalidSeed
	}

	// hex → bytes → base32 → bytes: round-trip intencional, ver doc del tipo
	b32 := base32.StdEncoding.EncodeToString(raw)
	key, err := base32.StdEncoding.DecodeString(b32)
	if err != nil {
		return Secret{}, ErrInvalidSeed
	}
	return Secret{key: key, b32: b32}, nil
}

// GenerateAt deriva el código de 6 dígitos para el paso de tiempo de t.
// Determinístico: mismo seed + mismo paso => mismo código.
func GenerateAt(s Secret, t time.Time) string {
	return gen(s.key, t.Unix()/Period)
}

// Remaining retorna los segundos de validez que le quedan al código actual.
// Rango [1, Period]: decrece y salta a Period al cruzar el borde del paso.
func Remaining(t time.Time) int {
	return Period - int(t.Unix()%Period)
}

// Verify acepta code si coincide con el código del paso actual o de los
// ±windowSteps adyacentes. Comparación exacta del string de dígitos,
// en tiempo constante.
func Verify(s Secret, code string, t time.Time, windowSteps int) bool {
	code = strings.TrimSpace(code)
	if len(code) != Digits {
		return false
	}
	counter := t.Unix() / Period
	ok := false
	for c := counter - int64(windowSteps); c <= counter+int64(windowSteps); c++ {
		if subtle.ConstantTimeCompare([]byte(gen(s.key, c)), []byte(code)) == 1 {
			// no cortamos el loop: misma cantidad de trabajo acepte o no
			ok = true
		}
	}
	return ok
}

// OTPAuthURL construye otpauth:// para QR.
// otpauth://totp/{issuer}:{account}?secret=...&issuer=...&algorithm=SHA1&digits=6&period=30
func OTPAuthURL(issuer, accountName string, s Secret) string {
	label := url.PathEscape(fmt.Sprintf("%s:%s", issuer, accountName))
	q := url.Values{}
	q.Set("secret", strings.TrimRight(s.b32, "="))
	q.Set("issuer", issuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", fmt.Sprintf("%d", Digits))
	q.Set("period", fmt.Sprintf("%d", Period))
	return fmt.Sprintf("otpauth://totp/%s?%s", label, q.Encode())
}

func gen(key []byte, counter int64) string {
	// HOTP(K, C) con HMAC-SHA1 (RFC 4226)
	var msg [8]byte
	for i := 7; i >= 0; i-- {
		msg[i] = byte(counter & 0xff)
		counter >>= 8
	}
	m := hmac.New(sha1.New, key)
	_, _ = m.Write(msg[:])
	sum := m.Sum(nil)
	offset := int(sum[len(sum)-1] & 0x0f)
	bin := (int(sum[offset])&0x7f)<<24 | int(sum[offset+1])<<16 | int(sum[offset+2])<<8 | int(sum[offset+3])
	otp := bin % int(math.Pow10(Digits))
	return fmt.Sprintf("%0*d", Digits, otp)
}
