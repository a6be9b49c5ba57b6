package sealbox

import (
	"encoding/base64"
	"strings"
	"testing"
)

// Nota: estos tests mutan el singleton y la env var, no usar t.Parallel.

func setKey(t *testing.T) {
	t.Helper()
	UnsafeResetForTests()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	t.Setenv("SEED_SEALING_KEY", base64.StdEncoding.EncodeToString(raw))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	setKey(t)
	defer UnsafeResetForTests()

	msg := []byte("3132333435363738393031323334353637383930313233343536373839303132")
	ct, err := Seal(msg)
	if err != nil {
		t.Fatalf("Seal err: %v", err)
	}
	if !IsSealed([]byte(ct)) {
		t.Fatalf("contenido sellado sin prefijo: %q", ct)
	}

	pt, err := Open(ct)
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	if string(pt) != string(msg) {
		t.Fatalf("plaintext mismatch: got %q want %q", pt, msg)
	}
}

func TestOpen_DetectsTamper(t *testing.T) {
	setKey(t)
	defer UnsafeResetForTests()

	ct, err := Seal([]byte("top secret"))
	if err != nil {
		t.Fatalf("Seal err: %v", err)
	}
	parts := strings.Split(strings.TrimPrefix(ct, "sbx1|"), "|")
	if len(parts) != 2 {
		t.Fatalf("formato inesperado: %q", ct)
	}
	// corromper un byte del box (base64 -> bytes -> flip -> base64)
	bs, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatal(err)
	}
	bs[0] ^= 0x01 // flip
	corrupted := "sbx1|" + parts[0] + "|" + base64.StdEncoding.EncodeToString(bs)

	if _, err := Open(corrupted); err == nil {
		t.Fatal("esperado error de autenticación, got nil")
	}
}

func TestDisabledWithoutKey(t *testing.T) {
	UnsafeResetForTests()
	t.Setenv("SEED_SEALING_KEY", "")
	defer UnsafeResetForTests()

	on, err := Enabled()
	if err != nil {
		t.Fatalf("Enabled err: %v", err)
	}
	if on {
		t.Fatal("Enabled debería ser false sin clave")
	}
	if _, err := Seal([]byte("x")); err == nil {
		t.Fatal("Seal debería fallar sin clave")
	}
	if IsSealed([]byte("plain seed content")) {
		t.Fatal("texto plano detectado como sellado")
	}
}

func TestEnabled_ReportsUnusableKey(t *testing.T) {
	cases := []struct {
		name string
		val  string
	}{
		{"base64 roto", "esto no es base64 !!!"},
		{"largo incorrecto", base64.StdEncoding.EncodeToString([]byte("corta"))},
	}
	for _, tc := range cases {
		UnsafeResetForTests()
		t.Setenv("SEED_SEALING_KEY", tc.val)

		if on, err := Enabled(); err == nil || on {
			t.Errorf("%s: Enabled = (%v, %v), esperado error", tc.name, on, err)
		}
		if _, err := Seal([]byte("x")); err == nil {
			t.Errorf("%s: Seal debería fallar con clave inutilizable", tc.name)
		}
	}
	UnsafeResetForTests()
}

func TestOpen_RejectsPlainContent(t *testing.T) {
	setKey(t)
	defer UnsafeResetForTests()

	if _, err := Open("no tiene prefijo"); err != ErrNotSealed {
		t.Fatalf("esperado ErrNotSealed, got %v", err)
	}
}
