package totp

import (
	"strings"
	"testing"
	"time"
)

const testSeedHex = "3132333435363738393031323334353637383930313233343536373839303132"

func mustSecret(t *testing.T, hexSeed string) Secret {
	t.Helper()
	s, err := SecretFromHex(hexSeed)
	if err != nil {
		t.Fatalf("SecretFromHex err: %v", err)
	}
	return s
}

func TestGen_HOTPVectors(t *testing.T) {
	t.Parallel()

	// Vectores RFC 4226 Apéndice D (secret ASCII "12345678901234567890")
	key := []byte("12345678901234567890")
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}
	for c, w := range want {
		if got := gen(key, int64(c)); got != w {
			t.Fatalf("gen(counter=%d) = %q, want %q", c, got, w)
		}
	}
}

func TestSecretFromHex_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"valido", testSeedHex, true},
		{"valido con espacios", "  " + testSeedHex + "  ", true},
		{"mayúsculas", strings.ToUpper(testSeedHex), true},
		{"corto", testSeedHex[:62], false},
		{"largo", testSeedHex + "ab", false},
		{"no hex", strings.Replace(testSeedHex, "3", "g", 1), false},
		{"vacío", "", false},
	}
	for _, tc := range cases {
		_, err := SecretFromHex(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("%s: SecretFromHex(%q) err=%v, ok esperado=%v", tc.name, tc.in, err, tc.ok)
		}
	}
}

func TestSecretFromHex_Base32RoundTrip(t *testing.T) {
	t.Parallel()

	// La cadena hex→bytes→base32 no puede alterar la clave HMAC
	s := mustSecret(t, testSeedHex)
	if s.Base32() == "" {
		t.Fatal("Base32 vacío")
	}
	s2 := mustSecret(t, testSeedHex)
	at := time.Unix(1111111109, 0)
	if GenerateAt(s, at) != GenerateAt(s2, at) {
		t.Fatal("derivación no determinística")
	}
}

func TestGenerateAt_Deterministic(t *testing.T) {
	t.Parallel()

	s := mustSecret(t, testSeedHex)
	at := time.Unix(59, 0)
	code := GenerateAt(s, at)
	if len(code) != Digits {
		t.Fatalf("code %q: largo %d, esperado %d", code, len(code), Digits)
	}
	// mismo paso de tiempo (0..29s) => mismo código
	if got := GenerateAt(s, time.Unix(31, 0)); got != code {
		t.Fatalf("códigos distintos dentro del mismo paso: %q vs %q", got, code)
	}
	// paso siguiente => código distinto (colisión improbable con este seed fijo)
	if got := GenerateAt(s, time.Unix(61, 0)); got == code {
		t.Fatalf("código no cambió al cruzar el paso")
	}
}

func TestVerify_Window(t *testing.T) {
	t.Parallel()

	s := mustSecret(t, testSeedHex)
	now := time.Unix(1_700_000_015, 0) // mitad de un paso

	if !Verify(s, GenerateAt(s, now), now, 1) {
		t.Fatal("código actual rechazado")
	}
	if !Verify(s, GenerateAt(s, now.Add(-30*time.Second)), now, 1) {
		t.Fatal("código de t-30s rechazado con window=1")
	}
	if !Verify(s, GenerateAt(s, now.Add(30*time.Second)), now, 1) {
		t.Fatal("código de t+30s rechazado con window=1")
	}
	if Verify(s, GenerateAt(s, now.Add(-61*time.Second)), now, 1) {
		t.Fatal("código de t-61s aceptado fuera de ventana")
	}
	if Verify(s, GenerateAt(s, now.Add(61*time.Second)), now, 1) {
		t.Fatal("código de t+61s aceptado fuera de ventana")
	}
}

func TestVerify_RejectsMalformed(t *testing.T) {
	t.Parallel()

	s := mustSecret(t, testSeedHex)
	now := time.Now()
	for _, code := range []string{"", "12345", "1234567", "abcdef"} {
		if Verify(s, code, now, 1) {
			t.Errorf("Verify aceptó %q", code)
		}
	}
}

func TestRemaining_RangeAndWrap(t *testing.T) {
	t.Parallel()

	for sec := int64(0); sec < 90; sec++ {
		got := Remaining(time.Unix(sec, 0))
		if got < 1 || got > Period {
			t.Fatalf("Remaining(t=%d) = %d fuera de [1,%d]", sec, got, Period)
		}
	}
	// decrece dentro del paso y salta a Period en el borde
	if Remaining(time.Unix(29, 0)) != 1 {
		t.Fatalf("Remaining(29) = %d, esperado 1", Remaining(time.Unix(29, 0)))
	}
	if Remaining(time.Unix(30, 0)) != Period {
		t.Fatalf("Remaining(30) = %d, esperado %d", Remaining(time.Unix(30, 0)), Period)
	}
}

func TestOTPAuthURL(t *testing.T) {
	t.Parallel()

	s := mustSecret(t, testSeedHex)
	u := OTPAuthURL("pki2fa", "student@example.com", s)
	if !strings.HasPrefix(u, "otpauth://totp/") {
		t.Fatalf("URL inesperada: %s", u)
	}
	for _, frag := range []string{"algorithm=SHA1", "digits=6", "period=30", "issuer=pki2fa"} {
		if !strings.Contains(u, frag) {
			t.Errorf("URL sin %q: %s", frag, u)
		}
	}
}
