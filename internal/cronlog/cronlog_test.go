package cronlog

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dropDatabas3/pki2fa/internal/security/totp"
)

const seedHex = "3132333435363738393031323334353637383930313233343536373839303132"

var lineRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - 2FA Code: \d{6}\n$`)

func TestRun_WritesFormattedLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.txt")
	if err := os.WriteFile(path, []byte(seedHex+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	var buf bytes.Buffer
	if err := Run(path, &buf, now); err != nil {
		t.Fatalf("Run err: %v", err)
	}

	line := buf.String()
	if !lineRe.MatchString(line) {
		t.Fatalf("línea con formato inesperado: %q", line)
	}

	sec, err := totp.SecretFromHex(seedHex)
	if err != nil {
		t.Fatal(err)
	}
	want := "2025-03-14 15:09:26 - 2FA Code: " + totp.GenerateAt(sec, now) + "\n"
	if line != want {
		t.Fatalf("línea = %q, want %q", line, want)
	}
}

func TestRun_SkipsSilentlyWithoutSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.txt")
	var buf bytes.Buffer
	if err := Run(path, &buf, time.Now()); err != nil {
		t.Fatalf("seed ausente debe ser skip silencioso, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("no debería escribir nada sin seed: %q", buf.String())
	}
}

func TestRun_LocalTimeIsNormalizedToUTC(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.txt")
	if err := os.WriteFile(path, []byte(seedHex), 0600); err != nil {
		t.Fatal(err)
	}

	loc := time.FixedZone("UTC+5", 5*3600)
	nowLocal := time.Date(2025, 3, 14, 20, 9, 26, 0, loc) // 15:09:26 UTC

	var buf bytes.Buffer
	if err := Run(path, &buf, nowLocal); err != nil {
		t.Fatal(err)
	}
	if got := buf.String()[:19]; got != "2025-03-14 15:09:26" {
		t.Fatalf("timestamp no está en UTC: %q", got)
	}
}
