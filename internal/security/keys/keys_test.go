package keys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	privPath := filepath.Join(dir, "student_private.pem")
	pubPath := filepath.Join(dir, "student_public.pem")

	priv, err := Generate(2048)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if err := SavePrivateKey(privPath, priv); err != nil {
		t.Fatalf("SavePrivateKey err: %v", err)
	}
	if err := SavePublicKey(pubPath, &priv.PublicKey); err != nil {
		t.Fatalf("SavePublicKey err: %v", err)
	}

	gotPriv, err := LoadPrivateKey(privPath)
	if err != nil {
		t.Fatalf("LoadPrivateKey err: %v", err)
	}
	if gotPriv.N.Cmp(priv.N) != 0 || gotPriv.E != priv.E {
		t.Fatal("clave privada no coincide tras round-trip")
	}

	gotPub, err := LoadPublicKey(pubPath)
	if err != nil {
		t.Fatalf("LoadPublicKey err: %v", err)
	}
	if gotPub.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatal("clave pública no coincide tras round-trip")
	}
}

func TestLoadPair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	privPath := filepath.Join(dir, "priv.pem")
	pubPath := filepath.Join(dir, "pub.pem")

	priv, err := Generate(2048)
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if err := SavePrivateKey(privPath, priv); err != nil {
		t.Fatal(err)
	}
	if err := SavePublicKey(pubPath, &priv.PublicKey); err != nil {
		t.Fatal(err)
	}

	// instructor ausente => nil, sin error
	kp, err := LoadPair(privPath, pubPath, filepath.Join(dir, "missing.pem"))
	if err != nil {
		t.Fatalf("LoadPair err: %v", err)
	}
	if kp.Private == nil || kp.Public == nil {
		t.Fatal("par incompleto")
	}
	if kp.Instructor != nil {
		t.Fatal("instructor debería ser nil si el archivo no existe")
	}

	// pública ausente => se deriva de la privada
	kp2, err := LoadPair(privPath, filepath.Join(dir, "missing_pub.pem"), "")
	if err != nil {
		t.Fatalf("LoadPair err: %v", err)
	}
	if kp2.Public.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatal("pública derivada no coincide")
	}
}

func TestLoadPrivateKey_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := LoadPrivateKey(filepath.Join(dir, "nope.pem")); err == nil {
		t.Fatal("esperado error con archivo inexistente")
	}

	bad := filepath.Join(dir, "bad.pem")
	if err := os.WriteFile(bad, []byte("esto no es un PEM"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPrivateKey(bad); err == nil {
		t.Fatal("esperado error con contenido no-PEM")
	}
}
