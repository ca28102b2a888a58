package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glacier_alert/internal/domain"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "login.env")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	p := write(t, "# mail login\nADDRESS=me@example.com\nPASSWORD=\"app pass word\"\n")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Address != "me@example.com" || c.Password != "app pass word" {
		t.Fatalf("got %+v", c)
	}
	if s := fmt.Sprint(c); strings.Contains(s, "app pass word") {
		t.Fatalf("password leaked in %q", s)
	}
}

func TestLoad_MissingKeys(t *testing.T) {
	p := write(t, "ADDRESS=me@example.com\n")
	if _, err := Load(p); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.env")); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
