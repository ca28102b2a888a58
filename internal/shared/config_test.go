package shared

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"glacier_alert/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FETCH_WORKERS", "0")
	t.Setenv("SMTP_PORT", "not-a-port")

	c := Load()
	if c.StoreDriver != "sqlite" || c.SMTPHost != "smtp.gmail.com" || c.SMTPPort != 587 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.FetchWorkers != 1 || c.FetchRPS != 1 {
		t.Fatalf("fetch settings = %d workers, %v rps", c.FetchWorkers, c.FetchRPS)
	}
	if c.Schedule != "0 * * * *" || c.LockTTL != 10*time.Minute {
		t.Fatalf("schedule/lock = %q %v", c.Schedule, c.LockTTL)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	body := "RATE_CODE=PROMO\nFETCH_RPS=2.5\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RATE_CODE", "")
	os.Unsetenv("RATE_CODE") // t.Setenv restores the previous value
	t.Setenv("FETCH_RPS", "4")

	c := Load()
	if c.RateCode != "PROMO" {
		t.Fatalf("rate code = %q, want value from .env", c.RateCode)
	}
	if c.FetchRPS != 4 {
		t.Fatalf("rps = %v, environment should win over .env", c.FetchRPS)
	}
}

func TestParseArgs(t *testing.T) {
	cfg := Config{CredentialsFile: "login.env", Schedule: "0 * * * *"}
	a, err := ParseArgs([]string{
		"--start_date", "2026-07-01",
		"--end_date", "07/03/2026",
		"--alerts_file", "alerts.json",
		"--recipients", "a@example.com,b@example.com c@example.com",
		"--once",
		"d@example.com",
	}, cfg, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.Window.Days() != 3 {
		t.Fatalf("window = %+v", a.Window)
	}
	if len(a.Recipients) != 4 || a.Recipients[3] != "d@example.com" {
		t.Fatalf("recipients = %v", a.Recipients)
	}
	if !a.Once || a.Credentials != "login.env" || a.Schedule != "0 * * * *" {
		t.Fatalf("args = %+v", a)
	}
}

func TestParseArgs_ScheduleIgnoredWithOnce(t *testing.T) {
	_, err := ParseArgs([]string{
		"--start_date", "2026-07-01", "--end_date", "2026-07-03", "--alerts_file", "a.json",
		"--schedule", "every hour", "--once",
	}, Config{}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseArgs_Invalid(t *testing.T) {
	cases := map[string][]string{
		"missing alerts": {"--start_date", "2026-07-01", "--end_date", "2026-07-03"},
		"bad date":       {"--start_date", "July", "--end_date", "2026-07-03", "--alerts_file", "a.json"},
		"reversed":       {"--start_date", "2026-07-05", "--end_date", "2026-07-03", "--alerts_file", "a.json"},
		"unknown flag":   {"--bogus"},
		"bad schedule":   {"--start_date", "2026-07-01", "--end_date", "2026-07-03", "--alerts_file", "a.json", "--schedule", "every hour"},
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseArgs(argv, Config{}, io.Discard); !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
