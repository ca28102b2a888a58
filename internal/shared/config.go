package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	StoreDriver string
	StoreDSN    string
	HistoryCSV  string

	RedisAddr string
	RedisDB   int
	RedisPass string
	LockTTL   time.Duration
	ReportTTL time.Duration

	XanterraBase     string
	XanterraProperty string
	RateCode         string
	BookingURL       string
	FetchRPS         float64
	FetchWorkers     int
	FetchTimeout     time.Duration

	SMTPHost        string
	SMTPPort        int
	MailTimeout     time.Duration
	CredentialsFile string

	Schedule string
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer value")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric value")
		}
		return def
	}
	c := Config{
		AppEnv:   env("APP_ENV", "prod"),
		HTTPAddr: env("HTTP_ADDR", ""),

		StoreDriver: env("STORE_DRIVER", "sqlite"),
		StoreDSN:    env("STORE_DSN", "file:glacier.db?_pragma=busy_timeout(5000)"),
		HistoryCSV:  env("HISTORY_CSV", ""),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		LockTTL:   time.Duration(atoi("LOCK_TTL_SECONDS", 600)) * time.Second,
		ReportTTL: time.Duration(atoi("REPORT_TTL_SECONDS", 7*24*3600)) * time.Second,

		XanterraBase:     env("XANTERRA_BASE_URL", "https://webapi.xanterra.net/v1/api"),
		XanterraProperty: env("XANTERRA_PROPERTY", "glaciernationalparklodges"),
		RateCode:         env("RATE_CODE", "INTERNET"),
		BookingURL:       env("BOOKING_URL", "https://secure.glaciernationalparklodges.com/booking/lodging-select"),
		FetchRPS:         atof("FETCH_RPS", 1),
		FetchWorkers:     atoi("FETCH_WORKERS", 1),
		FetchTimeout:     time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,

		SMTPHost:        env("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        atoi("SMTP_PORT", 587),
		MailTimeout:     time.Duration(atoi("MAIL_TIMEOUT_SECONDS", 30)) * time.Second,
		CredentialsFile: env("CREDENTIALS_FILE", "login.env"),

		Schedule: env("SCHEDULE", "0 * * * *"),
	}
	if c.FetchWorkers < 1 {
		c.FetchWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
