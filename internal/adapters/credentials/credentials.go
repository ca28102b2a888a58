// Package credentials loads the mail account used to send alerts.
package credentials

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"glacier_alert/internal/domain"
)

// Credentials is an SMTP login. Password is never logged.
type Credentials struct {
	Address  string
	Password string
}

func (c Credentials) String() string { return c.Address + ":***" }

// Load reads ADDRESS and PASSWORD from a dotenv-style file.
func Load(path string) (Credentials, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: read credentials %s: %w", domain.ErrInvalidConfig, path, err)
	}
	c := Credentials{
		Address:  strings.TrimSpace(vals["ADDRESS"]),
		Password: vals["PASSWORD"],
	}
	if c.Address == "" || c.Password == "" {
		return Credentials{}, fmt.Errorf("%w: credentials %s must set ADDRESS and PASSWORD", domain.ErrInvalidConfig, path)
	}
	return c, nil
}
