package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"glacier_alert/internal/domain"
)

// Dialect captures the differences between the supported databases.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a STORE_DRIVER value to a dialect. The dialect name is
// also the database/sql driver name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	}
	return "", fmt.Errorf("%w: unknown store driver %q", domain.ErrInvalidConfig, s)
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 16)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() []string {
	switch d {
	case MySQL:
		return []string{createTitlesSQL, createSnapshotSQL, createHistoryMySQL}
	case Postgres:
		return []string{createTitlesSQL, createSnapshotSQL, createHistoryPostgres}
	default:
		return []string{createTitlesSQL, createSnapshotSQL, createHistorySQLite}
	}
}

// insertTitles returns the text around a titles VALUES list that leaves
// existing rows untouched.
func (d Dialect) insertTitles() (prefix, suffix string) {
	switch d {
	case MySQL:
		return "INSERT IGNORE INTO titles (namespace, code, title) VALUES ", ""
	case Postgres:
		return insertTitlesPrefix, " ON CONFLICT (namespace, code) DO NOTHING"
	default:
		return "INSERT OR IGNORE INTO titles (namespace, code, title) VALUES ", ""
	}
}
