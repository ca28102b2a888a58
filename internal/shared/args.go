package shared

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/robfig/cron/v3"

	"glacier_alert/internal/domain"
)

// Args are the command-line inputs of one process.
type Args struct {
	Window      domain.Window
	AlertsFile  string
	Recipients  []string
	Credentials string
	HistoryCSV  string
	Once        bool
	Schedule    string
}

// ParseArgs parses argv (without the program name). Defaults come from cfg.
// Positional arguments after the flags are extra recipients.
func ParseArgs(argv []string, cfg Config, stderr io.Writer) (Args, error) {
	fs := flag.NewFlagSet("glacier-alert", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		start, end string
		recipients string
		a          Args
	)
	fs.StringVar(&start, "start_date", "", "first stay date to track (YYYY-MM-DD)")
	fs.StringVar(&end, "end_date", "", "last stay date to track (YYYY-MM-DD)")
	fs.StringVar(&a.AlertsFile, "alerts_file", "", "JSON or YAML file with alert rules")
	fs.StringVar(&recipients, "recipients", "", "extra email recipients, comma or space separated")
	fs.StringVar(&a.Credentials, "credentials", cfg.CredentialsFile, "dotenv file with ADDRESS and PASSWORD")
	fs.StringVar(&a.HistoryCSV, "save_file", cfg.HistoryCSV, "append every fetched row to this CSV file")
	fs.BoolVar(&a.Once, "once", false, "run a single cycle and exit")
	fs.StringVar(&a.Schedule, "schedule", cfg.Schedule, "cron expression for repeated cycles")

	if err := fs.Parse(argv); err != nil {
		return Args{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	if start == "" || end == "" || a.AlertsFile == "" {
		return Args{}, fmt.Errorf("%w: --start_date, --end_date and --alerts_file are required", domain.ErrInvalidConfig)
	}
	sd, err := domain.ParseDate(start)
	if err != nil {
		return Args{}, fmt.Errorf("%w: --start_date: %w", domain.ErrInvalidConfig, err)
	}
	ed, err := domain.ParseDate(end)
	if err != nil {
		return Args{}, fmt.Errorf("%w: --end_date: %w", domain.ErrInvalidConfig, err)
	}
	if a.Window, err = domain.NewWindow(sd, ed); err != nil {
		return Args{}, err
	}

	if !a.Once {
		if _, err := cron.ParseStandard(a.Schedule); err != nil {
			return Args{}, fmt.Errorf("%w: --schedule %q: %w", domain.ErrInvalidConfig, a.Schedule, err)
		}
	}

	a.Recipients = splitRecipients(append([]string{recipients}, fs.Args()...))
	return a, nil
}

func splitRecipients(in []string) []string {
	var out []string
	for _, s := range in {
		for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			out = append(out, f)
		}
	}
	return out
}
