package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"glacier_alert/internal/domain"
)

// Deps are the collaborators a Runner drives. Locker, Reports and History
// are optional.
type Deps struct {
	Fetcher   domain.Fetcher
	Snapshots domain.SnapshotStore
	Titles    *TitleRegistry
	Notifier  domain.Notifier
	Locker    domain.Locker
	Reports   domain.ReportStore
	History   []domain.HistoryStore
}

// RunConfig is the validated per-process run input.
type RunConfig struct {
	Window domain.Window
	Spec   domain.AlertSpec
}

// Runner executes one fetch, diff, notify, persist cycle per call.
type Runner struct {
	deps Deps
	cfg  RunConfig

	now   func() time.Time
	newID func() string

	// codes a catalog refresh has already been tried for
	refreshed map[domain.Namespace]map[string]struct{}

	mu sync.Mutex
}

func NewRunner(deps Deps, cfg RunConfig) *Runner {
	return &Runner{
		deps:  deps,
		cfg:   cfg,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		refreshed: map[domain.Namespace]map[string]struct{}{
			domain.NamespaceHotel: {},
			domain.NamespaceRoom:  {},
		},
	}
}

// RunOnce performs a single cycle. Nothing is persisted unless the cycle
// reaches its end; a notification failure is returned after persistence, with
// the affected tuples left at their previous counts.
func (r *Runner) RunOnce(ctx context.Context) (rep domain.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep = domain.Report{
		RunID:       r.newID(),
		StartedAt:   r.now().UTC(),
		WindowStart: r.cfg.Window.Start.String(),
		WindowEnd:   r.cfg.Window.End.String(),
	}
	logger := log.With().Str("run_id", rep.RunID).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		rep.FinishedAt = r.now().UTC()
		if err != nil {
			rep.Error = err.Error()
		}
		// a run skipped for the lock must not replace the holder's report
		if r.deps.Reports != nil && !errors.Is(err, domain.ErrRunLocked) {
			if serr := r.deps.Reports.SaveReport(context.WithoutCancel(ctx), rep); serr != nil {
				logger.Warn().Err(serr).Msg("save report failed")
			}
		}
	}()

	if r.deps.Locker != nil {
		release, lerr := r.deps.Locker.Acquire(ctx)
		if lerr != nil {
			return rep, lerr
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				logger.Warn().Err(rerr).Msg("release run lock failed")
			}
		}()
	}

	// 1) titles; the hotel list drives the availability fetch
	if err := r.deps.Titles.Load(ctx); err != nil {
		return rep, fmt.Errorf("load titles: %w", err)
	}
	if len(r.deps.Titles.HotelCodes()) == 0 {
		added, err := r.refreshTitles(ctx)
		if err != nil {
			return rep, fmt.Errorf("initial catalog: %w", err)
		}
		rep.TitlesAdded += added
	}
	hotels := r.deps.Titles.HotelCodes()
	if len(hotels) == 0 {
		return rep, domain.ErrNoHotels
	}
	rep.Hotels = len(hotels)

	// 2) fetch
	table, err := r.deps.Fetcher.Availability(ctx, hotels, r.cfg.Window)
	if err != nil {
		return rep, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	rep.Observations = len(table.Observations)
	rep.Failures = table.Failures
	for _, f := range table.Failures {
		ev := logger.Warn().Str("hotel", f.HotelCode).Str("reason", f.Reason)
		if f.Date != nil {
			ev = ev.Str("date", f.Date.String())
		} else if f.RawDate != "" {
			ev = ev.Str("raw_date", f.RawDate)
		}
		ev.Msg("availability excluded from this cycle")
	}
	if failedHotels(table) >= len(hotels) {
		return rep, fmt.Errorf("%w: no hotel returned data", domain.ErrFetchFailed)
	}

	if unknown := r.unknownCodes(table); len(unknown) > 0 {
		for _, e := range unknown {
			r.refreshed[e.Namespace][e.Code] = struct{}{}
		}
		added, terr := r.refreshTitles(ctx)
		if terr != nil {
			logger.Warn().Err(terr).Msg("title refresh failed; raw codes will be shown")
		}
		rep.TitlesAdded += added
	}

	// 3) match + diff
	prior, err := r.deps.Snapshots.LoadSnapshot(ctx)
	if err != nil {
		return rep, fmt.Errorf("load snapshot: %w", err)
	}
	watched := Watch(r.cfg.Spec, table)
	rep.Watched = len(watched)
	res := Diff(table, prior, watched)
	next := res.Snapshot
	for _, e := range res.Events {
		if e.Direction == domain.BecameAvailable {
			rep.Available++
		} else {
			rep.Unavailable++
		}
	}

	// 4) notify before persisting so an undelivered alert is retried next cycle
	var notifyErr error
	if len(res.Events) > 0 {
		n := domain.Notification{RunID: rep.RunID, SentAt: r.now(), Events: r.resolve(res.Events)}
		if nerr := r.deps.Notifier.Notify(ctx, n); nerr != nil {
			notifyErr = fmt.Errorf("%w: %w", domain.ErrNotifyFailed, nerr)
			rep.NotifyError = nerr.Error()
			next = res.Rollback(prior)
			logger.Error().Err(nerr).Int("events", len(res.Events)).Msg("notification failed; transitions kept pending")
		} else {
			rep.Notified = true
		}
	}

	// 5) persist
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	next = next.Prune(r.cfg.Window)
	if err := r.deps.Snapshots.SaveSnapshot(ctx, next); err != nil {
		return rep, errors.Join(fmt.Errorf("save snapshot: %w", err), notifyErr)
	}
	rep.Persisted = true
	rep.SnapshotTuples = len(next)

	for _, h := range r.deps.History {
		if herr := h.AppendHistory(ctx, table.Observations); herr != nil {
			logger.Warn().Err(herr).Msg("append history failed")
		}
	}

	logger.Info().
		Int("observations", rep.Observations).
		Int("watched", rep.Watched).
		Int("became_available", rep.Available).
		Int("became_unavailable", rep.Unavailable).
		Bool("notified", rep.Notified).
		Msg("cycle complete")
	return rep, notifyErr
}

func (r *Runner) refreshTitles(ctx context.Context) (int, error) {
	cat, err := r.deps.Fetcher.Catalog(ctx)
	if err != nil {
		return 0, err
	}
	for _, hr := range UnlistedRooms(r.cfg.Spec, cat) {
		zerolog.Ctx(ctx).Warn().Str("hotel", hr.HotelCode).Strs("rooms", hr.RoomCodes).
			Msg("alert rooms not in the hotel's room list")
	}
	added, err := r.deps.Titles.Merge(ctx, cat.Entries())
	if err != nil {
		return 0, err
	}
	if added > 0 {
		zerolog.Ctx(ctx).Info().Int("added", added).Msg("title registry updated")
	}
	return added, nil
}

// unknownCodes lists codes in t with no title that no earlier refresh in this
// process has tried to resolve.
func (r *Runner) unknownCodes(t domain.Table) []domain.TitleEntry {
	var out []domain.TitleEntry
	check := func(ns domain.Namespace, codes []string) {
		for _, c := range codes {
			if r.deps.Titles.Known(c, ns) {
				continue
			}
			if _, tried := r.refreshed[ns][c]; tried {
				continue
			}
			out = append(out, domain.TitleEntry{Namespace: ns, Code: c})
		}
	}
	check(domain.NamespaceHotel, t.HotelCodes())
	check(domain.NamespaceRoom, t.RoomCodes())
	return out
}

func (r *Runner) resolve(events []domain.TransitionEvent) []domain.ResolvedEvent {
	out := make([]domain.ResolvedEvent, 0, len(events))
	for _, e := range events {
		out = append(out, domain.ResolvedEvent{
			TransitionEvent: e,
			HotelTitle:      r.deps.Titles.Resolve(e.Key.HotelCode, domain.NamespaceHotel),
			RoomTitle:       r.deps.Titles.Resolve(e.Key.RoomCode, domain.NamespaceRoom),
		})
	}
	return out
}

// failedHotels counts hotels whose whole fetch failed.
func failedHotels(t domain.Table) int {
	seen := map[string]struct{}{}
	for _, f := range t.Failures {
		if f.WholeHotel() {
			seen[f.HotelCode] = struct{}{}
		}
	}
	return len(seen)
}
