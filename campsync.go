// Package campsync keeps a spreadsheet of camp registrations in step with
// the Campflow API. It polls the registration list, derives one display row
// per team, and reconciles those rows against the sheet, writing only the
// cells that changed plus a paid/unpaid color per row.
package campsync

import (
	"context"
	"time"

	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
	"github.com/zeltlager-spelle/campsync/pkg/rows"
)

// Source is the registration data source: it returns the active (not
// cancelled) attendees of the configured list, plus their raw payloads for
// snapshotting.
type Source interface {
	FetchActive(ctx context.Context) ([]rows.Attendee, []map[string]any, error)
}

// Snapshotter persists raw person payloads between ticks. Optional.
type Snapshotter interface {
	Write(persons []map[string]any) error
}

// Run drives the polling loop until the context is cancelled. The store's
// layout is ensured once up front; a failure there is fatal because nothing
// useful can happen without the header and separator rows. After that every
// error is contained: it is logged and the next tick retries from scratch.
// The last accepted fingerprint only advances after a successful apply, so
// a failed tick never masks changes.
func (s *Syncer) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if err := s.store.Ensure(ctx); err != nil {
		return err
	}

	log.Info().Dur("interval", s.interval).Msg("Polling started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		result, err := s.Tick(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			// One message per failed tick; the loop heals itself on the
			// next successful cycle.
			log.Warn().Err(err).Msg("Tick failed")
		case result.Skipped:
			log.Debug().Int("rows", result.Rows).Msg("Unchanged, skipped")
		default:
			log.Info().
				Int("rows", result.Rows).
				Int("updates", result.Updates).
				Str("changes", result.Summary).
				Msg("Synced")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick runs one fetch → build → reconcile → apply cycle and reports what it
// did. Callers that poll repeatedly should use Run; Tick exists for one-shot
// invocations and tests.
func (s *Syncer) Tick(ctx context.Context) (*Result, error) {
	attendees, raw, err := s.source.FetchActive(ctx)
	if err != nil {
		return nil, err
	}

	s.maybeSnapshot(ctx, raw)

	set, err := rows.Build(attendees)
	if err != nil {
		return nil, err
	}

	fingerprint := set.Fingerprint()
	if fingerprint == s.lastFingerprint {
		return &Result{Rows: len(set), Skipped: true, Fingerprint: fingerprint}, nil
	}

	current, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}

	plan := s.reconciler.Plan(set, current)
	if err := s.store.Apply(ctx, plan.Updates, plan.Colors); err != nil {
		return nil, err
	}
	s.lastFingerprint = fingerprint

	return &Result{
		Rows:        len(set),
		Updates:     len(plan.Updates),
		Colors:      len(plan.Colors),
		Added:       plan.Added,
		Changed:     plan.Changed,
		Removed:     plan.Removed,
		Summary:     plan.Summary(),
		Fingerprint: fingerprint,
	}, nil
}

// maybeSnapshot accumulates polling time and writes a CSV snapshot once
// enough has elapsed. The accumulator is loop state, reset after each
// snapshot; snapshot failures are logged and never fail the tick.
func (s *Syncer) maybeSnapshot(ctx context.Context, raw []map[string]any) {
	if s.snapshotter == nil {
		return
	}

	s.snapshotElapsed += s.interval
	if s.snapshotElapsed < s.snapshotEvery {
		return
	}
	s.snapshotElapsed = 0

	if err := s.snapshotter.Write(raw); err != nil {
		var ioErr *errors.IOError
		log := logging.FromContext(ctx).Warn().Err(err)
		if errors.As(err, &ioErr) {
			log = log.Str("path", ioErr.Path)
		}
		log.Msg("Snapshot failed")
	}
}
