package campsync

import (
	"time"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/layout"
	"github.com/zeltlager-spelle/campsync/pkg/reconcile"
	"github.com/zeltlager-spelle/campsync/pkg/store"
)

// Syncer owns the polling loop's state: the collaborators, the poll cadence,
// the last accepted fingerprint, and the snapshot accumulator. It is not
// safe for concurrent use; the loop is deliberately single-threaded.
type Syncer struct {
	source     Source
	store      store.Store
	reconciler *reconcile.Reconciler
	interval   time.Duration

	snapshotter   Snapshotter
	snapshotEvery time.Duration

	lastFingerprint string
	snapshotElapsed time.Duration
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithSource sets the registration data source. Required.
func WithSource(src Source) Option {
	return func(s *Syncer) {
		s.source = src
	}
}

// WithStore sets the destination row store. Required.
func WithStore(st store.Store) Option {
	return func(s *Syncer) {
		s.store = st
	}
}

// WithInterval sets the pause between poll ticks.
func WithInterval(interval time.Duration) Option {
	return func(s *Syncer) {
		s.interval = interval
	}
}

// WithLayout sets the sheet geometry the reconciler maps positions with.
func WithLayout(l layout.Layout) Option {
	return func(s *Syncer) {
		s.reconciler = reconcile.New(l)
	}
}

// WithSnapshot enables periodic CSV snapshots of the raw person payloads.
func WithSnapshot(snap Snapshotter, every time.Duration) Option {
	return func(s *Syncer) {
		s.snapshotter = snap
		s.snapshotEvery = every
	}
}

// New creates a Syncer. Source and store are required; everything else
// defaults to the production setup.
func New(opts ...Option) (*Syncer, error) {
	s := &Syncer{
		reconciler:    reconcile.New(layout.Default()),
		interval:      constants.DefaultPollInterval,
		snapshotEvery: constants.DefaultSnapshotEvery,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		return nil, &errors.ValidationError{Field: "source", Message: "a data source is required"}
	}
	if s.store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "a destination store is required"}
	}
	if s.interval <= 0 {
		return nil, &errors.ValidationError{Field: "interval", Value: s.interval, Message: "poll interval must be positive"}
	}

	return s, nil
}
