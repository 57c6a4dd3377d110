package campsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	campsync "github.com/zeltlager-spelle/campsync"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/layout"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
	"github.com/zeltlager-spelle/campsync/pkg/rows"
	"github.com/zeltlager-spelle/campsync/pkg/store"
	"github.com/zeltlager-spelle/campsync/pkg/store/memory"
)

// fakeSource serves a mutable attendee list.
type fakeSource struct {
	attendees []rows.Attendee
	raw       []map[string]any
	err       error
	fetches   int
}

func (f *fakeSource) FetchActive(_ context.Context) ([]rows.Attendee, []map[string]any, error) {
	f.fetches++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.attendees, f.raw, nil
}

// flakyStore wraps a memory store and fails Apply on demand.
type flakyStore struct {
	*memory.Store
	failApply bool
}

func (f *flakyStore) Apply(ctx context.Context, updates []store.Update, colors []store.Color) error {
	if f.failApply {
		return errors.WrapStore("apply", errors.New("quota exceeded"))
	}
	return f.Store.Apply(ctx, updates, colors)
}

// recordingSnapshotter counts writes.
type recordingSnapshotter struct {
	writes int
	err    error
}

func (r *recordingSnapshotter) Write(_ []map[string]any) error {
	r.writes++
	return r.err
}

func twoTeams() []rows.Attendee {
	return []rows.Attendee{
		{TeamName: "Falken", Village: "Spelle", CreationDate: "2024-01-02T10:00:00Z"},
		{TeamName: "Adler", Village: "Beesten", CreationDate: "2024-01-01T09:00:00Z", Labels: []string{"Bezahlt"}},
	}
}

func newSyncer(t *testing.T, src campsync.Source, st store.Store, opts ...campsync.Option) *campsync.Syncer {
	t.Helper()
	base := []campsync.Option{
		campsync.WithSource(src),
		campsync.WithStore(st),
		campsync.WithLayout(layout.Layout{Reserved: 72}),
		campsync.WithInterval(time.Millisecond),
	}
	s, err := campsync.New(append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := campsync.New(campsync.WithStore(memory.New()))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = campsync.New(campsync.WithSource(&fakeSource{}))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = campsync.New(
		campsync.WithSource(&fakeSource{}),
		campsync.WithStore(memory.New()),
		campsync.WithInterval(-time.Second),
	)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestTickWritesNewTeams(t *testing.T) {
	src := &fakeSource{attendees: twoTeams()}
	mem := memory.New()
	s := newSyncer(t, src, mem)

	result, err := s.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, 2, result.Updates)
	assert.Equal(t, 2, result.Added)
	assert.False(t, result.Skipped)

	assert.Equal(t, [2]string{"1", "Adler aus Beesten – bestätigt"}, mem.Cells(2))
	assert.Equal(t, [2]string{"2", "Falken aus Spelle – unbestätigt"}, mem.Cells(3))
	require.NotNil(t, mem.ColorOf(2))
	assert.True(t, *mem.ColorOf(2))
	require.NotNil(t, mem.ColorOf(3))
	assert.False(t, *mem.ColorOf(3))
}

func TestTickSkipsWhenUnchanged(t *testing.T) {
	src := &fakeSource{attendees: twoTeams()}
	mem := memory.New()
	s := newSyncer(t, src, mem)
	ctx := context.Background()

	first, err := s.Tick(ctx)
	require.NoError(t, err)
	require.False(t, first.Skipped)

	second, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, 1, mem.Applies(), "skipped tick must not touch the store")
}

func TestTickFailedApplyKeepsFingerprint(t *testing.T) {
	src := &fakeSource{attendees: twoTeams()}
	flaky := &flakyStore{Store: memory.New(), failApply: true}
	s := newSyncer(t, src, flaky)
	ctx := context.Background()

	_, err := s.Tick(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))

	// Store recovers: same data must now be applied, not skipped.
	flaky.failApply = false
	result, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, result.Skipped, "failed apply must not record the fingerprint")
	assert.Equal(t, 2, result.Updates)
}

func TestTickSourceErrorPropagates(t *testing.T) {
	src := &fakeSource{err: errors.WrapSource("persons", errors.New("timeout"))}
	s := newSyncer(t, src, memory.New())

	_, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestTickMalformedRecordFailsWholeCycle(t *testing.T) {
	src := &fakeSource{attendees: []rows.Attendee{
		{TeamName: "Ok", Village: "Spelle", CreationDate: "2024-01-01T00:00:00Z"},
		{TeamName: "Kaputt", Village: "Beesten", CreationDate: "unlesbar"},
	}}
	mem := memory.New()
	s := newSyncer(t, src, mem)

	_, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecord(err))
	assert.Zero(t, mem.Applies(), "a malformed record must not produce partial writes")
}

func TestTickDisappearanceBlanksRow(t *testing.T) {
	src := &fakeSource{attendees: twoTeams()}
	mem := memory.New()
	s := newSyncer(t, src, mem)
	ctx := context.Background()

	_, err := s.Tick(ctx)
	require.NoError(t, err)

	// Falken cancels; only Adler remains.
	src.attendees = twoTeams()[1:]
	result, err := s.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, [2]string{"", ""}, mem.Cells(3))
	assert.Nil(t, mem.ColorOf(3))
	// Adler's row is untouched.
	assert.Equal(t, [2]string{"1", "Adler aus Beesten – bestätigt"}, mem.Cells(2))
}

func TestSnapshotAccumulator(t *testing.T) {
	src := &fakeSource{attendees: nil, raw: []map[string]any{{"id": "per_1"}}}
	snap := &recordingSnapshotter{}
	s := newSyncer(t, src, memory.New(),
		campsync.WithInterval(time.Second),
		campsync.WithSnapshot(snap, 3*time.Second),
	)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := s.Tick(ctx)
		require.NoError(t, err)
	}

	// 7 ticks of 1s with a 3s threshold: snapshots after ticks 3 and 6.
	assert.Equal(t, 2, snap.writes)
}

func TestSnapshotFailureDoesNotFailTick(t *testing.T) {
	src := &fakeSource{attendees: twoTeams()}
	snap := &recordingSnapshotter{err: errors.WrapIO("write", "/nope/campflow.csv", errors.New("read-only fs"))}
	s := newSyncer(t, src, memory.New(),
		campsync.WithSnapshot(snap, 0),
	)

	result, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updates)
	assert.Equal(t, 1, snap.writes)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	src := &fakeSource{attendees: twoTeams()}
	s := newSyncer(t, src, memory.New())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, src.fetches, 1, "loop should have polled repeatedly")
}

func TestRunContainsTickErrors(t *testing.T) {
	src := &fakeSource{err: errors.WrapSource("persons", errors.New("down"))}
	s := newSyncer(t, src, memory.New())

	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, src.fetches, 1, "failed ticks must not stop the loop")
	testLogger.AssertContains(t, "Tick failed")
}
