package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	week := testutil.NewTestWeek()
	return Snapshot{
		ID:         "snap-1",
		CapturedAt: testutil.FixedNow,
		Week:       week,
		Tasks: []domain.Task{
			testutil.NewTestTask("Scheduled", testutil.WithTaskID("s1"), testutil.WithPlacement(week.Days[2].ID, domain.SwimlaneFocus)),
		},
		Floating: []domain.Task{
			testutil.NewTestTask("Loose", testutil.WithTaskID("f1")),
		},
		Source: SourceLocal,
	}
}

func TestAdapter_SaveLoad(t *testing.T) {
	ctx := context.Background()
	blobs := testutil.NewMemoryBlobStore()
	a := NewAdapter(blobs, nil)

	snap := sampleSnapshot()
	require.NoError(t, a.Save(ctx, snap))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)

	raw, err := blobs.GetBlob(ctx, StorageKey)
	require.NoError(t, err)
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.JSONEq(t, "1", string(env["version"]))
}

func TestAdapter_LoadAbsent(t *testing.T) {
	got, err := NewAdapter(testutil.NewMemoryBlobStore(), nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdapter_LoadTreatsBadDataAsAbsent(t *testing.T) {
	valid, err := json.Marshal(envelope{Version: Version, Snapshot: ptr(sampleSnapshot())})
	require.NoError(t, err)

	short := sampleSnapshot()
	short.Week.Days = short.Week.Days[:3]
	shortRaw, err := json.Marshal(envelope{Version: Version, Snapshot: &short})
	require.NoError(t, err)

	misplaced := sampleSnapshot()
	misplaced.Floating[0].DayID = misplaced.Week.Days[0].ID
	misplacedRaw, err := json.Marshal(envelope{Version: Version, Snapshot: &misplaced})
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"wrong shape", `["a","b"]`},
		{"future version", `{"version":2,"snapshot":` + string(mustField(t, valid, "snapshot")) + `}`},
		{"missing snapshot", `{"version":1}`},
		{"short week", string(shortRaw)},
		{"misplaced task", string(misplacedRaw)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := testutil.NewMemoryBlobStore()
			blobs.Set(StorageKey, []byte(tt.raw))

			got, err := NewAdapter(blobs, nil).Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestAdapter_LoadUnreadableStoreIsAbsent(t *testing.T) {
	blobs := testutil.NewMemoryBlobStore()
	blobs.GetErr = errors.New("permission denied")

	got, err := NewAdapter(blobs, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdapter_LoadCanceled(t *testing.T) {
	blobs := testutil.NewMemoryBlobStore()
	blobs.GetErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter(blobs, nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdapter_SaveFailureIsReported(t *testing.T) {
	blobs := testutil.NewMemoryBlobStore()
	blobs.PutErr = errors.New("quota exceeded")

	err := NewAdapter(blobs, nil).Save(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAdapter_Clear(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(testutil.NewMemoryBlobStore(), nil)

	require.NoError(t, a.Clear(ctx), "clearing nothing is fine")
	require.NoError(t, a.Save(ctx, sampleSnapshot()))
	require.NoError(t, a.Clear(ctx))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshot_ValidateDuplicateIDs(t *testing.T) {
	snap := sampleSnapshot()
	snap.Floating[0].ID = snap.Tasks[0].ID
	assert.Error(t, snap.Validate())
	assert.NoError(t, sampleSnapshot().Validate())
}

func ptr[T any](v T) *T { return &v }

func mustField(t *testing.T, raw []byte, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[field]
}
