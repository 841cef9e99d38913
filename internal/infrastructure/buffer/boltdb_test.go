package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "messages.db"), "messages")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatch(t *testing.T) {
	store := openTestStore(t)

	base := time.Now()
	for i, patient := range []string{"patient-1", "patient-2", "patient-3"} {
		err := store.Enqueue(Item{
			PatientID: patient,
			Data:      json.RawMessage(`{"text":"scheduled"}`),
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "patient-1", items[0].PatientID, "replay preserves enqueue order")
	assert.Equal(t, "patient-3", items[2].PatientID)

	for _, item := range items {
		assert.NotEmpty(t, item.ID, "missing ids are assigned on enqueue")
	}
}

func TestGetBatchHonoursLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(Item{
			PatientID: "patient-1",
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	items, err := store.GetBatch(2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{PatientID: "patient-1"}))
	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRequeueMovesItemToTail(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-time.Minute)
	require.NoError(t, store.Enqueue(Item{ID: "a", PatientID: "patient-1", Timestamp: base}))
	require.NoError(t, store.Enqueue(Item{ID: "b", PatientID: "patient-2", Timestamp: base.Add(time.Second)}))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	head := items[0]
	head.Retries++
	require.NoError(t, store.Remove(head))
	require.NoError(t, store.Requeue(head))

	items, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, 1, items[1].Retries)
}

func TestClosedStore(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	assert.Error(t, store.Enqueue(Item{PatientID: "patient-1"}))
}
