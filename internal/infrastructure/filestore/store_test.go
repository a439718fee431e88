package filestore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := NewStore(fs, "/data", log)
	require.NoError(t, err)
	return store, fs
}

func TestStore_MissingCollectionIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	var items []record
	err := store.View(context.Background(), func(tx *Tx) error {
		return tx.Load("doctors", &items)
	})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_UpdateWritesPrettyArray(t *testing.T) {
	store, fs := newTestStore(t)

	err := store.Update(context.Background(), func(tx *Tx) error {
		return tx.Save("doctors", []record{{ID: "d1", Name: "Asha"}})
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/data/doctors.json")
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"d1\",\n    \"name\": \"Asha\"\n  }\n]", string(data))

	var items []record
	require.NoError(t, store.View(context.Background(), func(tx *Tx) error {
		return tx.Load("doctors", &items)
	}))
	assert.Equal(t, []record{{ID: "d1", Name: "Asha"}}, items)
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	store, fs := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Update(context.Background(), func(tx *Tx) error {
			return tx.Save("patients", []record{{ID: "p1"}})
		}))
	}

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "patients.json", entries[0].Name())
}

func TestStore_FailedUpdateWritesNothing(t *testing.T) {
	store, fs := newTestStore(t)
	boom := errors.New("boom")

	err := store.Update(context.Background(), func(tx *Tx) error {
		if err := tx.Save("appointments", []record{{ID: "a1"}}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	exists, err := afero.Exists(fs, "/data/appointments.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_TransactionSeesItsOwnWrites(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Update(context.Background(), func(tx *Tx) error {
		if err := tx.Save("users", []record{{ID: "u1"}}); err != nil {
			return err
		}
		var items []record
		if err := tx.Load("users", &items); err != nil {
			return err
		}
		assert.Len(t, items, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_CorruptCollection(t *testing.T) {
	store, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "/data/doctors.json", []byte("{not json"), 0o644))

	var items []record
	err := store.View(context.Background(), func(tx *Tx) error {
		return tx.Load("doctors", &items)
	})

	assert.ErrorIs(t, err, ErrCorruptCollection)
}

func TestStore_BlankFileIsEmpty(t *testing.T) {
	store, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "/data/doctors.json", []byte("  \n"), 0o644))

	var items []record
	err := store.View(context.Background(), func(tx *Tx) error {
		return tx.Load("doctors", &items)
	})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_SaveInViewIsRejected(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.View(context.Background(), func(tx *Tx) error {
		return tx.Save("doctors", []record{})
	})

	assert.ErrorIs(t, err, ErrReadOnlyTransaction)
}

func TestStore_NestedCallsJoinOuterTransaction(t *testing.T) {
	store, fs := newTestStore(t)

	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		// Would deadlock if the nested Update tried to take the lock again.
		return store.Update(ctx, func(tx *Tx) error {
			return tx.Save("doctors", []record{{ID: "d1"}})
		})
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/data/doctors.json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "d1"))
}

func TestStore_CancelledContext(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Update(ctx, func(tx *Tx) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentAppendsAreSerialised(t *testing.T) {
	store, _ := newTestStore(t)
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(context.Background(), func(tx *Tx) error {
				var items []record
				if err := tx.Load("appointments", &items); err != nil {
					return err
				}
				items = append(items, record{ID: "x"})
				return tx.Save("appointments", items)
			})
		}()
	}
	wg.Wait()

	var items []record
	require.NoError(t, store.View(context.Background(), func(tx *Tx) error {
		return tx.Load("appointments", &items)
	}))
	assert.Len(t, items, writers)
}
