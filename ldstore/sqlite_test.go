package ldstore_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/studylocus"
)

func TestSQLite_SubmatrixRoundTrip(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/ld.sqlite"

	setup, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	require.NoError(t, ldstore.CreateSchema(setup))
	_, err = setup.Exec(`INSERT INTO ld_pairs (row_idx, col_idx, r) VALUES (0, 1, 0.42), (1, 2, -0.1)`)
	require.NoError(t, err)
	require.NoError(t, setup.Close())

	entries := []studylocus.LdIndexEntry{
		{Chromosome: "2", Position: 10, Ref: "A", Alt: "C", Idx: 0},
		{Chromosome: "2", Position: 20, Ref: "G", Alt: "T", Idx: 1},
		{Chromosome: "2", Position: 30, Ref: "A", Alt: "T", Idx: 2},
	}
	index := studylocus.NewLdVariantIndex(entries)

	store, err := ldstore.OpenSQLite(path, index)
	require.NoError(t, err)
	defer store.Close()

	sub, err := store.Submatrix([]int{0, 1, 2})
	require.NoError(t, err)

	v01, _ := sub.At(0, 1)
	require.InDelta(t, 0.42, v01, 1e-9)
	v10, _ := sub.At(1, 0)
	require.InDelta(t, 0.42, v10, 1e-9)
	v12, _ := sub.At(1, 2)
	require.InDelta(t, -0.1, v12, 1e-9)
	v00, _ := sub.At(0, 0)
	require.Equal(t, 1.0, v00)
	v02, _ := sub.At(0, 2)
	require.Equal(t, 0.0, v02)
}

func TestSQLite_StoredIndexRoundTrip(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/ld.sqlite"

	entries := []studylocus.LdIndexEntry{
		{Chromosome: "1", Position: 100, Ref: "A", Alt: "G", Idx: 0},
		{Chromosome: "1", Position: 250, Ref: "C", Alt: "T", Idx: 1},
	}
	index := studylocus.NewLdVariantIndex(entries)

	setup, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	require.NoError(t, ldstore.CreateSchema(setup))
	require.NoError(t, ldstore.InsertIndex(setup, index))
	_, err = setup.Exec(`INSERT INTO ld_pairs (row_idx, col_idx, r) VALUES (0, 1, 0.8)`)
	require.NoError(t, err)
	require.NoError(t, setup.Close())

	store, err := ldstore.OpenSQLiteStored(path)
	require.NoError(t, err)
	defer store.Close()

	require.Equal(t, 2, store.Index().Len())

	idx, ok := store.Lookup("1_250_C_T")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	_, ok = store.Lookup("1_999_A_G")
	require.False(t, ok)

	sub, err := store.Submatrix([]int{0, 1})
	require.NoError(t, err)
	v01, _ := sub.At(0, 1)
	require.InDelta(t, 0.8, v01, 1e-9)
}
