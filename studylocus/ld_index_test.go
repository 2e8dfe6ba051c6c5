package studylocus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locusmap/statgen-core/studylocus"
)

func testIndex() *studylocus.LdVariantIndex {
	// Deliberately unsorted input: the constructor sorts.
	return studylocus.NewLdVariantIndex([]studylocus.LdIndexEntry{
		{Chromosome: "2", Position: 500, Ref: "G", Alt: "T", Idx: 3},
		{Chromosome: "1", Position: 300, Ref: "C", Alt: "T", Idx: 1},
		{Chromosome: "1", Position: 100, Ref: "A", Alt: "G", Idx: 0},
		{Chromosome: "1", Position: 900, Ref: "A", Alt: "T", Idx: 2},
	})
}

func TestLdVariantIndex_Lookup(t *testing.T) {
	idx := testIndex()

	i, ok := idx.Lookup("1_300_C_T")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = idx.Lookup("1_301_C_T")
	assert.False(t, ok)
}

func TestLdVariantIndex_Window(t *testing.T) {
	idx := testIndex()

	got := idx.Window("1", 100, 300)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].Position)
	assert.Equal(t, int64(300), got[1].Position)

	assert.Empty(t, idx.Window("1", 400, 800))
	assert.Empty(t, idx.Window("3", 0, 1_000_000))

	all := idx.Window("1", 0, 1_000_000)
	require.Len(t, all, 3)
	assert.Equal(t, int64(900), all[2].Position)
}

func TestLdVariantIndex_EntriesSorted(t *testing.T) {
	idx := testIndex()

	entries := idx.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "1", entries[0].Chromosome)
	assert.Equal(t, int64(100), entries[0].Position)
	assert.Equal(t, "2", entries[3].Chromosome)
}
