package studylocus

import "sort"

// LdIndexEntry is one row of an LdVariantIndex: a variant's coordinates
// together with its row/column offset into the backing LdMatrix.
type LdIndexEntry struct {
	Chromosome string
	Position   int64
	Ref        string
	Alt        string
	Idx        int
}

// VariantID returns the canonical variant identifier for this entry.
func (e LdIndexEntry) VariantID() string {
	return Variant{Chromosome: e.Chromosome, Position: e.Position, ReferenceAllele: e.Ref, AlternateAllele: e.Alt}.ID()
}

// LdVariantIndex is an ordered sequence of LdIndexEntry, sorted by
// (chromosome, position), supporting point lookup by variant id and range
// lookup by genomic window.
type LdVariantIndex struct {
	entries  []LdIndexEntry
	byID     map[string]int
	byChrPos map[string][]int // chromosome -> sorted slice of entry indexes, for window queries
}

// NewLdVariantIndex builds an index over entries, which need not already
// be sorted: it sorts a defensive copy by (chromosome, position) and
// builds the lookup maps used by Lookup and Window.
func NewLdVariantIndex(entries []LdIndexEntry) *LdVariantIndex {
	sorted := make([]LdIndexEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Chromosome != sorted[j].Chromosome {
			return sorted[i].Chromosome < sorted[j].Chromosome
		}
		return sorted[i].Position < sorted[j].Position
	})

	idx := &LdVariantIndex{
		entries:  sorted,
		byID:     make(map[string]int, len(sorted)),
		byChrPos: make(map[string][]int),
	}
	for i, e := range sorted {
		idx.byID[e.VariantID()] = i
		idx.byChrPos[e.Chromosome] = append(idx.byChrPos[e.Chromosome], i)
	}
	return idx
}

// Lookup returns the matrix row/column offset for a variant id, or false
// if it is not present in the panel.
func (idx *LdVariantIndex) Lookup(variantID string) (int, bool) {
	i, ok := idx.byID[variantID]
	if !ok {
		return 0, false
	}
	return idx.entries[i].Idx, true
}

// Window returns the entries on chromosome within [start, end] inclusive,
// ordered by position.
func (idx *LdVariantIndex) Window(chromosome string, start, end int64) []LdIndexEntry {
	positions := idx.byChrPos[chromosome]
	lo := sort.Search(len(positions), func(i int) bool {
		return idx.entries[positions[i]].Position >= start
	})
	var out []LdIndexEntry
	for i := lo; i < len(positions); i++ {
		e := idx.entries[positions[i]]
		if e.Position > end {
			break
		}
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries in the index.
func (idx *LdVariantIndex) Len() int { return len(idx.entries) }

// Entries returns the index's rows ordered by (chromosome, position).
// The returned slice is shared; callers must not mutate it.
func (idx *LdVariantIndex) Entries() []LdIndexEntry { return idx.entries }
