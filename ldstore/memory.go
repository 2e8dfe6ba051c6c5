package ldstore

import (
	"fmt"

	"github.com/locusmap/statgen-core/matrix"
	"github.com/locusmap/statgen-core/studylocus"
)

// Memory is a dense, in-memory LdStore backing: an LdVariantIndex over a
// fully materialised *matrix.Dense correlation matrix. Intended for unit
// tests and small loci; Submatrix is a thin wrapper over the
// bounds-checked Dense.Induced extraction.
type Memory struct {
	index *studylocus.LdVariantIndex
	data  *matrix.Dense
}

// NewMemory builds a Memory backing over index and data. data must be
// square with dimension index.Len(); this is not re-validated here since
// the caller constructs both together.
func NewMemory(index *studylocus.LdVariantIndex, data *matrix.Dense) *Memory {
	return &Memory{index: index, data: data}
}

// Lookup satisfies LdStore.
func (m *Memory) Lookup(variantID string) (int, bool) {
	return m.index.Lookup(variantID)
}

// Submatrix satisfies LdStore.
func (m *Memory) Submatrix(idxs []int) (*matrix.Dense, error) {
	if err := validateSorted(idxs); err != nil {
		return nil, fmt.Errorf("ldstore.Memory.Submatrix: %w", err)
	}
	sub, err := m.data.Induced(idxs, idxs)
	if err != nil {
		return nil, fmt.Errorf("ldstore.Memory.Submatrix: %w", err)
	}
	return sub, nil
}
