package ldstore

import "github.com/locusmap/statgen-core/matrix"

// LdStore is a read-only handle onto a logical N x N symmetric LD
// correlation matrix, indexed by variant. Implementations must be safe
// for concurrent Lookup and Submatrix calls; no kernel in this module
// mutates shared state.
type LdStore interface {
	// Lookup returns the row/column offset of variant in the backing
	// matrix, or false if it is absent from the panel.
	Lookup(variantID string) (int, bool)

	// Submatrix materialises the dense symmetric NxN block for idxs,
	// which must be distinct and strictly increasing. The diagonal of
	// the result is always 1. Submatrix never fails because an index is
	// missing from the panel (Lookup already filtered those out) — only
	// on a malformed idxs argument or a backing-store I/O error.
	Submatrix(idxs []int) (*matrix.Dense, error)
}

// validateSorted checks the Submatrix precondition shared by every
// backing: idxs distinct and strictly increasing.
func validateSorted(idxs []int) error {
	for i := 1; i < len(idxs); i++ {
		if idxs[i] <= idxs[i-1] {
			return ErrIndicesNotSorted
		}
	}
	return nil
}
