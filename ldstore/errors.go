// Package ldstore provides a read-only handle onto a square symmetric LD
// correlation matrix, addressed by variant. LdStore is the interface the
// rest of the core depends on; Memory and SQLite are two concrete
// backings, and only the interface boundary matters to callers.
package ldstore

import "errors"

// ErrVariantNotInPanel marks a variant that has no row/column in the
// backing LdMatrix. Lookup itself reports such a miss by returning false;
// callers wrap this sentinel when they turn the miss into an error.
// Non-fatal: callers flag the affected locus LD_PANEL_INCOMPLETE and skip
// LD-dependent steps.
var ErrVariantNotInPanel = errors.New("ldstore: variant not in panel")

// ErrIndicesNotSorted is returned by Submatrix when idxs are not distinct
// and strictly increasing.
var ErrIndicesNotSorted = errors.New("ldstore: indexes must be distinct and strictly increasing")
