package ldstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/locusmap/statgen-core/matrix"
	"github.com/locusmap/statgen-core/studylocus"
)

// SQLite is a block-sparse LdStore backing: one row per stored
// (row_idx, col_idx, r) triple above the panel's storage threshold.
// Elements not present are implied r=0; the diagonal is always implied
// r=1. Only the LdStore interface is load-bearing for the rest of the
// core — callers never see the physical layout.
type SQLite struct {
	db    *sql.DB
	index *studylocus.LdVariantIndex
}

// OpenSQLite opens (or creates) the block-sparse LD store at path: WAL
// journal mode, a bounded connection pool, and a busy timeout so
// concurrent readers never error out under contention.
func OpenSQLite(path string, index *studylocus.LdVariantIndex) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_sync=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("ldstore.OpenSQLite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 20000",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ldstore.OpenSQLite: pragma %q: %w", p, err)
		}
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &SQLite{db: db, index: index}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Lookup satisfies LdStore.
func (s *SQLite) Lookup(variantID string) (int, bool) {
	return s.index.Lookup(variantID)
}

// Index returns the variant index backing this store.
func (s *SQLite) Index() *studylocus.LdVariantIndex {
	return s.index
}

// Submatrix satisfies LdStore. It issues a single query constrained to
// the requested row/column offsets (the backing store may hold many
// other blocks untouched by this locus) and reconstructs the dense,
// symmetric NxN result with r=0 implied off the stored rows and r=1 on
// the diagonal.
func (s *SQLite) Submatrix(idxs []int) (*matrix.Dense, error) {
	if err := validateSorted(idxs); err != nil {
		return nil, fmt.Errorf("ldstore.SQLite.Submatrix: %w", err)
	}

	n := len(idxs)
	out, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("ldstore.SQLite.Submatrix: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := out.Set(i, i, 1); err != nil {
			return nil, fmt.Errorf("ldstore.SQLite.Submatrix: %w", err)
		}
	}

	if n < 2 {
		return out, nil
	}

	placeholders := make([]interface{}, n)
	inClause := "("
	for i, idx := range idxs {
		if i > 0 {
			inClause += ","
		}
		inClause += "?"
		placeholders[i] = idx
	}
	inClause += ")"

	query := fmt.Sprintf(
		`SELECT row_idx, col_idx, r FROM ld_pairs WHERE row_idx IN %s AND col_idx IN %s`,
		inClause, inClause,
	)
	args := append(append([]interface{}{}, placeholders...), placeholders...)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ldstore.SQLite.Submatrix: query: %w", err)
	}
	defer rows.Close()

	position := make(map[int]int, n)
	for i, idx := range idxs {
		position[idx] = i
	}

	for rows.Next() {
		var rowIdx, colIdx int
		var r float64
		if err := rows.Scan(&rowIdx, &colIdx, &r); err != nil {
			return nil, fmt.Errorf("ldstore.SQLite.Submatrix: scan: %w", err)
		}
		li, lok := position[rowIdx]
		lj, rok := position[colIdx]
		if !lok || !rok {
			continue
		}
		if err := out.Set(li, lj, r); err != nil {
			return nil, fmt.Errorf("ldstore.SQLite.Submatrix: %w", err)
		}
		if li != lj {
			if err := out.Set(lj, li, r); err != nil {
				return nil, fmt.Errorf("ldstore.SQLite.Submatrix: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ldstore.SQLite.Submatrix: %w", err)
	}

	return out, nil
}

// CreateSchema creates the ld_pairs and ld_variants tables backing a
// fresh SQLite LD store, for callers building a panel from scratch (test
// fixtures, the precompute pipeline out of this core's scope).
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ld_pairs (
			row_idx INTEGER NOT NULL,
			col_idx INTEGER NOT NULL,
			r       REAL NOT NULL,
			PRIMARY KEY (row_idx, col_idx)
		);
		CREATE INDEX IF NOT EXISTS idx_ld_pairs_col ON ld_pairs(col_idx);
		CREATE TABLE IF NOT EXISTS ld_variants (
			chromosome TEXT NOT NULL,
			position   INTEGER NOT NULL,
			ref        TEXT NOT NULL,
			alt        TEXT NOT NULL,
			idx        INTEGER NOT NULL PRIMARY KEY
		);
		CREATE INDEX IF NOT EXISTS idx_ld_variants_window ON ld_variants(chromosome, position);
	`)
	if err != nil {
		return fmt.Errorf("ldstore.CreateSchema: %w", err)
	}
	return nil
}

// InsertIndex writes index's entries into the ld_variants table, the
// persistence counterpart of OpenSQLiteStored.
func InsertIndex(db *sql.DB, index *studylocus.LdVariantIndex) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("ldstore.InsertIndex: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO ld_variants (chromosome, position, ref, alt, idx) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ldstore.InsertIndex: %w", err)
	}
	defer stmt.Close()
	for _, e := range index.Entries() {
		if _, err := stmt.Exec(e.Chromosome, e.Position, e.Ref, e.Alt, e.Idx); err != nil {
			tx.Rollback()
			return fmt.Errorf("ldstore.InsertIndex: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ldstore.InsertIndex: %w", err)
	}
	return nil
}

// OpenSQLiteStored opens the block-sparse LD store at path, reading the
// variant index from the ld_variants table inside the same file instead
// of taking one from the caller. This is the form the CLI uses: a single
// self-describing panel file.
func OpenSQLiteStored(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_sync=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("ldstore.OpenSQLiteStored: %w", err)
	}

	entries, err := readStoredIndex(db)
	db.Close()
	if err != nil {
		return nil, fmt.Errorf("ldstore.OpenSQLiteStored: %w", err)
	}

	return OpenSQLite(path, studylocus.NewLdVariantIndex(entries))
}

func readStoredIndex(db *sql.DB) ([]studylocus.LdIndexEntry, error) {
	rows, err := db.Query(`SELECT chromosome, position, ref, alt, idx FROM ld_variants ORDER BY idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []studylocus.LdIndexEntry
	for rows.Next() {
		var e studylocus.LdIndexEntry
		if err := rows.Scan(&e.Chromosome, &e.Position, &e.Ref, &e.Alt, &e.Idx); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
