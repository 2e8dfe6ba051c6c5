package studylocus

import (
	"fmt"
	"strings"
)

// Variant identifies a single genomic variant by chromosome, position and
// alleles. Alleles are uppercase [ACGT]+ strings; the canonical VariantID
// is "chr_pos_ref_alt". Immutable once constructed.
type Variant struct {
	Chromosome      string
	Position        int64
	ReferenceAllele string
	AlternateAllele string
}

// NewVariant constructs a Variant, uppercasing alleles as the ingest layer
// is documented to have already done, but defensively repeated here since
// this is the one place a canonical ID is derived.
func NewVariant(chromosome string, position int64, ref, alt string) Variant {
	return Variant{
		Chromosome:      chromosome,
		Position:        position,
		ReferenceAllele: strings.ToUpper(ref),
		AlternateAllele: strings.ToUpper(alt),
	}
}

// ID returns the canonical "chr_pos_ref_alt" variant identifier.
func (v Variant) ID() string {
	return fmt.Sprintf("%s_%d_%s_%s", v.Chromosome, v.Position, v.ReferenceAllele, v.AlternateAllele)
}

// ReverseComplement returns the reverse complement of an [ACGT]+ allele
// string, used by the harmoniser's palindrome check. Alleles containing
// any non-ACGT character (indel notation, N bases) are passed through
// unchanged.
func ReverseComplement(allele string) string {
	for _, c := range allele {
		switch c {
		case 'A', 'C', 'G', 'T':
		default:
			return allele
		}
	}

	complement := map[byte]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}
	b := make([]byte, len(allele))
	for i := 0; i < len(allele); i++ {
		b[len(allele)-1-i] = complement[allele[i]]
	}
	return string(b)
}

// IsPalindromic reports whether ref and alt are reverse complements of
// each other (e.g. A/T), the case in which strand cannot be disambiguated.
func IsPalindromic(ref, alt string) bool {
	return ref == ReverseComplement(alt)
}
