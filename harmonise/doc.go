// Package harmonise reconciles a reported effect (beta or odds ratio)
// against the reference allele, resolving palindromic and strand-flip
// cases, and derives a signed z-score and 95% confidence interval.
//
// The effect scale is decided by the confidence-interval text: a
// direction token ("increase"/"decrease") marks a beta, its absence an
// odds ratio. Palindromic variants are never flipped, since strand
// cannot be disambiguated for them. Harmonise is a pure function over a
// single record; batching and column-wise evaluation are the caller's
// concern.
package harmonise
