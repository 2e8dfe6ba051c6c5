// Package clump turns a sorted sequence of per-study summary statistics
// into a sparse set of independent association peaks.
//
// Detection is a single left-to-right sweep per chromosome over the
// genome-wide-significant records; locus collection around each peak
// reuses numkernels.WindowRanks so the surrounding records are found in
// one monotone pass rather than a rescan per peak.
package clump
