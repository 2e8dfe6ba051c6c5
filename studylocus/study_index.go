package studylocus

import "strings"

// AncestrySample is a raw discovery-sample entry as reported by the
// source study: a free-text ancestry description and the sample count
// collected under it.
type AncestrySample struct {
	Ancestry   string `json:"ancestry"`
	SampleSize int    `json:"sampleSize"`
}

// StudyIndex describes one study: its identifiers, trait mapping, and the
// discovery samples used by CredibleSetQc's UNKNOWN_STUDY check and by
// ancestry-to-population sample-size aggregation.
type StudyIndex struct {
	StudyID                  string           `json:"studyId"`
	StudyType                string           `json:"studyType"`
	TraitFromSource          string           `json:"traitFromSource"`
	TraitFromSourceMappedIDs []string         `json:"traitFromSourceMappedIds,omitempty"`
	DiscoverySamples         []AncestrySample `json:"discoverySamples,omitempty"`
	HasSumstats              bool             `json:"hasSumstats"`
	QualityControls          []string         `json:"qualityControls,omitempty"`
}

// StudyIndexTable is a lookup of StudyIndex entries by StudyID, the shape
// CredibleSetQc consumes for its UNKNOWN_STUDY check.
type StudyIndexTable map[string]StudyIndex

// NewStudyIndexTable builds a lookup table from a slice of StudyIndex.
func NewStudyIndexTable(studies []StudyIndex) StudyIndexTable {
	t := make(StudyIndexTable, len(studies))
	for _, s := range studies {
		t[s.StudyID] = s
	}
	return t
}

// AncestryPopulationMap maps free-text ancestry strings, as found in GWAS
// Catalog discovery sample descriptions, to the five LD-panel population
// labels. Embedded as a map literal rather than loaded from a file,
// since the core has no ingest-layer file I/O.
var AncestryPopulationMap = map[string]string{
	"European":                           "EUR",
	"African":                            "AFR",
	"African American":                   "AFR",
	"African American or Afro-Caribbean": "AFR",
	"East Asian":                         "EAS",
	"Asian":                              "EAS",
	"South Asian":                        "SAS",
	"South East Asian":                   "SAS",
	"Hispanic or Latin American":         "AMR",
	"Hispanic":                           "AMR",
	"Native American":                    "AMR",
}

// PopulationSample is one (population, sample size) pair produced by
// MapAncestry for a single ancestry token.
type PopulationSample struct {
	Population string
	SampleSize int
}

// MapAncestry splits a comma-separated multi-ancestry string (e.g.
// "European, African, Asian"), maps each token to an LD-panel population
// label via AncestryPopulationMap, and divides sampleSize evenly across
// the tokens using integer division. Tokens with no entry in
// AncestryPopulationMap are omitted from the result.
func MapAncestry(ancestryText string, sampleSize int) []PopulationSample {
	tokens := strings.Split(ancestryText, ",")
	n := len(tokens)
	if n == 0 {
		return nil
	}
	per := sampleSize / n

	var out []PopulationSample
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		pop, ok := AncestryPopulationMap[tok]
		if !ok {
			continue
		}
		out = append(out, PopulationSample{Population: pop, SampleSize: per})
	}
	return out
}
