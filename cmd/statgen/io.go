package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/locusmap/statgen-core/statgenerr"
	"github.com/locusmap/statgen-core/studylocus"
)

// schemaErr wraps a parse failure as an InputSchema error so main maps
// it onto exit code 2.
func schemaErr(err error) error {
	return statgenerr.NewKindError(statgenerr.InputSchema, err)
}

// readSummaryRecords parses a tab-separated summary-statistics file with
// a header row. Required columns: studyId, variantId, chromosome,
// position, pValueMantissa, pValueExponent, beta, standardError.
// Optional: effectAlleleFrequency, sampleSize. Records are returned in
// file order; the clumper validates the (chromosome, position) sort.
func readSummaryRecords(path string) ([]studylocus.SummaryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, schemaErr(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, schemaErr(fmt.Errorf("read header of %s: %w", path, err))
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"studyId", "variantId", "chromosome", "position", "pValueMantissa", "pValueExponent", "beta", "standardError"} {
		if _, ok := col[required]; !ok {
			return nil, schemaErr(fmt.Errorf("%s: missing required column %q", path, required))
		}
	}

	var records []studylocus.SummaryRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: %w", path, line, err))
		}

		rec := studylocus.SummaryRecord{
			StudyID:    row[col["studyId"]],
			VariantID:  row[col["variantId"]],
			Chromosome: row[col["chromosome"]],
		}
		if rec.Position, err = strconv.ParseInt(row[col["position"]], 10, 64); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: position: %w", path, line, err))
		}
		if rec.PValueMantissa, err = strconv.ParseFloat(row[col["pValueMantissa"]], 64); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: pValueMantissa: %w", path, line, err))
		}
		if rec.PValueExponent, err = strconv.Atoi(row[col["pValueExponent"]]); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: pValueExponent: %w", path, line, err))
		}
		if rec.Beta, err = strconv.ParseFloat(row[col["beta"]], 64); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: beta: %w", path, line, err))
		}
		if rec.StandardError, err = strconv.ParseFloat(row[col["standardError"]], 64); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: standardError: %w", path, line, err))
		}
		if i, ok := col["effectAlleleFrequency"]; ok && row[i] != "" {
			eaf, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, schemaErr(fmt.Errorf("%s line %d: effectAlleleFrequency: %w", path, line, err))
			}
			rec.EffectAlleleFrequency = &eaf
		}
		if i, ok := col["sampleSize"]; ok && row[i] != "" {
			n, err := strconv.Atoi(row[i])
			if err != nil {
				return nil, schemaErr(fmt.Errorf("%s line %d: sampleSize: %w", path, line, err))
			}
			rec.SampleSize = &n
		}
		records = append(records, rec)
	}

	return records, nil
}

// readObservedZ parses a tab-separated (variantId, z) file with a header
// row, the input shape of the impute command.
func readObservedZ(path string) (ids []string, z []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, schemaErr(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, schemaErr(fmt.Errorf("read header of %s: %w", path, err))
	}
	idCol, zCol := -1, -1
	for i, name := range header {
		switch name {
		case "variantId":
			idCol = i
		case "z":
			zCol = i
		}
	}
	if idCol < 0 || zCol < 0 {
		return nil, nil, schemaErr(fmt.Errorf("%s: require columns variantId and z", path))
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, schemaErr(fmt.Errorf("%s line %d: %w", path, line, err))
		}
		v, err := strconv.ParseFloat(row[zCol], 64)
		if err != nil {
			return nil, nil, schemaErr(fmt.Errorf("%s line %d: z: %w", path, line, err))
		}
		ids = append(ids, row[idCol])
		z = append(z, v)
	}

	return ids, z, nil
}

// readStudyLoci parses a JSON-lines file of StudyLocus records.
func readStudyLoci(path string) ([]studylocus.StudyLocus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, schemaErr(err)
	}
	defer f.Close()

	var loci []studylocus.StudyLocus
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var sl studylocus.StudyLocus
		if err := json.Unmarshal(raw, &sl); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: %w", path, line, err))
		}
		loci = append(loci, sl)
	}
	if err := scanner.Err(); err != nil {
		return nil, schemaErr(fmt.Errorf("%s: %w", path, err))
	}
	return loci, nil
}

// readStudyIndex parses a JSON-lines file of StudyIndex records into the
// lookup table CredibleSetQc consumes.
func readStudyIndex(path string) (studylocus.StudyIndexTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, schemaErr(err)
	}
	defer f.Close()

	var studies []studylocus.StudyIndex
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var s studylocus.StudyIndex
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, schemaErr(fmt.Errorf("%s line %d: %w", path, line, err))
		}
		studies = append(studies, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, schemaErr(fmt.Errorf("%s: %w", path, err))
	}
	return studylocus.NewStudyIndexTable(studies), nil
}

// writeJSONLines writes one compact JSON document per element of vs to
// path, creating or truncating it.
func writeJSONLines[T any](path string, vs []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, v := range vs {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
