package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/frame"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

// LoadPricingCSV reads the historical pricing dataset into a schema frame
// plus the target column. Columns are resolved by header name, so extra
// columns (including the exporter's unnamed index column) are ignored.
// Malformed rows are skipped; the skip count is returned for reporting.
func LoadPricingCSV(path string) (*frame.Frame, []float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, 0, fmt.Errorf("%s has no data rows", path)
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	required := append(schema.AllColumns(), schema.TargetColumn)
	for _, name := range required {
		if _, ok := colIndex[name]; !ok {
			return nil, nil, 0, fmt.Errorf("%s is missing column %q", path, name)
		}
	}

	type parsedRow struct {
		floats  []float64
		strings []string
		bools   []bool
		target  float64
	}

	numericCols := schema.NumericColumns()
	categoricalCols := schema.CategoricalColumns()
	booleanCols := schema.BooleanColumns()

	rows := make([]parsedRow, 0, len(records)-1)
	skipped := 0

	for _, record := range records[1:] {
		row := parsedRow{
			floats:  make([]float64, len(numericCols)),
			strings: make([]string, len(categoricalCols)),
			bools:   make([]bool, len(booleanCols)),
		}
		ok := true

		for j, name := range numericCols {
			v, err := strconv.ParseFloat(record[colIndex[name]], 64)
			if err != nil {
				ok = false
				break
			}
			row.floats[j] = v
		}
		if ok {
			for j, name := range categoricalCols {
				row.strings[j] = record[colIndex[name]]
			}
			for j, name := range booleanCols {
				v, err := parseBool(record[colIndex[name]])
				if err != nil {
					ok = false
					break
				}
				row.bools[j] = v
			}
		}
		if ok {
			v, err := strconv.ParseFloat(record[colIndex[schema.TargetColumn]], 64)
			if err != nil {
				ok = false
			} else {
				row.target = v
			}
		}

		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, skipped, fmt.Errorf("%s has no parseable rows", path)
	}

	f := &frame.Frame{}
	f.InitFrame(len(rows),
		frame.NewColumnIndexMap(numericCols),
		frame.NewColumnIndexMap(categoricalCols),
		frame.NewColumnIndexMap(booleanCols),
	)
	targets := make([]float64, len(rows))
	for i, row := range rows {
		copy(f.Rows[i].FloatData, row.floats)
		copy(f.Rows[i].StringData, row.strings)
		copy(f.Rows[i].BoolData, row.bools)
		targets[i] = row.target
	}
	return f, targets, skipped, nil
}

// parseBool accepts Go booleans plus the capitalized form pandas exports.
func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return strconv.ParseBool(strings.TrimSpace(s))
	}
}

// SplitIndices shuffles row indices with the given seed and splits them
// into train and test sets by ratio.
func SplitIndices(n int, testRatio float64, seed int64) (trainIdx, testIdx []int) {
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	nTest := int(float64(n) * testRatio)
	testIdx = indices[:nTest]
	trainIdx = indices[nTest:]
	return trainIdx, testIdx
}

// Subset copies the selected rows into a new frame, preserving column maps.
func Subset(f *frame.Frame, indices []int) *frame.Frame {
	numericCols := make([]string, len(f.FloatColumnIndexMap))
	for name, col := range f.FloatColumnIndexMap {
		numericCols[col.Index] = name
	}
	stringCols := make([]string, len(f.StringColumnIndexMap))
	for name, col := range f.StringColumnIndexMap {
		stringCols[col.Index] = name
	}
	boolCols := make([]string, len(f.BoolColumnIndexMap))
	for name, col := range f.BoolColumnIndexMap {
		boolCols[col.Index] = name
	}

	out := &frame.Frame{}
	out.InitFrame(len(indices),
		frame.NewColumnIndexMap(numericCols),
		frame.NewColumnIndexMap(stringCols),
		frame.NewColumnIndexMap(boolCols),
	)
	for i, idx := range indices {
		copy(out.Rows[i].FloatData, f.Rows[idx].FloatData)
		copy(out.Rows[i].StringData, f.Rows[idx].StringData)
		copy(out.Rows[i].BoolData, f.Rows[idx].BoolData)
	}
	return out
}

// SelectTargets picks targets for the given row indices.
func SelectTargets(y []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}
