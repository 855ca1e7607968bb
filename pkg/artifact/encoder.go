package artifact

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/frame"
)

// Encoder is the deterministic column-mapping stage of the pipeline. It
// reproduces the training-time transform exactly: numeric columns are
// standardized with the persisted means/stds, categorical columns are
// one-hot encoded against the persisted vocabulary, boolean columns pass
// through as 0/1. Output column layout is numeric blocks, then one
// one-hot block per categorical column, then booleans.
//
// A category absent from the vocabulary encodes as an all-zero block.
// This mirrors the unknown-ignoring encoder used at training time and is
// never an error; substituting a different fallback would silently shift
// the model's output distribution.
type Encoder struct {
	NumericColumns     []string            `json:"numeric_columns"`
	Means              []float64           `json:"means"`
	Stds               []float64           `json:"stds"`
	CategoricalColumns []string            `json:"categorical_columns"`
	Vocabulary         map[string][]string `json:"vocabulary"`
	BooleanColumns     []string            `json:"boolean_columns"`

	vocabIndex map[string]map[string]int
	indexOnce  sync.Once
}

// Fit learns standardization constants and the categorical vocabulary
// from a training frame. Vocabulary entries are sorted for determinism.
func (e *Encoder) Fit(f *frame.Frame) error {
	rowCount := f.RowCount()
	if rowCount == 0 {
		return fmt.Errorf("cannot fit encoder on an empty frame")
	}

	e.Means = make([]float64, len(e.NumericColumns))
	e.Stds = make([]float64, len(e.NumericColumns))
	for j, colName := range e.NumericColumns {
		sum := 0.0
		for i := 0; i < rowCount; i++ {
			v, err := f.Float(i, colName)
			if err != nil {
				return err
			}
			sum += v
		}
		mean := sum / float64(rowCount)

		variance := 0.0
		for i := 0; i < rowCount; i++ {
			v, _ := f.Float(i, colName)
			d := v - mean
			variance += d * d
		}
		variance /= float64(rowCount)

		e.Means[j] = mean
		e.Stds[j] = math.Sqrt(variance)
		if e.Stds[j] == 0 {
			e.Stds[j] = 1
		}
	}

	e.Vocabulary = make(map[string][]string, len(e.CategoricalColumns))
	for _, colName := range e.CategoricalColumns {
		seen := make(map[string]struct{})
		for i := 0; i < rowCount; i++ {
			v, err := f.String(i, colName)
			if err != nil {
				return err
			}
			seen[v] = struct{}{}
		}
		categories := make([]string, 0, len(seen))
		for v := range seen {
			categories = append(categories, v)
		}
		sort.Strings(categories)
		e.Vocabulary[colName] = categories
	}

	e.vocabIndex = buildVocabIndex(e.Vocabulary)
	return nil
}

// Width is the number of encoded feature columns.
func (e *Encoder) Width() int {
	width := len(e.NumericColumns) + len(e.BooleanColumns)
	for _, colName := range e.CategoricalColumns {
		width += len(e.Vocabulary[colName])
	}
	return width
}

// Transform encodes a frame into the dense matrix the regressor scores.
// Row order is preserved. Pure function of the frame and the fitted state.
func (e *Encoder) Transform(f *frame.Frame) ([][]float64, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	e.ensureIndex()

	rowCount := f.RowCount()
	width := e.Width()
	block := make([]float64, rowCount*width)
	encoded := make([][]float64, rowCount)

	for i := 0; i < rowCount; i++ {
		row := block[i*width : (i+1)*width]
		pos := 0

		for j, colName := range e.NumericColumns {
			v, err := f.Float(i, colName)
			if err != nil {
				return nil, err
			}
			row[pos] = (v - e.Means[j]) / e.Stds[j]
			pos++
		}

		for _, colName := range e.CategoricalColumns {
			v, err := f.String(i, colName)
			if err != nil {
				return nil, err
			}
			blockSize := len(e.Vocabulary[colName])
			// Unknown category: the whole block stays zero.
			if idx, known := e.vocabIndex[colName][v]; known {
				row[pos+idx] = 1
			}
			pos += blockSize
		}

		for _, colName := range e.BooleanColumns {
			v, err := f.Bool(i, colName)
			if err != nil {
				return nil, err
			}
			if v {
				row[pos] = 1
			}
			pos++
		}

		encoded[i] = row
	}
	return encoded, nil
}

// KnowsCategory reports whether a value is in the training vocabulary of
// a categorical column. Used for degraded-confidence telemetry only.
func (e *Encoder) KnowsCategory(columnName, value string) bool {
	e.ensureIndex()
	idx, ok := e.vocabIndex[columnName]
	if !ok {
		return false
	}
	_, known := idx[value]
	return known
}

func (e *Encoder) validate() error {
	if len(e.Means) != len(e.NumericColumns) || len(e.Stds) != len(e.NumericColumns) {
		return fmt.Errorf("encoder has %d numeric columns but %d means and %d stds",
			len(e.NumericColumns), len(e.Means), len(e.Stds))
	}
	for j, std := range e.Stds {
		if std == 0 {
			return fmt.Errorf("encoder has zero std for numeric column %q", e.NumericColumns[j])
		}
	}
	for _, colName := range e.CategoricalColumns {
		if len(e.Vocabulary[colName]) == 0 {
			return fmt.Errorf("encoder has empty vocabulary for categorical column %q", colName)
		}
	}
	return nil
}

// ensureIndex builds the category lookup at most once. Decoded encoders
// arrive without it, and the serving path runs concurrently, so the build
// is Once-guarded: the encoder stays safe to share without locking.
func (e *Encoder) ensureIndex() {
	e.indexOnce.Do(func() {
		if e.vocabIndex == nil {
			e.vocabIndex = buildVocabIndex(e.Vocabulary)
		}
	})
}

func buildVocabIndex(vocabulary map[string][]string) map[string]map[string]int {
	index := make(map[string]map[string]int, len(vocabulary))
	for colName, categories := range vocabulary {
		colIndex := make(map[string]int, len(categories))
		for i, category := range categories {
			colIndex[category] = i
		}
		index[colName] = colIndex
	}
	return index
}
