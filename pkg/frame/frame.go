package frame

import "fmt"

// Frame is a columnar batch with typed column groups. Rows keep the order
// in which records were appended; row i of a frame always corresponds to
// prediction i downstream, there is no identifier round-trip.
type Frame struct {
	FloatColumnIndexMap  map[string]Column
	StringColumnIndexMap map[string]Column
	BoolColumnIndexMap   map[string]Column
	Rows                 []Row
}

type Row struct {
	FloatData  []float64
	StringData []string
	BoolData   []bool
}

type Column struct {
	Name  string
	Index int
}

// NewColumnIndexMap builds a Column map preserving the given column order.
func NewColumnIndexMap(names []string) map[string]Column {
	m := make(map[string]Column, len(names))
	for i, name := range names {
		m[name] = Column{Name: name, Index: i}
	}
	return m
}

// InitFrame allocates the row storage. Per-row slices are views into
// big contiguous blocks to keep allocations flat for large batches.
func (f *Frame) InitFrame(rowCount int, floatCols, stringCols, boolCols map[string]Column) {
	floatColCount := len(floatCols)
	stringColCount := len(stringCols)
	boolColCount := len(boolCols)

	rows := make([]Row, rowCount)

	floatDataBlock := make([]float64, rowCount*floatColCount)
	stringDataBlock := make([]string, rowCount*stringColCount)
	boolDataBlock := make([]bool, rowCount*boolColCount)

	for i := 0; i < rowCount; i++ {
		floatStart := i * floatColCount
		stringStart := i * stringColCount
		boolStart := i * boolColCount

		rows[i] = Row{
			FloatData:  floatDataBlock[floatStart : floatStart+floatColCount],
			StringData: stringDataBlock[stringStart : stringStart+stringColCount],
			BoolData:   boolDataBlock[boolStart : boolStart+boolColCount],
		}
	}

	f.FloatColumnIndexMap = floatCols
	f.StringColumnIndexMap = stringCols
	f.BoolColumnIndexMap = boolCols
	f.Rows = rows
}

func (f *Frame) RowCount() int {
	return len(f.Rows)
}

func (f *Frame) SetFloat(rowIndex int, columnName string, value float64) {
	col, ok := f.FloatColumnIndexMap[columnName]
	if !ok || rowIndex >= len(f.Rows) {
		return
	}
	f.Rows[rowIndex].FloatData[col.Index] = value
}

func (f *Frame) SetString(rowIndex int, columnName string, value string) {
	col, ok := f.StringColumnIndexMap[columnName]
	if !ok || rowIndex >= len(f.Rows) {
		return
	}
	f.Rows[rowIndex].StringData[col.Index] = value
}

func (f *Frame) SetBool(rowIndex int, columnName string, value bool) {
	col, ok := f.BoolColumnIndexMap[columnName]
	if !ok || rowIndex >= len(f.Rows) {
		return
	}
	f.Rows[rowIndex].BoolData[col.Index] = value
}

func (f *Frame) Float(rowIndex int, columnName string) (float64, error) {
	col, ok := f.FloatColumnIndexMap[columnName]
	if !ok {
		return 0, fmt.Errorf("frame has no float column %q", columnName)
	}
	if rowIndex >= len(f.Rows) {
		return 0, fmt.Errorf("row index %d out of range (%d rows)", rowIndex, len(f.Rows))
	}
	return f.Rows[rowIndex].FloatData[col.Index], nil
}

func (f *Frame) String(rowIndex int, columnName string) (string, error) {
	col, ok := f.StringColumnIndexMap[columnName]
	if !ok {
		return "", fmt.Errorf("frame has no string column %q", columnName)
	}
	if rowIndex >= len(f.Rows) {
		return "", fmt.Errorf("row index %d out of range (%d rows)", rowIndex, len(f.Rows))
	}
	return f.Rows[rowIndex].StringData[col.Index], nil
}

func (f *Frame) Bool(rowIndex int, columnName string) (bool, error) {
	col, ok := f.BoolColumnIndexMap[columnName]
	if !ok {
		return false, fmt.Errorf("frame has no bool column %q", columnName)
	}
	if rowIndex >= len(f.Rows) {
		return false, fmt.Errorf("row index %d out of range (%d rows)", rowIndex, len(f.Rows))
	}
	return f.Rows[rowIndex].BoolData[col.Index], nil
}

// PopulateFloatData fills a whole column from a values slice, row order preserved.
func (f *Frame) PopulateFloatData(columnToPopulate string, values []float64) {
	col, ok := f.FloatColumnIndexMap[columnToPopulate]
	if !ok {
		return
	}
	for i := 0; i < len(f.Rows) && i < len(values); i++ {
		f.Rows[i].FloatData[col.Index] = values[i]
	}
}

func (f *Frame) PopulateStringData(columnToPopulate string, values []string) {
	col, ok := f.StringColumnIndexMap[columnToPopulate]
	if !ok {
		return
	}
	for i := 0; i < len(f.Rows) && i < len(values); i++ {
		f.Rows[i].StringData[col.Index] = values[i]
	}
}

func (f *Frame) PopulateBoolData(columnToPopulate string, values []bool) {
	col, ok := f.BoolColumnIndexMap[columnToPopulate]
	if !ok {
		return
	}
	for i := 0; i < len(f.Rows) && i < len(values); i++ {
		f.Rows[i].BoolData[col.Index] = values[i]
	}
}
