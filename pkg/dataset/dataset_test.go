package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

const pricingCSV = `Unnamed: 0,model_key,mileage,engine_power,fuel,paint_color,car_type,private_parking_available,has_gps,has_air_conditioning,automatic_car,has_getaround_connect,has_speed_regulator,winter_tires,rental_price_per_day
0,Citroën,140411,100,diesel,black,convertible,True,True,False,False,True,True,True,106
1,Renault,13929,317,petrol,grey,convertible,True,True,False,False,False,True,True,311
2,Peugeot,183297,120,diesel,white,sedan,False,True,False,False,True,False,True,91
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricing.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPricingCSV(t *testing.T) {
	f, targets, skipped, err := LoadPricingCSV(writeCSV(t, pricingCSV))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Equal(t, 3, f.RowCount())
	assert.Equal(t, []float64{106, 311, 91}, targets)

	mileage, err := f.Float(0, schema.ColumnMileage)
	require.NoError(t, err)
	assert.Equal(t, 140411.0, mileage)

	modelKey, err := f.String(1, schema.ColumnModelKey)
	require.NoError(t, err)
	assert.Equal(t, "Renault", modelKey)

	// Pandas-style capitalized booleans parse.
	parking, err := f.Bool(2, schema.ColumnPrivateParkingAvailable)
	require.NoError(t, err)
	assert.False(t, parking)
}

func TestLoadPricingCSVSkipsMalformedRows(t *testing.T) {
	content := pricingCSV +
		"3,Citroën,not-a-number,100,diesel,black,sedan,True,True,True,True,True,True,True,80\n" +
		"4,Citroën,1000,100,diesel,black,sedan,maybe,True,True,True,True,True,True,80\n" +
		"5,Citroën,1000,100,diesel,black,sedan,True,True,True,True,True,True,True,expensive\n"

	f, targets, skipped, err := LoadPricingCSV(writeCSV(t, content))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, 3, f.RowCount())
	assert.Len(t, targets, 3)
}

func TestLoadPricingCSVMissingColumn(t *testing.T) {
	content := "model_key,mileage\nCitroën,140411\n"
	_, _, _, err := LoadPricingCSV(writeCSV(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadPricingCSVNoRows(t *testing.T) {
	_, _, _, err := LoadPricingCSV(writeCSV(t, "model_key,mileage\n"))
	assert.Error(t, err)
}

func TestSplitIndicesDeterministic(t *testing.T) {
	train1, test1 := SplitIndices(100, 0.2, 42)
	train2, test2 := SplitIndices(100, 0.2, 42)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
	assert.Len(t, test1, 20)
	assert.Len(t, train1, 80)

	// Together they cover every index exactly once.
	all := append(append([]int{}, train1...), test1...)
	sort.Ints(all)
	for i, v := range all {
		assert.Equal(t, i, v)
	}
}

func TestSplitIndicesDifferentSeeds(t *testing.T) {
	_, test1 := SplitIndices(100, 0.2, 1)
	_, test2 := SplitIndices(100, 0.2, 2)
	assert.NotEqual(t, test1, test2)
}

func TestSubsetAndSelectTargets(t *testing.T) {
	f, targets, _, err := LoadPricingCSV(writeCSV(t, pricingCSV))
	require.NoError(t, err)

	sub := Subset(f, []int{2, 0})
	require.Equal(t, 2, sub.RowCount())

	modelKey, err := sub.String(0, schema.ColumnModelKey)
	require.NoError(t, err)
	assert.Equal(t, "Peugeot", modelKey)

	mileage, err := sub.Float(1, schema.ColumnMileage)
	require.NoError(t, err)
	assert.Equal(t, 140411.0, mileage)

	assert.Equal(t, []float64{91, 106}, SelectTargets(targets, []int{2, 0}))
}
