package artifact

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepData is a one-feature dataset with an obvious split at x=5.
func stepData() ([][]float64, []float64) {
	X := make([][]float64, 10)
	y := make([]float64, 10)
	for i := 0; i < 10; i++ {
		X[i] = []float64{float64(i)}
		if i < 5 {
			y[i] = 10
		} else {
			y[i] = 50
		}
	}
	return X, y
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestRegressionTreeLearnsStep(t *testing.T) {
	X, y := stepData()
	tree := &RegressionTree{}
	require.NoError(t, tree.Fit(X, y, allIndices(len(X)), rand.New(rand.NewSource(1))))

	assert.Equal(t, 10.0, tree.PredictRow([]float64{0}))
	assert.Equal(t, 10.0, tree.PredictRow([]float64{4}))
	assert.Equal(t, 50.0, tree.PredictRow([]float64{5}))
	assert.Equal(t, 50.0, tree.PredictRow([]float64{9}))
}

func TestRegressionTreeConstantTargetIsLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{7, 7, 7}
	tree := &RegressionTree{}
	require.NoError(t, tree.Fit(X, y, allIndices(3), rand.New(rand.NewSource(1))))

	require.Len(t, tree.Nodes, 1)
	assert.True(t, tree.Nodes[0].Leaf)
	assert.Equal(t, 7.0, tree.PredictRow([]float64{100}))
}

func TestRegressionTreeMaxDepth(t *testing.T) {
	X, y := stepData()
	tree := &RegressionTree{MaxDepth: 1}
	require.NoError(t, tree.Fit(X, y, allIndices(len(X)), rand.New(rand.NewSource(1))))

	// One split, two leaves.
	assert.Len(t, tree.Nodes, 3)
}

func TestRegressionTreeFitErrors(t *testing.T) {
	tree := &RegressionTree{}
	rnd := rand.New(rand.NewSource(1))

	assert.Error(t, tree.Fit(nil, nil, nil, rnd))
	assert.Error(t, tree.Fit([][]float64{{1}}, []float64{1, 2}, []int{0}, rnd))
	assert.Error(t, tree.Fit([][]float64{{1}}, []float64{1}, nil, rnd))
}

func TestForestPredictLengthAndOrder(t *testing.T) {
	X, y := stepData()
	rf := NewRandomForestRegressor(WithNEstimators(20), WithRandomState(7))
	require.NoError(t, rf.Fit(X, y))

	out, err := rf.Predict([][]float64{{0}, {9}, {1}})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Less(t, out[0], out[1])
	assert.Less(t, out[2], out[1])
}

func TestForestDeterministicForFixedSeed(t *testing.T) {
	X, y := stepData()

	rf1 := NewRandomForestRegressor(WithNEstimators(10), WithRandomState(42))
	require.NoError(t, rf1.Fit(X, y))
	rf2 := NewRandomForestRegressor(WithNEstimators(10), WithRandomState(42))
	require.NoError(t, rf2.Fit(X, y))

	probe := [][]float64{{2.5}, {7.5}}
	out1, err := rf1.Predict(probe)
	require.NoError(t, err)
	out2, err := rf2.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestForestPredictUnfitted(t *testing.T) {
	rf := NewRandomForestRegressor()
	_, err := rf.Predict([][]float64{{1}})
	assert.Error(t, err)
}

func TestForestJSONRoundTripPreservesPredictions(t *testing.T) {
	X, y := stepData()
	rf := NewRandomForestRegressor(WithNEstimators(5), WithRandomState(3))
	require.NoError(t, rf.Fit(X, y))

	data, err := json.Marshal(rf)
	require.NoError(t, err)

	var restored RandomForestRegressor
	require.NoError(t, json.Unmarshal(data, &restored))

	probe := [][]float64{{0}, {4.9}, {5.1}, {9}}
	want, err := rf.Predict(probe)
	require.NoError(t, err)
	got, err := restored.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestForestPredictionsAreFinite(t *testing.T) {
	X, y := stepData()
	rf := NewRandomForestRegressor(WithNEstimators(10), WithRandomState(1))
	require.NoError(t, rf.Fit(X, y))

	out, err := rf.Predict([][]float64{{1e9}, {-1e9}})
	require.NoError(t, err)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestForestNumFeatures(t *testing.T) {
	X := [][]float64{{0, 1}, {1, 0}, {2, 1}, {3, 0}, {4, 1}, {5, 0}}
	y := []float64{1, 1, 1, 9, 9, 9}
	rf := NewRandomForestRegressor(WithNEstimators(5), WithRandomState(1))
	require.NoError(t, rf.Fit(X, y))

	assert.LessOrEqual(t, rf.NumFeatures(), 2)
	assert.Greater(t, rf.NumFeatures(), 0)
}
