package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerfectFit(t *testing.T) {
	yTrue := []float64{10, 20, 30}
	assert.Zero(t, MSE(yTrue, yTrue))
	assert.Zero(t, MAE(yTrue, yTrue))
	assert.Zero(t, RMSE(yTrue, yTrue))
	assert.Equal(t, 1.0, R2(yTrue, yTrue))
}

func TestKnownResiduals(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{2, 2, 2, 2}

	assert.Equal(t, 1.0, MAE(yTrue, yPred))
	assert.InDelta(t, 1.5, MSE(yTrue, yPred), 1e-12)
	assert.InDelta(t, 1.224744871, RMSE(yTrue, yPred), 1e-9)

	// ssRes=6, ssTot=5 around the mean of 2.5.
	assert.InDelta(t, -0.2, R2(yTrue, yPred), 1e-12)
}

func TestR2ConstantTarget(t *testing.T) {
	assert.Zero(t, R2([]float64{5, 5, 5}, []float64{5, 5, 5}))
}
