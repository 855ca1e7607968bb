package artifact

import (
	"errors"
	"math/rand"
	"sync"
)

// RandomForestRegressor averages the predictions of bootstrap-trained
// regression trees. Trees train concurrently; each gets its own seeded
// rand source so a fixed RandomState yields an identical forest.
type RandomForestRegressor struct {
	NEstimators     int   `json:"n_estimators"`
	MaxDepth        int   `json:"max_depth"`
	MinSamplesSplit int   `json:"min_samples_split"`
	MinSamplesLeaf  int   `json:"min_samples_leaf"`
	MaxFeatures     int   `json:"max_features"` // 0 => all features per split
	Bootstrap       bool  `json:"bootstrap"`
	RandomState     int64 `json:"random_state"`

	Trees []*RegressionTree `json:"trees"`
}

// ForestOption is a functional config for RandomForestRegressor.
type ForestOption func(*RandomForestRegressor)

func WithNEstimators(n int) ForestOption {
	return func(rf *RandomForestRegressor) { rf.NEstimators = n }
}

func WithMaxDepth(d int) ForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxDepth = d }
}

func WithMinSamplesSplit(n int) ForestOption {
	return func(rf *RandomForestRegressor) { rf.MinSamplesSplit = n }
}

func WithMinSamplesLeaf(n int) ForestOption {
	return func(rf *RandomForestRegressor) { rf.MinSamplesLeaf = n }
}

func WithMaxFeatures(k int) ForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxFeatures = k }
}

func WithBootstrap(b bool) ForestOption {
	return func(rf *RandomForestRegressor) { rf.Bootstrap = b }
}

func WithRandomState(seed int64) ForestOption {
	return func(rf *RandomForestRegressor) { rf.RandomState = seed }
}

// NewRandomForestRegressor initializes the forest with sensible defaults.
func NewRandomForestRegressor(opts ...ForestOption) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. It uses index-based bootstrap sampling for
// memory efficiency and trains trees in parallel.
func (rf *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}

	rf.Trees = make([]*RegressionTree, rf.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, rf.NEstimators)

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Each goroutine gets its own rand source to avoid contention.
			treeRand := rand.New(rand.NewSource(rf.RandomState + int64(idx)))

			// Bootstrap sampling over indices, not copies of the data.
			sampleIndices := make([]int, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := &RegressionTree{
				MaxDepth:        rf.MaxDepth,
				MinSamplesSplit: rf.MinSamplesSplit,
				MinSamplesLeaf:  rf.MinSamplesLeaf,
				MaxFeatures:     rf.MaxFeatures,
			}
			if err := tree.Fit(X, y, sampleIndices, treeRand); err != nil {
				errCh <- err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}

	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return err
	}
	return nil
}

// Predict returns one averaged prediction per row of X.
func (rf *RandomForestRegressor) Predict(X [][]float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.New("randomforest: not fitted")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		sum := 0.0
		for _, tree := range rf.Trees {
			sum += tree.PredictRow(row)
		}
		out[i] = sum / float64(len(rf.Trees))
	}
	return out, nil
}

// NumFeatures reports the widest feature index referenced by any split,
// plus one. Fully leaf forests report 0 and accept any width.
func (rf *RandomForestRegressor) NumFeatures() int {
	maxFeature := -1
	for _, tree := range rf.Trees {
		for _, node := range tree.Nodes {
			if !node.Leaf && node.Feature > maxFeature {
				maxFeature = node.Feature
			}
		}
	}
	return maxFeature + 1
}
