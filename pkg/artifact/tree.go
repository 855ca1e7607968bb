package artifact

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// RegressionTree is a CART-style regressor. Splits minimize the summed
// squared error of the two children; leaves predict the mean target of
// the samples they hold. Nodes are stored as a flat array with index
// links so the fitted tree serializes to stable, language-neutral JSON.
type RegressionTree struct {
	MaxDepth        int `json:"max_depth"`         // 0 => no limit
	MinSamplesSplit int `json:"min_samples_split"` // minimum samples to attempt a split
	MinSamplesLeaf  int `json:"min_samples_leaf"`  // minimum samples required in each leaf
	MaxFeatures     int `json:"max_features"`      // 0 => consider all features per split

	Nodes []TreeNode `json:"nodes"`
}

// TreeNode is one node of the flattened tree. Leaf nodes carry the
// prediction in Value; internal nodes route x[Feature] <= Threshold left.
type TreeNode struct {
	Leaf      bool    `json:"leaf"`
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	N         int     `json:"n"`
}

// Fit trains the tree on the rows of X selected by idx. idx-based
// training lets the forest bootstrap without copying the data.
func (t *RegressionTree) Fit(X [][]float64, y []float64, idx []int, rnd *rand.Rand) error {
	if len(X) == 0 {
		return errors.New("tree: empty X")
	}
	if len(y) != len(X) {
		return errors.New("tree: X and y length mismatch")
	}
	if len(idx) == 0 {
		return errors.New("tree: empty sample index")
	}
	if t.MinSamplesSplit < 2 {
		t.MinSamplesSplit = 2
	}
	if t.MinSamplesLeaf < 1 {
		t.MinSamplesLeaf = 1
	}

	t.Nodes = t.Nodes[:0]
	t.buildNode(X, y, idx, 0, rnd)
	return nil
}

// PredictRow walks the tree for a single encoded row.
func (t *RegressionTree) PredictRow(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	nodeIdx := 0
	for {
		node := &t.Nodes[nodeIdx]
		if node.Leaf {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			nodeIdx = node.Left
		} else {
			nodeIdx = node.Right
		}
	}
}

// buildNode appends the subtree rooted at the given samples and returns
// its node index within t.Nodes.
func (t *RegressionTree) buildNode(X [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) int {
	nodeIdx := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Leaf: true, Value: meanAt(y, idx), N: len(idx)})

	if len(idx) < t.MinSamplesSplit {
		return nodeIdx
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return nodeIdx
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, rnd)
	if !ok {
		return nodeIdx
	}

	leftIdx := make([]int, 0, len(idx))
	rightIdx := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < t.MinSamplesLeaf || len(rightIdx) < t.MinSamplesLeaf {
		return nodeIdx
	}

	left := t.buildNode(X, y, leftIdx, depth+1, rnd)
	right := t.buildNode(X, y, rightIdx, depth+1, rnd)

	// Appends above may have reallocated Nodes; re-index the parent.
	t.Nodes[nodeIdx] = TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      left,
		Right:     right,
		N:         len(idx),
	}
	return nodeIdx
}

// bestSplit scans candidate features for the threshold with the largest
// SSE reduction. A sorted sweep with running sums gives each feature an
// O(n log n) evaluation.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int, rnd *rand.Rand) (int, float64, bool) {
	nFeatures := len(X[idx[0]])
	candidates := t.candidateFeatures(nFeatures, rnd)

	n := float64(len(idx))
	totalSum := 0.0
	totalSumSq := 0.0
	for _, i := range idx {
		totalSum += y[i]
		totalSumSq += y[i] * y[i]
	}
	parentSSE := totalSumSq - totalSum*totalSum/n

	bestFeature := -1
	bestThreshold := 0.0
	bestSSE := parentSSE

	sorted := make([]int, len(idx))
	for _, feature := range candidates {
		copy(sorted, idx)
		f := feature
		sort.Slice(sorted, func(a, b int) bool { return X[sorted[a]][f] < X[sorted[b]][f] })

		leftSum := 0.0
		leftSumSq := 0.0
		for pos := 0; pos < len(sorted)-1; pos++ {
			i := sorted[pos]
			leftSum += y[i]
			leftSumSq += y[i] * y[i]

			// Only split where the feature value actually changes.
			if X[i][f] == X[sorted[pos+1]][f] {
				continue
			}
			leftN := float64(pos + 1)
			rightN := n - leftN
			if int(leftN) < t.MinSamplesLeaf || int(rightN) < t.MinSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq
			sse := (leftSumSq - leftSum*leftSum/leftN) + (rightSumSq - rightSum*rightSum/rightN)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (X[i][f] + X[sorted[pos+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 || !(bestSSE < parentSSE) || math.IsNaN(bestThreshold) {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateFeatures samples MaxFeatures distinct feature indices, or all
// of them when MaxFeatures is 0 or covers the full set.
func (t *RegressionTree) candidateFeatures(nFeatures int, rnd *rand.Rand) []int {
	if t.MaxFeatures <= 0 || t.MaxFeatures >= nFeatures {
		all := make([]int, nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rnd.Perm(nFeatures)
	return perm[:t.MaxFeatures]
}

func meanAt(y []float64, idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}
