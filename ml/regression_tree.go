package ml

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TreeParams controls how deep a regression tree grows.
type TreeParams struct {
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 means all features at every split
}

func (p TreeParams) withDefaults() TreeParams {
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	return p
}

// RegressionTree is a CART tree with squared-error splits, stored as a flat
// node slice where children always follow their parent.
type RegressionTree struct {
	params    TreeParams
	rnd       *rand.Rand
	nFeatures int
	nodes     []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

func NewRegressionTree(params TreeParams, seed int64) *RegressionTree {
	return &RegressionTree{
		params: params.withDefaults(),
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// Fit grows the tree on every row of columns.
func (t *RegressionTree) Fit(columns [][]float64, targets []float64) error {
	rows := make([]int, len(targets))
	for i := range rows {
		rows[i] = i
	}
	return t.fitRows(columns, targets, rows)
}

func (t *RegressionTree) fitRows(columns [][]float64, targets []float64, rows []int) error {
	if len(columns) == 0 || len(targets) == 0 || len(rows) == 0 {
		return errors.New("features or targets empty")
	}
	for _, col := range columns {
		if len(col) != len(targets) {
			return errors.New("features and targets size mismatch")
		}
	}
	if t.rnd == nil {
		t.rnd = rand.New(rand.NewSource(0))
	}
	t.params = t.params.withDefaults()
	t.nFeatures = len(columns)
	t.nodes = t.buildNode(columns, targets, rows, 0)
	return nil
}

func (t *RegressionTree) Predict(features []float64) (float64, error) {
	if len(t.nodes) == 0 {
		return 0, ErrNotTrained
	}
	if len(features) != t.nFeatures {
		return 0, ErrFeatureArity
	}
	idx := 0
	for {
		node := t.nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// Depth returns the longest root-to-leaf path, counting edges.
func (t *RegressionTree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	var walk func(idx int) int
	walk = func(idx int) int {
		node := t.nodes[idx]
		if node.IsLeaf {
			return 0
		}
		return 1 + max(walk(node.LeftChild), walk(node.RightChild))
	}
	return walk(0)
}

func (t *RegressionTree) buildNode(columns [][]float64, targets []float64, rows []int, depth int) []TreeNode {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = targets[row]
	}
	leaf := []TreeNode{{
		FeatureIdx: -1,
		LeftChild:  -1,
		RightChild: -1,
		Value:      stat.Mean(values, nil),
		IsLeaf:     true,
	}}

	if (t.params.MaxDepth > 0 && depth >= t.params.MaxDepth) ||
		len(rows) < t.params.MinSamplesSplit ||
		len(rows) < 2*t.params.MinSamplesLeaf ||
		isConstant(values) {
		return leaf
	}

	split, ok := t.findBestSplit(columns, targets, rows)
	if !ok {
		return leaf
	}

	leftRows, rightRows := partitionRows(columns[split.feature], rows, split.threshold)
	if len(leftRows) == 0 || len(rightRows) == 0 {
		return leaf
	}

	leftNodes := t.buildNode(columns, targets, leftRows, depth+1)
	rightNodes := t.buildNode(columns, targets, rightRows, depth+1)

	root := TreeNode{
		FeatureIdx: split.feature,
		Threshold:  split.threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
		Value:      leaf[0].Value,
	}

	nodes := make([]TreeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	nodes = append(nodes, offsetChildren(leftNodes, 1)...)
	nodes = append(nodes, offsetChildren(rightNodes, 1+len(leftNodes))...)
	return nodes
}

type candidateSplit struct {
	feature   int
	threshold float64
	sse       float64
}

// findBestSplit scans every threshold between consecutive distinct values
// of each candidate feature and keeps the lowest summed squared error.
func (t *RegressionTree) findBestSplit(columns [][]float64, targets []float64, rows []int) (candidateSplit, bool) {
	best := candidateSplit{feature: -1, sse: math.Inf(1)}
	minLeaf := t.params.MinSamplesLeaf
	n := len(rows)

	sorted := make([]int, n)
	for _, feature := range t.candidateFeatures(len(columns)) {
		col := columns[feature]
		copy(sorted, rows)
		sort.SliceStable(sorted, func(a, b int) bool { return col[sorted[a]] < col[sorted[b]] })

		var totalSum, totalSq float64
		for _, row := range sorted {
			y := targets[row]
			totalSum += y
			totalSq += y * y
		}

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			y := targets[sorted[i]]
			leftSum += y
			leftSq += y * y

			leftN := i + 1
			rightN := n - leftN
			if leftN < minLeaf || rightN < minLeaf {
				continue
			}
			lo, hi := col[sorted[i]], col[sorted[i+1]]
			if lo == hi {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(leftN)) + (rightSq - rightSum*rightSum/float64(rightN))
			if sse < best.sse {
				threshold := lo + (hi-lo)/2
				if threshold == hi {
					threshold = lo
				}
				best = candidateSplit{feature: feature, threshold: threshold, sse: sse}
			}
		}
	}
	return best, best.feature != -1
}

func (t *RegressionTree) candidateFeatures(n int) []int {
	k := t.params.MaxFeatures
	if k <= 0 || k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return t.rnd.Perm(n)[:k]
}

func partitionRows(col []float64, rows []int, threshold float64) (left, right []int) {
	for _, row := range rows {
		if col[row] <= threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	return left, right
}

func offsetChildren(nodes []TreeNode, offset int) []TreeNode {
	for i := range nodes {
		if !nodes[i].IsLeaf {
			nodes[i].LeftChild += offset
			nodes[i].RightChild += offset
		}
	}
	return nodes
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
