// internal/service/predict/forest.go

package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestConfig contains the random forest hyperparameters
type ForestConfig struct {
	Trees           int
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 means sqrt of the feature count
	Seed            int64
}

// DefaultForestConfig returns the default forest hyperparameters
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           200,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            42,
	}
}

// Forest is a bootstrap-aggregated ensemble of regression trees
type Forest struct {
	config   ForestConfig
	trees    []*treeNode
	features int
}

// NewForest creates an untrained random forest
func NewForest(config ForestConfig) *Forest {
	if config.Trees <= 0 {
		config.Trees = 1
	}
	if config.MinSamplesLeaf <= 0 {
		config.MinSamplesLeaf = 1
	}
	if config.MinSamplesSplit < 2 {
		config.MinSamplesSplit = 2
	}

	return &Forest{
		config: config,
	}
}

// treeNode is a node of a fitted regression tree. Leaves have no children.
type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) leaf() bool {
	return n.left == nil
}

// Fit trains the forest on x and y
func (f *Forest) Fit(ctx context.Context, x [][]float64, y []float64) error {
	if len(x) == 0 {
		return errors.New("no training samples")
	}
	if len(x) != len(y) {
		return fmt.Errorf("sample count mismatch: %d rows, %d targets", len(x), len(y))
	}

	features := len(x[0])
	if features == 0 {
		return errors.New("no features")
	}
	for i, row := range x {
		if len(row) != features {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), features)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d contains a non-finite value", i)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("target %d is not finite", i)
		}
	}

	maxFeatures := f.config.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > features {
		maxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(features)))))
	}

	//nolint:gosec // deterministic seeding is required for reproducible predictions
	rng := rand.New(rand.NewSource(f.config.Seed))

	trees := make([]*treeNode, 0, f.config.Trees)
	for t := 0; t < f.config.Trees; t++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}

		b := &treeBuilder{
			x:           x,
			y:           y,
			config:      f.config,
			maxFeatures: maxFeatures,
			rng:         rng,
		}
		trees = append(trees, b.grow(sample, 0))
	}

	f.trees = trees
	f.features = features
	return nil
}

// Predict returns the mean tree prediction for each row of x
func (f *Forest) Predict(x [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, errors.New("forest is not fitted")
	}

	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.features {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), f.features)
		}

		var sum float64
		for _, tree := range f.trees {
			sum += predictTree(tree, row)
		}
		out[i] = sum / float64(len(f.trees))
	}

	return out, nil
}

func predictTree(n *treeNode, row []float64) float64 {
	for !n.leaf() {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeBuilder grows a single CART regression tree on a bootstrap sample
type treeBuilder struct {
	x           [][]float64
	y           []float64
	config      ForestConfig
	maxFeatures int
	rng         *rand.Rand
}

func (b *treeBuilder) grow(samples []int, depth int) *treeNode {
	mean, sse := b.stats(samples)
	node := &treeNode{value: mean}

	if len(samples) < b.config.MinSamplesSplit ||
		len(samples) < 2*b.config.MinSamplesLeaf ||
		(b.config.MaxDepth > 0 && depth >= b.config.MaxDepth) ||
		sse <= 1e-12 {
		return node
	}

	feature, threshold, ok := b.bestSplit(samples)
	if !ok {
		return node
	}

	var left, right []int
	for _, s := range samples {
		if b.x[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	node.feature = feature
	node.threshold = threshold
	node.left = b.grow(left, depth+1)
	node.right = b.grow(right, depth+1)
	return node
}

func (b *treeBuilder) stats(samples []int) (mean, sse float64) {
	for _, s := range samples {
		mean += b.y[s]
	}
	mean /= float64(len(samples))
	for _, s := range samples {
		d := b.y[s] - mean
		sse += d * d
	}
	return mean, sse
}

// bestSplit searches a random subset of features for the split that
// minimizes the children's squared error. Constant features do not count
// toward the subset, and the search continues past maxFeatures until a
// valid split is found.
func (b *treeBuilder) bestSplit(samples []int) (feature int, threshold float64, ok bool) {
	order := b.rng.Perm(len(b.x[0]))
	minLeaf := b.config.MinSamplesLeaf

	sorted := make([]int, len(samples))
	bestScore := math.Inf(-1)
	visited := 0

	for _, f := range order {
		if visited >= b.maxFeatures && ok {
			break
		}

		copy(sorted, samples)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})
		if b.x[sorted[0]][f] == b.x[sorted[len(sorted)-1]][f] {
			continue
		}
		visited++

		var total float64
		for _, s := range sorted {
			total += b.y[s]
		}

		var leftSum float64
		n := len(sorted)
		for i := 0; i < n-1; i++ {
			leftSum += b.y[sorted[i]]
			nl := i + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}

			cur, next := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if cur == next {
				continue
			}

			rightSum := total - leftSum
			// Maximizing this proxy minimizes the summed child SSE.
			score := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr)
			if score > bestScore {
				bestScore = score
				feature = f
				threshold = cur + (next-cur)/2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}
