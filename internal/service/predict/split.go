// internal/service/predict/split.go

package predict

import (
	"fmt"
	"math"
	"math/rand"
)

// TrainTestSplit shuffles n row indexes with a fixed seed and holds out
// ceil(testFraction*n) of them for testing.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("cannot split %d samples", n)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	nTrain := n - nTest
	if nTrain <= 0 {
		return nil, nil, fmt.Errorf("%d samples with test fraction %.2f leave an empty training set", n, testFraction)
	}

	//nolint:gosec // deterministic shuffling is required for reproducible splits
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
