package predict

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplit(t *testing.T) {
	tests := []struct {
		n         int
		wantTrain int
		wantTest  int
	}{
		{2, 1, 1},
		{5, 4, 1},
		{6, 4, 2},
		{10, 8, 2},
		{11, 8, 3},
	}

	for _, tt := range tests {
		train, test, err := TrainTestSplit(tt.n, 0.2, 42)
		require.NoError(t, err)
		assert.Len(t, train, tt.wantTrain)
		assert.Len(t, test, tt.wantTest)

		all := append(append([]int{}, train...), test...)
		sort.Ints(all)
		for i, v := range all {
			assert.Equal(t, i, v)
		}
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	a, _, err := TrainTestSplit(20, 0.2, 42)
	require.NoError(t, err)
	b, _, err := TrainTestSplit(20, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrainTestSplitTooSmall(t *testing.T) {
	_, _, err := TrainTestSplit(1, 0.2, 42)
	assert.Error(t, err)

	_, _, err = TrainTestSplit(0, 0.2, 42)
	assert.Error(t, err)
}
