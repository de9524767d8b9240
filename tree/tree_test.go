package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinLeavesPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		n := 20 + rng.Intn(200)
		binSize := 1 + rng.Intn(10)

		vals := make([]float64, n)
		v := 0.0
		for i := range vals {
			// occasional exact duplicates to exercise tie merging
			if i > 0 && rng.Float64() < 0.2 {
				v = vals[i-1]
			} else {
				v += 0.001 + rng.Float64()
			}
			vals[i] = v
		}

		spans := binLeaves(vals, binSize)
		require.NotEmpty(t, spans)

		// leaves partition the positions exactly once, in order
		next := 0
		for k, sp := range spans {
			assert.Equal(t, next, sp.first, "leaf %d should start where the previous ended", k)
			assert.GreaterOrEqual(t, sp.last, sp.first)
			assert.Equal(t, vals[sp.last], sp.cutoff)
			next = sp.last + 1
		}
		assert.Equal(t, n, next, "leaves should cover the whole column")

		// every leaf except the last holds at least binSize positions
		for k, sp := range spans[:len(spans)-1] {
			assert.GreaterOrEqual(t, sp.last-sp.first+1, binSize, "leaf %d too small", k)
		}

		// ties never straddle a boundary
		for k := 1; k < len(spans); k++ {
			gap := vals[spans[k].first] - vals[spans[k-1].last]
			assert.GreaterOrEqual(t, gap, tieEps, "leaf boundary %d splits tied values", k)
		}
	}
}

func TestBinLeavesSingleLeafWhenDegenerate(t *testing.T) {
	// constant column collapses to one leaf regardless of bin size
	vals := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	spans := binLeaves(vals, 2)
	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].first)
	assert.Equal(t, 6, spans[0].last)

	// fewer rows than the bin size
	spans = binLeaves([]float64{1.0}, 5)
	require.Len(t, spans, 1)
}

func TestFindLeaf(t *testing.T) {
	cutoffs := []float64{1, 3, 5, 7, 9}

	assert.Equal(t, 0, findLeaf(cutoffs, 0.5))
	assert.Equal(t, 0, findLeaf(cutoffs, 1))
	assert.Equal(t, 1, findLeaf(cutoffs, 1.5))
	assert.Equal(t, 2, findLeaf(cutoffs, 5))
	assert.Equal(t, 4, findLeaf(cutoffs, 8.1))
	// values beyond the last cutoff land in the last leaf
	assert.Equal(t, 4, findLeaf(cutoffs, 99))
}

func TestMaxMinOf3TieBreak(t *testing.T) {
	// earlier alternative wins: left before right before straddle
	assert.Equal(t, 0, maxOf3(1, 1, 1))
	assert.Equal(t, 0, maxOf3(2, 1, 2))
	assert.Equal(t, 1, maxOf3(1, 2, 2))
	assert.Equal(t, 2, maxOf3(1, 2, 3))

	assert.Equal(t, 0, minOf3(1, 1, 1))
	assert.Equal(t, 0, minOf3(1, 2, 1))
	assert.Equal(t, 1, minOf3(2, 1, 1))
	assert.Equal(t, 2, minOf3(3, 2, 1))
}
