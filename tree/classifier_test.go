package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brute-force max (pos - neg) over all contiguous position intervals,
// returning the best sum and a witnessing interval
func bruteMaxSum(labels []int, class int) (best float64, start, end int) {
	n := len(labels)
	best = -1e18
	for a := 0; a < n; a++ {
		sum := 0.0
		for b := a; b < n; b++ {
			if labels[b] == class {
				sum++
			} else {
				sum--
			}
			if sum > best {
				best, start, end = sum, a, b
			}
		}
	}
	return best, start, end
}

// With bin size 1 and distinct values, leaves are single positions, so
// the tree optimum must equal the unrestricted maximum-subarray optimum.
func TestClassifierMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 50; trial++ {
		n := 5 + rng.Intn(60)
		arity := 2 + rng.Intn(3)

		vals := make([]float64, n)
		labels := make([]int, n)
		for i := range vals {
			vals[i] = float64(i)
			labels[i] = rng.Intn(arity)
		}

		clf := NewClassifier(vals, 1, arity)
		for i, v := range vals {
			clf.Insert(v, labels[i])
		}

		for class := 0; class < arity; class++ {
			clf.SetClass(class)
			clf.Update()

			want, _, _ := bruteMaxSum(labels, class)
			require.Equal(t, want, clf.OptimalSum(),
				"trial %d class %d: optimal sum disagrees with brute force", trial, class)

			// the reported interval witnesses the optimum
			start, end := clf.OptimalRange()
			require.True(t, 0 <= start && start <= end && end < n)
			sum := 0.0
			pos, neg := 0, 0
			for i := start; i <= end; i++ {
				if labels[i] == class {
					sum++
					pos++
				} else {
					sum--
					neg++
				}
			}
			assert.Equal(t, want, sum, "trial %d class %d: witness interval does not achieve the optimum", trial, class)
			assert.Equal(t, pos, clf.OptPos())
			assert.Equal(t, neg, clf.OptNeg())

			clf.Reset(true)
		}
	}
}

// With larger bins the optimum ranges over contiguous leaf runs; brute
// force on the per-leaf net sums must agree.
func TestClassifierMatchesLeafBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	for trial := 0; trial < 30; trial++ {
		n := 20 + rng.Intn(100)
		binSize := 2 + rng.Intn(6)

		vals := make([]float64, n)
		labels := make([]int, n)
		for i := range vals {
			vals[i] = float64(i)
			labels[i] = rng.Intn(2)
		}

		clf := NewClassifier(vals, binSize, 2)
		for i, v := range vals {
			clf.Insert(v, labels[i])
		}
		clf.SetClass(1)
		clf.Update()

		// per-leaf net sums, then Kadane by exhaustive scan
		spans := binLeaves(vals, binSize)
		nets := make([]float64, len(spans))
		for k, sp := range spans {
			for i := sp.first; i <= sp.last; i++ {
				if labels[i] == 1 {
					nets[k]++
				} else {
					nets[k]--
				}
			}
		}
		best := -1e18
		for a := 0; a < len(nets); a++ {
			sum := 0.0
			for b := a; b < len(nets); b++ {
				sum += nets[b]
				if sum > best {
					best = sum
				}
			}
		}

		require.Equal(t, best, clf.OptimalSum(), "trial %d", trial)
	}
}

func TestClassifierTieBreakPrefersLeft(t *testing.T) {
	// two leaves: left holds one positive, right is empty after loading,
	// so "left only" ties with the straddle and must win
	vals := []float64{0, 1, 2, 3} // bin size 2 -> leaves [0,1], [2,3]
	clf := NewClassifier(vals, 2, 2)

	clf.Insert(0, 1)
	clf.SetClass(1)
	clf.Update()

	assert.Equal(t, 1.0, clf.OptimalSum())
	_, end := clf.OptimalRange()
	assert.Equal(t, 1, end, "tie between left and straddle should resolve to the left interval")
}

func TestClassifierResetPreservesHistograms(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4, 5}
	clf := NewClassifier(vals, 2, 2)

	for i, v := range vals {
		clf.Insert(v, i%2)
	}

	clf.SetClass(1)
	clf.Update()
	first := clf.OptimalSum()
	pos, neg := clf.OptPos(), clf.OptNeg()

	// clearing inner state must not lose the inserted rows
	clf.Reset(true)
	clf.SetClass(1)
	clf.Update()

	assert.Equal(t, first, clf.OptimalSum())
	assert.Equal(t, pos, clf.OptPos())
	assert.Equal(t, neg, clf.OptNeg())

	// a full reset drops them
	clf.Reset(false)
	clf.SetClass(1)
	clf.Update()
	assert.Equal(t, 0, clf.OptPos()+clf.OptNeg())
}

func TestClassifierPerClassReuse(t *testing.T) {
	// one loaded tree answers for each class in turn
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	clf := NewClassifier(vals, 2, 2)

	// first half class 0, second half class 1
	for i, v := range vals {
		label := 0
		if i >= 4 {
			label = 1
		}
		clf.Insert(v, label)
	}

	clf.SetClass(0)
	clf.Update()
	assert.Equal(t, 4, clf.OptPos())
	assert.Equal(t, 0, clf.OptNeg())
	start, end := clf.OptimalRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
	clf.Reset(true)

	clf.SetClass(1)
	clf.Update()
	assert.Equal(t, 4, clf.OptPos())
	assert.Equal(t, 0, clf.OptNeg())
	start, end = clf.OptimalRange()
	assert.Equal(t, 4, start)
	assert.Equal(t, 7, end)
}

func TestClassifierDuplicateValuesShareLeaf(t *testing.T) {
	// duplicates at a bin boundary extend the bin
	vals := []float64{0, 1, 1, 1, 2, 3}
	clf := NewClassifier(vals, 2, 2)

	require.GreaterOrEqual(t, len(clf.leaves), 2)
	assert.Equal(t, 3, clf.leaves[0].last, "tied values must stay in one leaf")
}
