package search

import (
	"sort"

	"github.com/wlattner/fp/dataset"
)

// sortedIndices holds, per column, a permutation of positions into the
// current train-row list sorting that column ascending. Built once per
// search; rebuilt by the decision-list loop after rows are removed.
type sortedIndices [][]int

func mkSortedIndices(ds *dataset.Dataset, trainRows []int) sortedIndices {
	si := make(sortedIndices, ds.Cols())
	for c := range si {
		iv := make([]int, len(trainRows))
		for k := range iv {
			iv[k] = k
		}
		sortPositions(ds, trainRows, c, iv)
		si[c] = iv
	}
	return si
}

// sortPositions orders iv so column col is ascending; ties break on
// position so the order is deterministic across runs.
func sortPositions(ds *dataset.Dataset, trainRows []int, col int, iv []int) {
	sort.Slice(iv, func(a, b int) bool {
		va := ds.Feature(trainRows[iv[a]], col)
		vb := ds.Feature(trainRows[iv[b]], col)
		if va == vb {
			return iv[a] < iv[b]
		}
		return va < vb
	})
}

// columnValues materializes a column in sorted order.
func columnValues(ds *dataset.Dataset, trainRows, iv []int, col int) []float64 {
	vals := make([]float64, len(iv))
	for k, p := range iv {
		vals[k] = ds.Feature(trainRows[p], col)
	}
	return vals
}

// remove drops the given positions from every column's index, preserving
// each column's sort order.
func (si sortedIndices) remove(drop map[int]struct{}) sortedIndices {
	out := make(sortedIndices, len(si))
	for c, iv := range si {
		kept := make([]int, 0, len(iv)-len(drop))
		for _, p := range iv {
			if _, ok := drop[p]; !ok {
				kept = append(kept, p)
			}
		}
		out[c] = kept
	}
	return out
}
