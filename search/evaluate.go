package search

import (
	"github.com/wlattner/fp/dataset"
	"github.com/wlattner/fp/tree"
)

// column bundles everything the pair evaluator needs for one feature: its
// sorted values, the segment tree over them (one variant populated), and
// the candidate row intervals when the column drives the sweep.
type column struct {
	clf       *tree.Classifier
	reg       *tree.Regressor
	vals      []float64
	intervals []interval
}

type featureTrees struct {
	cols           []column
	classification bool
}

// buildTrees constructs the per-column trees and interval lists up front.
// Each column's tree is only ever touched by the worker that claimed the
// column, so no locking is needed during the scan.
func (s *Search) buildTrees(ds *dataset.Dataset, trainRows []int, si sortedIndices) *featureTrees {
	ft := &featureTrees{
		classification: ds.IsClassification(),
		cols:           make([]column, ds.Cols()),
	}

	for c := range ft.cols {
		vals := columnValues(ds, trainRows, si[c], c)
		col := column{vals: vals, intervals: mkIntervals(vals, s.binSize)}
		if ft.classification {
			col.clf = tree.NewClassifier(vals, s.binSize, ds.NumClasses())
		} else {
			col.reg = tree.NewRegressor(vals, s.binSize, s.mode)
		}
		ft.cols[c] = col
	}

	return ft
}

func (c *column) resetTree(excludeLeaves bool) {
	if c.clf != nil {
		c.clf.Reset(excludeLeaves)
	} else {
		c.reg.Reset(excludeLeaves)
	}
}

// evaluatePair sweeps the row intervals of column i, streaming the
// corresponding rows into column j's tree, and collects the
// non-overlapping boxes meeting support and threshold. Intervals sharing
// a left boundary reuse the streamed rows: the tree is only cleared and
// the cursor rewound when the boundary moves.
func (s *Search) evaluatePair(ds *dataset.Dataset, trainRows []int, si sortedIndices, ft *featureTrees, i, j, support int, threshold float64, excludeClass int) []*Projection {
	prs := make([]*Projection, 0, 10)

	ivA := si[i]
	colB := &ft.cols[j]

	origM := -1
	k := 0
	for gs, in := range ft.cols[i].intervals {
		m, n := in.m, in.n
		if m != origM {
			origM = m
			if gs > 0 {
				k = 0
				colB.resetTree(false)
			}
		}

		size := n - m + 1
		if size < support {
			continue
		}

		for ; k < size; k++ {
			row := trainRows[ivA[m+k]]
			value := ds.Feature(row, j)
			score := ds.Output(row)
			if ft.classification {
				colB.clf.Insert(value, int(score))
			} else {
				colB.reg.Insert(value, score)
			}
		}

		if ft.classification {
			// best box for each class in turn: that class positive,
			// everything else negative
			for l := 0; l < ds.NumClasses(); l++ {
				if l == excludeClass {
					continue
				}

				colB.clf.SetClass(l)
				colB.clf.Update()

				pos, neg := colB.clf.OptPos(), colB.clf.OptNeg()
				purity := 0.0
				if pos+neg > 0 {
					purity = float64(pos) / float64(pos+neg)
				}
				if pos+neg >= support && purity >= threshold {
					pr := mkClassProjection(ft, i, j, m, n, colB, l, pos, neg)
					prs = mergeProjection(prs, pr)
				}

				colB.clf.Reset(true)
			}
		} else {
			colB.reg.Update()

			total := colB.reg.OptimalN()
			meanProper := true
			switch s.mode {
			case tree.HighMean:
				meanProper = colB.reg.OptimalMean() > threshold
			case tree.LowMean:
				meanProper = colB.reg.OptimalMean() < threshold
			}
			if total >= support && meanProper {
				pr := mkNumericProjection(ft, i, j, m, n, colB)
				prs = mergeProjection(prs, pr)
			}

			colB.reg.Reset(true)
		}
	}

	colB.resetTree(false)

	return prs
}

func mkClassProjection(ft *featureTrees, i, j, m, n int, colB *column, class, pos, neg int) *Projection {
	optStart, optEnd := colB.clf.OptimalRange()
	return &Projection{
		Att1:           i,
		Att2:           j,
		Att1Start:      ft.cols[i].vals[m],
		Att1End:        ft.cols[i].vals[n],
		Att2Start:      colB.vals[optStart],
		Att2End:        colB.vals[optEnd],
		Class:          class,
		Pos:            pos,
		Neg:            neg,
		classification: true,
	}
}

func mkNumericProjection(ft *featureTrees, i, j, m, n int, colB *column) *Projection {
	optStart, optEnd := colB.reg.OptimalRange()
	return &Projection{
		Att1:      i,
		Att2:      j,
		Att1Start: ft.cols[i].vals[m],
		Att1End:   ft.cols[i].vals[n],
		Att2Start: colB.vals[optStart],
		Att2End:   colB.vals[optEnd],
		Total:     colB.reg.OptimalN(),
		Mean:      colB.reg.OptimalMean(),
		SumSqErr:  colB.reg.OptimalSSE(),
	}
}

// mergeProjection funnels a candidate into the result list: the first
// overlapping box it meets decides its fate, keeping whichever of the two
// the comparator prefers. Non-overlapping candidates append.
func mergeProjection(prs []*Projection, pr *Projection) []*Projection {
	for g, qr := range prs {
		if pr.Overlaps(qr) {
			if pr.betterThan(qr) {
				prs[g] = pr
			}
			return prs
		}
	}
	return append(prs, pr)
}
