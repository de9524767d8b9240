package search

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wlattner/fp/dataset"
	"github.com/wlattner/fp/tree"
)

// Projection is an axis-aligned box on an ordered pair of columns. For
// classification datasets it carries the class it is pure in and the
// pos/neg counts; for numeric datasets the row count, mean and sum of
// squared errors of the output inside the box.
type Projection struct {
	Att1, Att2         int
	Att1Start, Att1End float64
	Att2Start, Att2End float64

	// classification payload
	Class    int
	Pos, Neg int

	// numeric payload
	Total    int
	Mean     float64
	SumSqErr float64

	classification bool
	indices        []int
}

// IsClassification reports which payload is populated.
func (p *Projection) IsClassification() bool { return p.classification }

// Purity is pos over pos+neg for a classification box.
func (p *Projection) Purity() float64 {
	return float64(p.Pos) / float64(p.Pos+p.Neg)
}

// Support is the number of rows inside the box.
func (p *Projection) Support() int {
	if p.classification {
		return p.Pos + p.Neg
	}
	return p.Total
}

// Indices returns the train-row positions inside the box, nil until the
// box has been materialized.
func (p *Projection) Indices() []int { return p.indices }

func linesOverlap(start1, end1, start2, end2 float64) bool {
	return !(start2 > end1 || end2 < start1)
}

// Overlaps reports whether two boxes are on the same pair of columns
// (and, for classification, the same class) with intersecting ranges on
// both axes.
func (p *Projection) Overlaps(q *Projection) bool {
	if q == nil {
		return false
	}
	if p.classification != q.classification {
		return false
	}
	if p.classification && p.Class != q.Class {
		return false
	}
	if p.Att1 != q.Att1 || p.Att2 != q.Att2 {
		return false
	}
	return linesOverlap(p.Att1Start, p.Att1End, q.Att1Start, q.Att1End) &&
		linesOverlap(p.Att2Start, p.Att2End, q.Att2Start, q.Att2End)
}

// betterThan ranks overlapping boxes: higher purity wins for
// classification (larger support on ties), smaller sum of squared errors
// wins for numeric (larger total on ties).
func (p *Projection) betterThan(q *Projection) bool {
	if p.classification {
		if p.Purity() == q.Purity() {
			return p.Pos+p.Neg > q.Pos+q.Neg
		}
		return p.Purity() > q.Purity()
	}
	if p.SumSqErr == q.SumSqErr {
		return p.Total > q.Total
	}
	return p.SumSqErr < q.SumSqErr
}

func pointWithin(start, end, value float64) bool {
	return value >= start && value <= end
}

// Contains reports whether a dataset row falls inside the box.
func (p *Projection) Contains(ds *dataset.Dataset, row int) bool {
	return pointWithin(p.Att1Start, p.Att1End, ds.Feature(row, p.Att1)) &&
		pointWithin(p.Att2Start, p.Att2End, ds.Feature(row, p.Att2))
}

// applyOn scans rows and returns the box metric over the rows inside it:
// class purity for classification, output mean for numeric. support is
// the number of rows inside.
func (p *Projection) applyOn(ds *dataset.Dataset, rows []int) (metric float64, support int) {
	count := 0
	classCount := 0
	sum := 0.0

	for _, r := range rows {
		if !p.Contains(ds, r) {
			continue
		}
		count++
		if p.classification {
			if int(ds.Output(r)) == p.Class {
				classCount++
			}
		} else {
			sum += ds.Output(r)
		}
	}

	if p.classification {
		return float64(classCount) / float64(count), count
	}
	return sum / float64(count), count
}

// validates applies the box to the holdout rows. Classification boxes
// must reach the purity threshold there; numeric boxes must beat the
// current best mean under the mode (low variance always passes).
func (p *Projection) validates(ds *dataset.Dataset, valRows []int, mode tree.Mode, meanTr, purity float64) bool {
	metric, _ := p.applyOn(ds, valRows)

	if p.classification {
		return metric >= purity
	}
	switch mode {
	case tree.HighMean:
		return metric >= meanTr
	case tree.LowMean:
		return metric <= meanTr
	default:
		return true
	}
}

// findIndex is a bidirectional binary search on a sorted column index:
// the earliest position holding value when lower, the latest otherwise.
func findIndex(ds *dataset.Dataset, trainRows, iv []int, value float64, att int, lower bool) int {
	lb, ub := 0, len(iv)-1
	size := ub

	for lb < ub {
		m := (lb + ub) / 2
		mval := ds.Feature(trainRows[iv[m]], att)

		if mval == value {
			if !lower {
				if m+1 > size {
					return m
				}
				if ds.Feature(trainRows[iv[m+1]], att) > value {
					return m
				}
				lb = m + 1
			} else {
				if m == 0 {
					return m
				}
				if ds.Feature(trainRows[iv[m-1]], att) < value {
					return m
				}
				ub = m - 1
			}
			continue
		}

		if mval > value {
			ub = m - 1
		} else {
			lb = m + 1
		}
	}

	if lb > ub {
		lb = ub
	}
	if lb < 0 {
		lb = 0
	}
	return lb
}

// materialize computes and memoizes the train-row positions inside the
// box: a binary-searched position range per axis, intersected.
func (p *Projection) materialize(ds *dataset.Dataset, trainRows []int, si sortedIndices) {
	if p.indices != nil {
		return
	}

	iv1 := si[p.Att1]
	iv2 := si[p.Att2]

	s1 := findIndex(ds, trainRows, iv1, p.Att1Start, p.Att1, true)
	e1 := findIndex(ds, trainRows, iv1, p.Att1End, p.Att1, false)
	a := append([]int(nil), iv1[s1:e1+1]...)

	s2 := findIndex(ds, trainRows, iv2, p.Att2Start, p.Att2, true)
	e2 := findIndex(ds, trainRows, iv2, p.Att2End, p.Att2, false)
	b := append([]int(nil), iv2[s2:e2+1]...)

	sort.Ints(a)
	sort.Ints(b)
	p.indices = intersect(a, b)
}

// intersect merges two sorted position slices.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// R2 is the coefficient of determination of predicting the box mean for
// the rows inside the box, against the global output mean. The box must
// be materialized.
func (p *Projection) R2(ds *dataset.Dataset, trainRows []int) float64 {
	outs := make([]float64, len(trainRows))
	for i, r := range trainRows {
		outs[i] = ds.Output(r)
	}
	trueMean := stat.Mean(outs, nil)

	var sum, variance float64
	for _, k := range p.indices {
		v := ds.Output(trainRows[k])
		sum += (p.Mean - v) * (p.Mean - v)
		variance += (v - trueMean) * (v - trueMean)
	}

	return 1.0 - sum/variance
}

func (p *Projection) clone() *Projection {
	q := *p
	if p.indices != nil {
		q.indices = append([]int(nil), p.indices...)
	}
	return &q
}
