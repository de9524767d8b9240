package search

import (
	"github.com/pkg/errors"

	"github.com/wlattner/fp/dataset"
)

// ClassNuggets greedily peels off the highest-support pure boxes from a
// classification dataset: run the full scan, take the box covering the
// most rows, remove those rows, repeat until no box meets the thresholds.
// Unlike EasyExplain there is no holdout validation.
func (s *Search) ClassNuggets(ds *dataset.Dataset) (*ProjectionList, error) {
	if err := s.validate(ds); err != nil {
		return nil, err
	}
	if !ds.IsClassification() {
		return nil, errors.Wrap(ErrNotClassification, "class nuggets")
	}

	trainRows := seqInts(ds.Rows())
	ia := mkSortedIndices(ds, trainRows)

	var out []*Projection
	var coverage []float64
	tcount := 0

	for {
		if s.aborted.Load() {
			return nil, errors.Wrap(ErrAborted, "class nuggets")
		}
		if len(ia[0]) == 0 {
			break
		}

		ft := s.buildTrees(ds, trainRows, ia)
		fm, err := s.scan(ds, trainRows, ia, ft, -1)
		if err != nil {
			return nil, err
		}

		var winner *Projection
		maxSupport := 0
		for i := 0; i < ds.Cols(); i++ {
			for j := i + 1; j < ds.Cols(); j++ {
				for _, cand := range fm.Projections(i, j) {
					if cand.Pos+cand.Neg > maxSupport {
						maxSupport = cand.Pos + cand.Neg
						winner = cand
					}
				}
			}
		}

		if winner == nil {
			break
		}

		winner.materialize(ds, trainRows, ia)
		s.log.Info().
			Ints("dims", []int{winner.Att1, winner.Att2}).
			Int("class", winner.Class).
			Int("support", winner.Support()).
			Msg("chose nugget")

		ia = ia.remove(positionSet(winner.indices))
		tcount += winner.Support()
		coverage = append(coverage, float64(tcount)/float64(len(trainRows)))
		out = append(out, winner.clone())
	}

	return &ProjectionList{Projections: out, Coverage: coverage}, nil
}

// NuggetsInProjection cleans a found classification box: repeatedly carve
// out the largest perfectly pure box of any *other* class within the
// box's rows until no negative rows remain. Support 2 and purity 1 are
// fixed; the box's own class is excluded.
func (s *Search) NuggetsInProjection(ds *dataset.Dataset, pr *Projection) (*ProjectionList, error) {
	if err := s.validate(ds); err != nil {
		return nil, err
	}
	if !ds.IsClassification() || !pr.IsClassification() {
		return nil, errors.Wrap(ErrNotClassification, "nuggets in projection")
	}

	trainRows := seqInts(ds.Rows())
	if pr.indices == nil {
		pr.materialize(ds, trainRows, mkSortedIndices(ds, trainRows))
	}
	neg := pr.Neg

	// per-column sorted views of only the rows inside the box
	ia := make(sortedIndices, ds.Cols())
	for c := range ia {
		iv := append([]int(nil), pr.indices...)
		sortPositions(ds, trainRows, c, iv)
		ia[c] = iv
	}

	var out []*Projection

	for neg > 0 {
		if s.aborted.Load() {
			return nil, errors.Wrap(ErrAborted, "nuggets in projection")
		}
		if len(ia[0]) == 0 {
			break
		}

		ft := s.buildTrees(ds, trainRows, ia)

		var best *Projection
		maxSum := 0
		for i := 0; i < ds.Cols()-1; i++ {
			for j := i + 1; j < ds.Cols(); j++ {
				for _, cand := range s.evaluatePair(ds, trainRows, ia, ft, i, j, 2, 1.0, pr.Class) {
					if cand.Pos > maxSum {
						maxSum = cand.Pos
						best = cand
					}
				}
			}
		}

		if best == nil {
			break
		}

		best.materialize(ds, trainRows, ia)
		neg -= best.Pos
		s.log.Info().
			Int("class", best.Class).
			Int("carved", best.Pos).
			Int("neg_left", neg).
			Msg("carved nugget from projection")

		ia = ia.remove(positionSet(best.indices))
		out = append(out, best.clone())
	}

	return &ProjectionList{Projections: out}, nil
}
