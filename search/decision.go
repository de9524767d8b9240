package search

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/wlattner/fp/dataset"
	"github.com/wlattner/fp/tree"
)

// trackers initialization; candidates must beat these to be considered
const initSqErr = 1e6

// EasyExplain greedily learns a decision list of disjoint boxes covering
// as much of the training data as possible. Each round runs the full pair
// scan on the rows not yet explained, picks the globally best box that
// also holds up on the holdout split, removes its rows and repeats until
// no box is accepted or everything is covered.
func (s *Search) EasyExplain(ds *dataset.Dataset) (*ProjectionList, error) {
	if err := s.validate(ds); err != nil {
		return nil, err
	}

	rows := ds.Rows()
	seq := seqInts(rows)
	rng := rand.New(rand.NewSource(s.seed))
	rng.Shuffle(rows, func(a, b int) { seq[a], seq[b] = seq[b], seq[a] })

	valProp := s.valProp
	if valProp <= 0 || valProp >= 1 {
		s.log.Warn().Float64("val_prop", s.valProp).Msg("validation proportion out of (0,1), using 0.1")
		valProp = 0.1
	}

	trainLen := rows - int(valProp*float64(rows)+0.5)
	trainRows, valRows := seq[:trainLen], seq[trainLen:]
	s.log.Info().Int("train", len(trainRows)).Int("val", len(valRows)).Msg("split rows")

	numeric := !ds.IsClassification()
	ia := mkSortedIndices(ds, trainRows)

	var out []*Projection
	var coverage []float64
	tcount := 0

	for {
		if s.aborted.Load() {
			return nil, errors.Wrap(ErrAborted, "easy explain")
		}
		if len(ia[0]) == 0 {
			break
		}

		ft := s.buildTrees(ds, trainRows, ia)
		fm, err := s.scan(ds, trainRows, ia, ft, -1)
		if err != nil {
			return nil, err
		}

		// greedy pick: the candidate must beat the best seen so far and
		// hold up on the validation rows
		maxSupport := 0
		sqErr := initSqErr
		meanTr := initSqErr
		if s.mode == tree.HighMean {
			meanTr = 0
		}

		var winner *Projection
		for i := 0; i < ds.Cols(); i++ {
			for j := i + 1; j < ds.Cols(); j++ {
				for _, cand := range fm.Projections(i, j) {
					if !beatsTrackers(cand, s.mode, numeric, maxSupport, meanTr, sqErr) {
						continue
					}
					if !cand.validates(ds, valRows, s.mode, meanTr, s.purity) {
						continue
					}
					winner = cand
					if numeric {
						meanTr = cand.Mean
						sqErr = cand.SumSqErr
					} else {
						maxSupport = cand.Pos + cand.Neg
					}
				}
			}
		}

		if winner == nil {
			break
		}

		winner.materialize(ds, trainRows, ia)
		if numeric {
			s.log.Info().
				Ints("dims", []int{winner.Att1, winner.Att2}).
				Float64("mean", winner.Mean).
				Float64("r2", winner.R2(ds, trainRows)).
				Msg("chose projection")
		} else {
			s.log.Info().
				Ints("dims", []int{winner.Att1, winner.Att2}).
				Int("class", winner.Class).
				Float64("purity", winner.Purity()).
				Msg("chose projection")
		}

		ia = ia.remove(positionSet(winner.indices))
		tcount += winner.Support()
		coverage = append(coverage, float64(tcount)/float64(len(trainRows)))
		out = append(out, winner.clone())

		if tcount >= len(trainRows) {
			break
		}
	}

	s.log.Info().
		Int("explained", tcount).
		Int("train", len(trainRows)).
		Msg("easy data explained")

	return &ProjectionList{Projections: out, Coverage: coverage}, nil
}

// beatsTrackers compares a candidate against the running best:
// classification by support, numeric by the mode's criterion.
func beatsTrackers(pr *Projection, mode tree.Mode, numeric bool, maxSupport int, meanTr, sqErr float64) bool {
	if numeric {
		switch mode {
		case tree.HighMean:
			return pr.Mean > meanTr
		case tree.LowMean:
			return pr.Mean < meanTr
		default:
			return pr.SumSqErr < sqErr
		}
	}
	return pr.Pos+pr.Neg > maxSupport
}

func positionSet(positions []int) map[int]struct{} {
	set := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		set[p] = struct{}{}
	}
	return set
}
