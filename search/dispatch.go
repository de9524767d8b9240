package search

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wlattner/fp/dataset"
)

// scan evaluates every column pair (i, j) with i < j and fills the
// feature map. With one worker the pairs run serially; otherwise workers
// repeatedly claim the highest-indexed unclaimed column j and own all
// pairs ending at j, so each tree is touched by exactly one goroutine.
// The abort flag is checked before each pair; on abort nothing is
// published.
func (s *Search) scan(ds *dataset.Dataset, trainRows []int, si sortedIndices, ft *featureTrees, excludeClass int) (*FeatureMap, error) {
	cols := ds.Cols()
	fm := newFeatureMap(cols)

	threshold := s.purity
	if !ft.classification {
		threshold = numericThreshold(ds, trainRows)
	}

	if s.nWorkers < 2 {
		for i := 0; i < cols-1; i++ {
			for j := i + 1; j < cols; j++ {
				if s.aborted.Load() {
					return nil, errors.Wrap(ErrAborted, "scan")
				}
				fm.set(i, j, s.evaluatePair(ds, trainRows, si, ft, i, j, s.support, threshold, excludeClass))
			}
			s.log.Debug().Int("feature", i).Msg("finished all projections containing feature")
		}
		return fm, nil
	}

	claimed := make([]bool, cols)
	var mu sync.Mutex
	var g errgroup.Group

	for w := 0; w < s.nWorkers; w++ {
		g.Go(func() error {
			for {
				mu.Lock()
				j := cols - 1
				for j > 0 && claimed[j] {
					j--
				}
				if j > 0 {
					claimed[j] = true
				}
				mu.Unlock()

				if j == 0 {
					return nil
				}

				for i := j - 1; i >= 0; i-- {
					if s.aborted.Load() {
						return errors.Wrap(ErrAborted, "scan")
					}
					fm.set(i, j, s.evaluatePair(ds, trainRows, si, ft, i, j, s.support, threshold, excludeClass))
				}
				s.log.Debug().Int("feature", j).Msg("finished all projections containing feature")
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fm, nil
}
