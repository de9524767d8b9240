// Package search exhaustively scans every ordered pair of numeric columns
// for axis-aligned projection boxes that are statistically interesting
// with respect to the output column: high purity of one class for
// classification outputs, low variance or extreme mean for numeric
// outputs. On top of the pair scan it builds greedy decision lists of
// disjoint boxes.
package search

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/wlattner/fp/dataset"
	"github.com/wlattner/fp/tree"
)

// re-export the tree modes so callers only import search
var (
	LowVariance = tree.LowVariance
	HighMean    = tree.HighMean
	LowMean     = tree.LowMean
)

// Search holds the thresholds and runtime knobs for one engine instance.
// A Search is safe to reuse across calls until Abort is called; the abort
// flag is never cleared, so the call in flight and every later call return
// ErrAborted.
type Search struct {
	binSize  int
	support  int
	purity   float64
	mode     tree.Mode
	nWorkers int
	valProp  float64
	seed     int64
	log      zerolog.Logger
	aborted  atomic.Bool
}

type Option func(*Search)

// BinSize sets the target number of rows per tree leaf.
func BinSize(n int) Option {
	return func(s *Search) { s.binSize = n }
}

// Support sets the minimum number of rows a box must contain.
func Support(n int) Option {
	return func(s *Search) { s.support = n }
}

// Purity sets the minimum class purity for classification boxes. For
// numeric outputs it must still lie in (0, 1] but plays no part in
// accepting boxes, where the threshold is the global output mean.
func Purity(p float64) Option {
	return func(s *Search) { s.purity = p }
}

// Mode sets the numeric objective; ignored for classification outputs.
func Mode(m tree.Mode) Option {
	return func(s *Search) { s.mode = m }
}

// NumWorkers sets the number of goroutines evaluating column pairs.
func NumWorkers(n int) Option {
	return func(s *Search) { s.nWorkers = n }
}

// ValProp sets the fraction of rows held out for validating decision-list
// candidates. Out-of-range values fall back to 0.1.
func ValProp(v float64) Option {
	return func(s *Search) { s.valProp = v }
}

// Seed fixes the row shuffle used for the train/validation split.
func Seed(n int64) Option {
	return func(s *Search) { s.seed = n }
}

// Logger installs a logger for progress output; the default discards it.
func Logger(l zerolog.Logger) Option {
	return func(s *Search) { s.log = l }
}

// New returns a configured engine. With no options the returned Search is
// equivalent to the following call:
//
//	s := search.New(search.BinSize(10), search.Support(10), search.Purity(0.9),
//		search.Mode(search.LowVariance), search.NumWorkers(1), search.ValProp(0.1))
func New(options ...Option) *Search {
	s := &Search{
		binSize:  10,
		support:  10,
		purity:   0.9,
		mode:     tree.LowVariance,
		nWorkers: 1,
		valProp:  0.1,
		seed:     1,
		log:      zerolog.Nop(),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Abort requests cooperative cancellation: the running call and any later
// call on this Search return ErrAborted and publish nothing.
func (s *Search) Abort() {
	s.aborted.Store(true)
}

func (s *Search) validate(ds *dataset.Dataset) error {
	if ds == nil || !ds.Valid() {
		return errors.Wrap(ErrDataset, "validate params")
	}

	rows := ds.Rows()
	if s.binSize < 1 || s.binSize > rows {
		return errors.Wrapf(ErrBinSize, "bin size %d, rows %d", s.binSize, rows)
	}
	if s.support < 1 || s.support > rows {
		return errors.Wrapf(ErrSupport, "support %d, rows %d", s.support, rows)
	}
	if s.purity <= 0 || s.purity > 1 {
		return errors.Wrapf(ErrPurity, "purity %f", s.purity)
	}
	if !ds.IsClassification() && (s.mode < tree.LowVariance || s.mode > tree.LowMean) {
		return errors.Wrapf(ErrMode, "mode %d", s.mode)
	}
	if s.nWorkers < 1 {
		return errors.Wrapf(ErrWorkers, "workers %d", s.nWorkers)
	}

	return nil
}

// Projections runs the full pair scan over the whole dataset and returns
// the per-pair lists of non-overlapping boxes meeting the thresholds.
func (s *Search) Projections(ds *dataset.Dataset) (*FeatureMap, error) {
	if err := s.validate(ds); err != nil {
		return nil, err
	}

	trainRows := seqInts(ds.Rows())
	si := mkSortedIndices(ds, trainRows)
	ft := s.buildTrees(ds, trainRows, si)

	return s.scan(ds, trainRows, si, ft, -1)
}

// numericThreshold is the acceptance threshold for numeric boxes: the
// mean of the output column over the train rows.
func numericThreshold(ds *dataset.Dataset, trainRows []int) float64 {
	outs := make([]float64, len(trainRows))
	for i, r := range trainRows {
		outs[i] = ds.Output(r)
	}
	return stat.Mean(outs, nil)
}

func seqInts(n int) []int {
	v := make([]int, n)
	for i := range v {
		v[i] = i
	}
	return v
}
