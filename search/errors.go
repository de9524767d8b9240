package search

import "github.com/pkg/errors"

// Typed errors returned by the entry points. Parameter validation runs
// before any work, so a non-nil error means nothing was computed.
var (
	ErrDataset           = errors.New("invalid dataset or output column")
	ErrBinSize           = errors.New("bin size must be a positive integer no larger than the number of rows")
	ErrSupport           = errors.New("support must be a positive integer no larger than the number of rows")
	ErrPurity            = errors.New("purity must be in (0, 1]")
	ErrMode              = errors.New("mode must be low variance, high mean or low mean")
	ErrWorkers           = errors.New("number of workers must be at least 1")
	ErrNotClassification = errors.New("classification output required")
	ErrAborted           = errors.New("search aborted")
)
