// Package dataset holds the in-memory table the projection search runs
// over: a numeric feature matrix plus a single output column, either
// integer class labels or real-valued targets.
package dataset

// Dataset is read-only during a search. The output column is either class
// ids in [0, NumClasses) or real targets, never both.
type Dataset struct {
	x          [][]float64
	yClf       []int
	yReg       []float64
	numClasses int
}

// New wraps a feature matrix. The output column must be attached with
// SetClassLabels or SetTargets before the dataset is usable.
func New(x [][]float64) *Dataset {
	return &Dataset{x: x}
}

// SetClassLabels attaches integer class ids. The number of classes is
// taken as max(labels)+1.
func (d *Dataset) SetClassLabels(labels []int) {
	d.yClf = labels
	d.yReg = nil
	d.numClasses = 0
	for _, l := range labels {
		if l+1 > d.numClasses {
			d.numClasses = l + 1
		}
	}
}

// SetTargets attaches a real-valued output column.
func (d *Dataset) SetTargets(y []float64) {
	d.yReg = y
	d.yClf = nil
	d.numClasses = 0
}

func (d *Dataset) Rows() int {
	return len(d.x)
}

func (d *Dataset) Cols() int {
	if len(d.x) == 0 {
		return 0
	}
	return len(d.x[0])
}

func (d *Dataset) Feature(row, col int) float64 {
	return d.x[row][col]
}

// Output returns the output value for row. For classification datasets
// this is the class id cast to float64.
func (d *Dataset) Output(row int) float64 {
	if d.yClf != nil {
		return float64(d.yClf[row])
	}
	return d.yReg[row]
}

func (d *Dataset) IsClassification() bool {
	return d.yClf != nil
}

func (d *Dataset) NumClasses() int {
	return d.numClasses
}

// Valid reports whether the dataset has features and a matching output
// vector.
func (d *Dataset) Valid() bool {
	if len(d.x) == 0 || len(d.x[0]) == 0 {
		return false
	}
	if d.yClf != nil {
		return len(d.yClf) == len(d.x)
	}
	return d.yReg != nil && len(d.yReg) == len(d.x)
}
