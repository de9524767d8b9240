package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationDataset(t *testing.T) {
	ds := New([][]float64{{1, 2}, {3, 4}, {5, 6}})
	assert.False(t, ds.Valid(), "no output column yet")

	ds.SetClassLabels([]int{0, 2, 1})

	assert.True(t, ds.Valid())
	assert.True(t, ds.IsClassification())
	assert.Equal(t, 3, ds.NumClasses())
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 2, ds.Cols())
	assert.Equal(t, 4.0, ds.Feature(1, 1))
	assert.Equal(t, 2.0, ds.Output(1), "class ids surface as float64")
}

func TestRegressionDataset(t *testing.T) {
	ds := New([][]float64{{1, 2}, {3, 4}})
	ds.SetTargets([]float64{0.5, 1.5})

	assert.True(t, ds.Valid())
	assert.False(t, ds.IsClassification())
	assert.Equal(t, 0, ds.NumClasses())
	assert.Equal(t, 1.5, ds.Output(1))
}

func TestInvalidDatasets(t *testing.T) {
	assert.False(t, New(nil).Valid())
	assert.False(t, New([][]float64{}).Valid())

	// output length must match the feature matrix
	ds := New([][]float64{{1}, {2}})
	ds.SetClassLabels([]int{0})
	assert.False(t, ds.Valid())
}
