package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFibonacci(t *testing.T) {
	assert.EqualValues(t, 0, fibonacci(0))
	assert.EqualValues(t, 1, fibonacci(1))
	assert.EqualValues(t, 55, fibonacci(10))
}

func TestTreeSum_BaseCase(t *testing.T) {
	assert.EqualValues(t, 1, treeSum(0))
}

func TestSliceChurn_SortedAndDeduplicated(t *testing.T) {
	vals := sliceChurn(50)
	for i := 1; i < len(vals); i++ {
		assert.Less(t, vals[i-1], vals[i])
	}
}

func TestRunPipeline_ProducesEntries(t *testing.T) {
	result := runPipeline(5)
	assert.NotEmpty(t, result)
}

func TestRun_DoesNotPanicForAnyTaskType(t *testing.T) {
	assert.NotPanics(t, func() { run("cpu") })
	assert.NotPanics(t, func() { run("memory") })
	assert.NotPanics(t, func() { run("anything-else") })
}
