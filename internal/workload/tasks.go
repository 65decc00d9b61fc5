package workload

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// The task bodies below exist only to generate CPU samples with varied,
// recognisable call-stack shapes; their numeric results are discarded.

func fibonacci(n uint64) uint64 {
	if n <= 1 {
		return n
	}
	return fibonacci(n-1) + fibonacci(n-2)
}

func treeSum(depth uint32) uint64 {
	if depth == 0 {
		return 1
	}
	left := treeSum(depth - 1)
	right := treeSum(depth - 1)
	return left + right + uint64(depth)
}

func spin(iterations uint64) uint64 {
	var result uint64
	for i := uint64(0); i < iterations; i++ {
		result += i * i
	}
	return result
}

func buildReport() string {
	var sb []byte
	for i := uint64(0); i < 100; i++ {
		sb = append(sb, []byte("item "+strconv.FormatUint(i, 10)+": ")...)
		sb = append(sb, []byte(strconv.FormatUint(fibonacci(i%15), 10))...)
		sb = append(sb, '\n')
	}
	return string(sb)
}

func allocateReports() []string {
	data := make([]string, 0, 10_000)
	for i := 0; i < 10_000; i++ {
		data = append(data, fmt.Sprintf("item %d: %s", i, buildReport()))
	}
	return data
}

func mapChurn(size int) map[string]uint64 {
	m := make(map[string]uint64, size)
	for i := 0; i < size; i++ {
		key := "key_" + strconv.FormatUint(fibonacci(uint64(i)%10), 10)
		m[key] = spin(uint64(i) % 500)
	}
	return m
}

func sliceChurn(size int) []uint64 {
	vals := make([]uint64, size)
	for i := range vals {
		vals[i] = fibonacci(uint64(i) % 15)
	}
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j-1] > vals[j]; j-- {
			vals[j-1], vals[j] = vals[j], vals[j-1]
		}
	}
	return dedup(vals)
}

func dedup(sorted []uint64) []uint64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

type pipelineEntry struct {
	key   string
	value uint64
}

func runPipeline(size uint64) map[string]uint64 {
	return pipelineAggregate(pipelineTransform(pipelineGenerate(size)))
}

func pipelineGenerate(size uint64) []pipelineEntry {
	entries := make([]pipelineEntry, 0, size)
	for i := uint64(0); i < size; i++ {
		entries = append(entries, pipelineEntry{
			key:   buildReport(),
			value: treeSum(uint32(i % 10)),
		})
	}
	return entries
}

func pipelineTransform(entries []pipelineEntry) []pipelineEntry {
	out := make([]pipelineEntry, len(entries))
	for i, e := range entries {
		out[i] = pipelineEntry{
			key:   "processed_" + e.key,
			value: spin(e.value % 1000),
		}
	}
	return out
}

func pipelineAggregate(entries []pipelineEntry) map[string]uint64 {
	out := make(map[string]uint64, len(entries))
	for _, e := range entries {
		out[e.key] = e.value
	}
	return out
}

// runCPU performs a short, recursion-heavy CPU load.
func runCPU() {
	for i := 0; i < 2; i++ {
		_ = treeSum(15)
		_ = fibonacci(30)
		_ = spin(50_000)
	}
}

// runMemory performs repeated large allocations.
func runMemory() {
	for i := 0; i < 3; i++ {
		_ = allocateReports()
		_ = buildReport()
	}
}

// runMixed fans a mixed data-structure/pipeline workload out across four
// parallel branches.
func runMixed() {
	var g errgroup.Group

	g.Go(func() error {
		_ = treeSum(15)
		_ = fibonacci(30)
		return nil
	})
	g.Go(func() error {
		_ = allocateReports()
		return nil
	})
	g.Go(func() error {
		_ = sliceChurn(2000)
		_ = mapChurn(1000)
		return nil
	})
	g.Go(func() error {
		_ = runPipeline(150)
		return nil
	})

	_ = g.Wait()
}

// run dispatches to the named workload. Any name other than "cpu" or
// "memory" runs the mixed workload.
func run(taskType string) {
	switch taskType {
	case "cpu":
		runCPU()
	case "memory":
		runMemory()
	default:
		runMixed()
	}
}
