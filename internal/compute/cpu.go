package compute

import (
	"fmt"
	"runtime"
	"sync"
)

// CPUBackend fans work out over goroutines in contiguous chunks.
type CPUBackend struct {
	workers  int
	minChunk int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{
		workers:  workers,
		minChunk: 1,
	}
}

// WithMinChunk sets the smallest range worth handing to its own goroutine.
func (c *CPUBackend) WithMinChunk(minChunk int) *CPUBackend {
	if minChunk < 1 {
		minChunk = 1
	}
	c.minChunk = minChunk
	return c
}

func (c *CPUBackend) Name() string    { return fmt.Sprintf("cpu(%d)", c.workers) }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Workers() int    { return c.workers }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Dispatch(n int, fn func(start, end int)) {
	chunks := c.Chunks(n)
	if len(chunks) == 0 {
		return
	}
	if len(chunks) == 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, ch := range chunks {
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(ch[0], ch[1])
	}

	wg.Wait()
}

// Chunks reports the [start, end) ranges Dispatch would use for n items.
func (c *CPUBackend) Chunks(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	if n <= c.minChunk || c.workers <= 1 {
		return [][2]int{{0, n}}
	}
	workers := c.workers
	if n/c.minChunk < workers {
		workers = n / c.minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers
	var out [][2]int
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
