package renderer

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Options controls how rows are dispatched
type Options struct {
	Workers int         // Concurrent rows; <= 0 uses runtime.NumCPU()
	Logger  core.Logger // Progress output; nil is silent
}

// RenderRows calls renderRow for every row on a bounded set of goroutines.
// Rows are independent, so scheduling order does not affect the result.
// Per-row statistics are summed in row order once all rows are done.
func RenderRows(height int, opts Options, renderRow func(y int) RenderStats) RenderStats {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}

	rowStats := make([]RenderStats, height)
	progress := newProgress(height, logger)

	var g errgroup.Group
	g.SetLimit(workers)
	for y := 0; y < height; y++ {
		g.Go(func() error {
			rowStats[y] = renderRow(y)
			progress.rowDone()
			return nil
		})
	}
	_ = g.Wait()

	var total RenderStats
	for _, s := range rowStats {
		total.Add(s)
	}
	return total
}

// progress logs coarse completion steps; it never affects rendering
type progress struct {
	total  int64
	done   atomic.Int64
	logger core.Logger

	mu       sync.Mutex
	reported int64 // Last reported decile
}

func newProgress(total int, logger core.Logger) *progress {
	return &progress{total: int64(total), logger: logger}
}

func (p *progress) rowDone() {
	done := p.done.Add(1)
	decile := done * 10 / p.total

	p.mu.Lock()
	defer p.mu.Unlock()
	for p.reported < decile {
		p.reported++
		p.logger.Printf("Rendering: %d%% (%d/%d rows)", p.reported*10, done, p.total)
	}
}
