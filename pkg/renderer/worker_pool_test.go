package renderer

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestRenderRows(t *testing.T) {
	for _, workers := range []int{1, 4, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			const height = 37
			var visits [height]atomic.Int32
			logger := &recordingLogger{}

			stats := RenderRows(height, Options{Workers: workers, Logger: logger}, func(y int) RenderStats {
				visits[y].Add(1)
				return RenderStats{TotalPixels: 10, TotalSamples: 40, Rays: int64(y)}
			})

			for y := range visits {
				if n := visits[y].Load(); n != 1 {
					t.Errorf("row %d rendered %d times", y, n)
				}
			}
			if stats.TotalPixels != 370 || stats.TotalSamples != 1480 {
				t.Errorf("unexpected totals %+v", stats)
			}
			if stats.Rays != height*(height-1)/2 {
				t.Errorf("Expected %d rays, got %d", height*(height-1)/2, stats.Rays)
			}
			if stats.AverageSamples() != 4 {
				t.Errorf("Expected 4 samples per pixel, got %f", stats.AverageSamples())
			}

			if len(logger.lines) != 10 {
				t.Errorf("Expected 10 progress lines, got %d: %v", len(logger.lines), logger.lines)
			}
			if last := logger.lines[len(logger.lines)-1]; !strings.Contains(last, "100%") {
				t.Errorf("Expected final line to report 100%%, got %q", last)
			}
		})
	}
}

func TestRenderRows_NilLogger(t *testing.T) {
	stats := RenderRows(3, Options{}, func(y int) RenderStats {
		return RenderStats{TotalPixels: 1}
	})
	if stats.TotalPixels != 3 {
		t.Errorf("Expected 3 pixels, got %d", stats.TotalPixels)
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if !ps.Color().IsZero() {
		t.Error("empty pixel should be black")
	}
	ps.AddSample(core.NewVec3(1, 2, 3))
	ps.AddSample(core.NewVec3(3, 2, 1))
	if got := ps.Color(); got != core.NewVec3(2, 2, 2) {
		t.Errorf("Expected average (2,2,2), got %v", got)
	}
}
