package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// Profiler tracks frame rate, GL work and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// frame accumulates renderer statistics over the current interval.
	frame renderer.Stats

	now    func() time.Time
	output func(string)
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
		output:         func(line string) { log.Print(line) },
	}
}

// SetInterval changes how often statistics are logged. Values <= 0 are ignored.
//
// Parameters:
//   - interval: the time between log lines
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval > 0 {
		p.updateInterval = interval
	}
}

// Tick should be called once per frame with that frame's renderer statistics.
// Logs performance statistics when the update interval has elapsed: FPS, per-frame
// draw calls, vertices, program switches and texture binds, then heap usage,
// allocation rate, GC count/pause times and total memory.
//
// Parameters:
//   - stats: the renderer statistics gathered during the frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats renderer.Stats) bool {
	p.frameCount++
	p.frame.DrawCalls += stats.DrawCalls
	p.frame.Vertices += stats.Vertices
	p.frame.ProgramSwitches += stats.ProgramSwitches
	p.frame.TextureBinds += stats.TextureBinds

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	perFrame := func(n int) float64 { return float64(n) / float64(p.frameCount) }

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.output(fmt.Sprintf("[Profiler] FPS: %.2f | Draws/frame: %.1f | Vertices/frame: %.0f | Program switches/frame: %.1f | Texture binds/frame: %.1f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, perFrame(p.frame.DrawCalls), perFrame(p.frame.Vertices), perFrame(p.frame.ProgramSwitches), perFrame(p.frame.TextureBinds),
		allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB))

	p.frameCount = 0
	p.frame = renderer.Stats{}
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
