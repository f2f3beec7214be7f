package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfiler(clock *time.Time, lines *[]string) *Profiler {
	p := NewProfiler()
	p.lastTime = *clock
	p.now = func() time.Time { return *clock }
	p.output = func(line string) { *lines = append(*lines, line) }
	return p
}

func TestTickLogsPerFrameStats(t *testing.T) {
	clock := time.Unix(0, 0)
	var lines []string
	p := newTestProfiler(&clock, &lines)

	frame := renderer.Stats{DrawCalls: 3, Vertices: 600, ProgramSwitches: 2, TextureBinds: 1}
	for i := 0; i < 3; i++ {
		clock = clock.Add(250 * time.Millisecond)
		assert.False(t, p.Tick(frame))
	}
	clock = clock.Add(250 * time.Millisecond)
	require.True(t, p.Tick(frame))

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[Profiler] FPS: 4.00")
	assert.Contains(t, lines[0], "Draws/frame: 3.0")
	assert.Contains(t, lines[0], "Vertices/frame: 600")
	assert.Contains(t, lines[0], "Program switches/frame: 2.0")
	assert.Contains(t, lines[0], "Texture binds/frame: 1.0")
}

func TestTickResetsAfterLogging(t *testing.T) {
	clock := time.Unix(0, 0)
	var lines []string
	p := newTestProfiler(&clock, &lines)
	p.SetInterval(100 * time.Millisecond)
	p.SetInterval(0)

	clock = clock.Add(100 * time.Millisecond)
	require.True(t, p.Tick(renderer.Stats{DrawCalls: 10}))

	clock = clock.Add(100 * time.Millisecond)
	require.True(t, p.Tick(renderer.Stats{}))
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Draws/frame: 0.0")
}
