package core

import (
	"sync"
	"sync/atomic"
)

const AVG_COUNT uint8 = 30

// MetricsState tracks frame timing plus running totals for the vertex
// pipeline. The totals are atomic so worker goroutines can add to them while
// the frame loop reads.
type MetricsState struct {
	FrameAVGCounter    uint8
	MStimes            [AVG_COUNT]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64

	verticesTransformed atomic.Uint64
	drawsSubmitted      atomic.Uint64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			MStimes: [AVG_COUNT]float64{0},
		}
	})
	return nil
}

// MetricsUpdate folds one frame's elapsed seconds into the rolling averages.
func MetricsUpdate(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := (frameElapsedTime * 1000.0)
	metricsState.MStimes[metricsState.FrameAVGCounter] = frameMS
	if metricsState.FrameAVGCounter == AVG_COUNT-1 {
		for i := uint8(0); i < AVG_COUNT; i++ {
			metricsState.MSavg += metricsState.MStimes[i]
		}

		metricsState.MSavg /= float64(AVG_COUNT)
	}
	metricsState.FrameAVGCounter++
	metricsState.FrameAVGCounter %= AVG_COUNT

	// Calculate Frames per second.
	metricsState.AccumulatedFrameMS += frameMS
	if metricsState.AccumulatedFrameMS > 1000 {
		metricsState.FPS = float64(metricsState.Frames)
		metricsState.AccumulatedFrameMS -= 1000
		metricsState.Frames = 0
	}

	// Count all Frames.
	metricsState.Frames++
}

func MetricsFPS() float64 {
	return metricsState.FPS
}

func MetricsFrameTime() float64 {
	return metricsState.MSavg
}

func MetricsFrame() (float64, float64) {
	return metricsState.FPS, metricsState.MSavg
}

// MetricsAddVertices records n vertices pushed through the transform stage.
func MetricsAddVertices(n uint64) {
	if metricsState == nil {
		return
	}
	metricsState.verticesTransformed.Add(n)
}

// MetricsAddDraw records one submitted draw.
func MetricsAddDraw() {
	if metricsState == nil {
		return
	}
	metricsState.drawsSubmitted.Add(1)
}

// MetricsCounters returns the running totals of transformed vertices and
// submitted draws.
func MetricsCounters() (vertices uint64, draws uint64) {
	if metricsState == nil {
		return 0, 0
	}
	return metricsState.verticesTransformed.Load(), metricsState.drawsSubmitted.Load()
}
