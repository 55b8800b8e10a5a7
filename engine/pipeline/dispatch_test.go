package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/sundrift/prism/engine/core"
	"github.com/sundrift/prism/engine/math"
)

type collectorSink struct {
	mu      sync.Mutex
	packets []DrawPacket
	outputs [][]StageOutputs
}

func (c *collectorSink) Consume(packet DrawPacket, outputs []StageOutputs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packets = append(c.packets, packet)
	c.outputs = append(c.outputs, outputs)
	return nil
}

func (c *collectorSink) drawCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.packets)
}

type failingSink struct {
	err error
}

func (f *failingSink) Consume(DrawPacket, []StageOutputs) error {
	return f.err
}

func randomBuffer(n int, seed uint64) *VertexBuffer {
	rng := rand.New(rand.NewSource(seed))
	buf := NewEmptyVertexBuffer(n)
	for i := 0; i < n; i++ {
		buf.Append(
			math.NewVec3(rng.Float32()*20-10, rng.Float32()*20-10, rng.Float32()*20-10),
			math.NewVec3(rng.Float32(), rng.Float32(), rng.Float32()),
		)
	}
	return buf
}

func mustPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(validConfig())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestDispatcherParallelMatchesSequential(t *testing.T) {
	p := mustPipeline(t)
	buf := randomBuffer(5000, 42)
	packet := DrawPacket{
		Model: math.NewMat4Perspective(math.DegToRad(70), 1.5, 0.1, 100).
			Mul(math.NewMat4EulerXYZ(0.4, 1.3, -0.7)).
			Mul(math.NewMat4Translation(math.NewVec3(3, -4, -12))),
		Buffer:   buf,
		UniqueID: 1,
	}

	sequential, err := NewDispatcher(1, 1)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer sequential.Shutdown()

	parallel, err := NewDispatcher(8, 1)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer parallel.Shutdown()

	seqSink := &collectorSink{}
	if err := sequential.Draw(p, packet, seqSink); err != nil {
		t.Fatalf("sequential draw: %v", err)
	}
	parSink := &collectorSink{}
	if err := parallel.Draw(p, packet, parSink); err != nil {
		t.Fatalf("parallel draw: %v", err)
	}

	seqOut := seqSink.outputs[0]
	parOut := parSink.outputs[0]
	if len(seqOut) != len(parOut) {
		t.Fatalf("output lengths differ: %d vs %d", len(seqOut), len(parOut))
	}
	for i := range seqOut {
		if !bitsEqualVec4(seqOut[i].ClipPosition, parOut[i].ClipPosition) {
			t.Fatalf("vertex %d: sequential %v, parallel %v", i, seqOut[i].ClipPosition, parOut[i].ClipPosition)
		}
		if !bitsEqualVec3(seqOut[i].ForwardedColor, parOut[i].ForwardedColor) {
			t.Fatalf("vertex %d colors differ", i)
		}
	}
}

func TestDrawKeepsVertexOrder(t *testing.T) {
	p := mustPipeline(t)

	const n = 257
	buf := NewEmptyVertexBuffer(n)
	for i := 0; i < n; i++ {
		fi := float32(i)
		buf.Append(math.NewVec3(fi, 2*fi, 3*fi), math.NewVec3(fi, 0.5, 0.25))
	}

	d, err := NewDispatcher(8, 1)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	sink := &collectorSink{}
	packet := DrawPacket{
		Model:    math.NewMat4Translation(math.NewVec3(10, 20, 30)),
		Buffer:   buf,
		UniqueID: 7,
	}
	if err := d.Draw(p, packet, sink); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	outputs := sink.outputs[0]
	if len(outputs) != n {
		t.Fatalf("output count = %d, want %d", len(outputs), n)
	}
	for i, out := range outputs {
		fi := float32(i)
		want := math.NewVec4(fi+10, 2*fi+20, 3*fi+30, 1)
		if out.ClipPosition != want {
			t.Fatalf("slot %d holds %v, want %v", i, out.ClipPosition, want)
		}
		if out.ForwardedColor.X != fi {
			t.Fatalf("slot %d forwarded color %v, want x=%v", i, out.ForwardedColor, fi)
		}
	}
	if sink.packets[0].UniqueID != 7 {
		t.Errorf("packet id = %d, want 7", sink.packets[0].UniqueID)
	}
}

func TestDrawValidatesSubmission(t *testing.T) {
	p := mustPipeline(t)
	buf := randomBuffer(4, 1)

	d, err := NewDispatcher(2, 16)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	sink := &collectorSink{}

	if err := d.Draw(nil, DrawPacket{Buffer: buf}, sink); !errors.Is(err, ErrNilPipeline) {
		t.Errorf("nil pipeline error = %v, want %v", err, ErrNilPipeline)
	}
	if err := d.Draw(p, DrawPacket{}, sink); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("nil buffer error = %v, want %v", err, ErrNilBuffer)
	}
	if err := d.Draw(p, DrawPacket{Buffer: buf}, nil); !errors.Is(err, ErrNilSink) {
		t.Errorf("nil sink error = %v, want %v", err, ErrNilSink)
	}
	if sink.drawCount() != 0 {
		t.Errorf("invalid submissions reached the sink %d times", sink.drawCount())
	}
}

func TestDrawSkipsEmptyBuffers(t *testing.T) {
	p := mustPipeline(t)
	d, err := NewDispatcher(2, 16)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	sink := &collectorSink{}
	if err := d.Draw(p, DrawPacket{Buffer: NewEmptyVertexBuffer(0)}, sink); err != nil {
		t.Fatalf("empty draw: %v", err)
	}
	if sink.drawCount() != 0 {
		t.Error("empty draw reached the sink")
	}
}

func TestDispatcherShutdownRejectsDraws(t *testing.T) {
	p := mustPipeline(t)
	d, err := NewDispatcher(2, 16)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	if err := d.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := d.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}

	err = d.Draw(p, DrawPacket{Buffer: randomBuffer(4, 2)}, &collectorSink{})
	if !errors.Is(err, core.ErrShutdown) {
		t.Errorf("draw after shutdown error = %v, want %v", err, core.ErrShutdown)
	}
}

func TestDrawPropagatesSinkError(t *testing.T) {
	p := mustPipeline(t)
	d, err := NewDispatcher(2, 16)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	sinkErr := fmt.Errorf("rasterizer rejected the primitive batch")
	err = d.Draw(p, DrawPacket{Buffer: randomBuffer(4, 3)}, &failingSink{err: sinkErr})
	if !errors.Is(err, sinkErr) {
		t.Errorf("draw error = %v, want %v", err, sinkErr)
	}
}

func TestConcurrentDraws(t *testing.T) {
	p := mustPipeline(t)
	d, err := NewDispatcher(4, 64)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	buf := randomBuffer(1000, 99)
	sink := &collectorSink{}

	const goroutines = 8
	const drawsEach = 5

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < drawsEach; i++ {
				packet := DrawPacket{
					Model:    math.NewMat4Translation(math.NewVec3(float32(g), float32(i), 0)),
					Buffer:   buf,
					UniqueID: uint32(g*drawsEach + i),
				}
				if err := d.Draw(p, packet, sink); err != nil {
					t.Errorf("draw %d/%d: %v", g, i, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if got := sink.drawCount(); got != goroutines*drawsEach {
		t.Errorf("sink saw %d draws, want %d", got, goroutines*drawsEach)
	}
	for _, outputs := range sink.outputs {
		if len(outputs) != buf.Len() {
			t.Errorf("a draw produced %d outputs, want %d", len(outputs), buf.Len())
		}
	}
}

func TestDrawRecordsMetrics(t *testing.T) {
	if err := core.MetricsInitialize(); err != nil {
		t.Fatalf("MetricsInitialize: %v", err)
	}
	baseVertices, baseDraws := core.MetricsCounters()

	p := mustPipeline(t)
	d, err := NewDispatcher(2, 16)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	if err := d.Draw(p, DrawPacket{Buffer: randomBuffer(12, 5)}, &collectorSink{}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	vertices, draws := core.MetricsCounters()
	if vertices-baseVertices != 12 {
		t.Errorf("vertex counter delta = %d, want 12", vertices-baseVertices)
	}
	if draws-baseDraws != 1 {
		t.Errorf("draw counter delta = %d, want 1", draws-baseDraws)
	}
}
