package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sundrift/prism/engine/core"
	"github.com/sundrift/prism/engine/math"
)

var (
	ErrNoWorkers   = fmt.Errorf("attempting to create a dispatcher with a negative worker count")
	ErrNilPipeline = fmt.Errorf("draw submitted without a pipeline")
	ErrNilBuffer   = fmt.Errorf("draw submitted without a vertex buffer")
	ErrNilSink     = fmt.Errorf("draw submitted without a primitive sink")
)

// DefaultParallelThreshold is the vertex count below which a draw runs on
// the submitting goroutine instead of the worker pool.
const DefaultParallelThreshold = 1024

// DrawPacket is one draw submission: the per-draw matrix, the vertex data,
// and a host-assigned identifier carried through to the sink.
type DrawPacket struct {
	Model    math.Mat4
	Buffer   *VertexBuffer
	UniqueID uint32
}

// PrimitiveSink consumes the completed output slab of a draw. The
// fixed-function primitive assembly and rasterization stand behind this
// interface; they are collaborators, not part of the vertex stage.
type PrimitiveSink interface {
	Consume(packet DrawPacket, outputs []StageOutputs) error
}

type stageTask struct {
	stage    VertexStage
	buffer   *VertexBuffer
	uniforms DrawUniforms
	outputs  []StageOutputs
	first    int
	count    int
	done     *sync.WaitGroup
}

// Dispatcher runs draws against a pipeline, invoking the vertex stage once
// per vertex. Large draws are sharded across a persistent worker pool in
// contiguous ranges; each invocation writes only its own output slot, so
// scheduling order never changes results.
type Dispatcher struct {
	numWorkers        int
	parallelThreshold int
	taskQueue         chan stageTask
	workers           sync.WaitGroup

	mu       sync.RWMutex
	shutdown bool
}

// NewDispatcher starts a dispatcher with the given worker count and the
// vertex count above which draws go parallel. Zero or negative values pick
// the defaults (one worker per CPU, DefaultParallelThreshold).
func NewDispatcher(numWorkers, parallelThreshold int) (*Dispatcher, error) {
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers < 0 {
		return nil, ErrNoWorkers
	}
	if parallelThreshold <= 0 {
		parallelThreshold = DefaultParallelThreshold
	}

	d := &Dispatcher{
		numWorkers:        numWorkers,
		parallelThreshold: parallelThreshold,
		taskQueue:         make(chan stageTask, numWorkers*2),
	}
	d.start()

	core.LogDebug("dispatcher started with %d workers, parallel threshold %d", numWorkers, parallelThreshold)

	return d, nil
}

func (d *Dispatcher) start() {
	for i := 0; i < d.numWorkers; i++ {
		d.workers.Add(1)
		go func() {
			defer d.workers.Done()
			for task := range d.taskQueue {
				runRange(task)
				task.done.Done()
			}
		}()
	}
}

func runRange(task stageTask) {
	for i := task.first; i < task.first+task.count; i++ {
		task.outputs[i] = task.stage.Process(task.buffer.Fetch(i), task.uniforms)
	}
}

// Draw pushes every vertex of the packet through the pipeline's stage and
// hands the completed outputs to sink. Outputs keep vertex order: slot i
// belongs to vertex i regardless of which worker produced it. Safe for
// concurrent use.
func (d *Dispatcher) Draw(p *Pipeline, packet DrawPacket, sink PrimitiveSink) error {
	if p == nil {
		return ErrNilPipeline
	}
	if packet.Buffer == nil {
		return ErrNilBuffer
	}
	if sink == nil {
		return ErrNilSink
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.shutdown {
		return core.ErrShutdown
	}

	n := packet.Buffer.Len()
	if n == 0 {
		core.LogDebug("draw %d: empty vertex buffer, skipping", packet.UniqueID)
		return nil
	}

	started := time.Now()
	uniforms := DrawUniforms{ModelMatrix: packet.Model}
	outputs := make([]StageOutputs, n)

	if n < d.parallelThreshold || d.numWorkers == 1 {
		runRange(stageTask{
			stage:    p.Stage(),
			buffer:   packet.Buffer,
			uniforms: uniforms,
			outputs:  outputs,
			first:    0,
			count:    n,
		})
	} else {
		d.runSharded(p.Stage(), packet.Buffer, uniforms, outputs)
	}

	core.MetricsAddVertices(uint64(n))
	core.MetricsAddDraw()
	core.LogDebug("draw %d: %d vertices through stage %q in %s",
		packet.UniqueID, n, p.Stage().Name(), time.Since(started))

	return sink.Consume(packet, outputs)
}

func (d *Dispatcher) runSharded(stage VertexStage, buffer *VertexBuffer, uniforms DrawUniforms, outputs []StageOutputs) {
	n := len(outputs)
	chunk := (n + d.numWorkers - 1) / d.numWorkers

	var done sync.WaitGroup
	for first := 0; first < n; first += chunk {
		count := chunk
		if first+count > n {
			count = n - first
		}
		done.Add(1)
		d.taskQueue <- stageTask{
			stage:    stage,
			buffer:   buffer,
			uniforms: uniforms,
			outputs:  outputs,
			first:    first,
			count:    count,
			done:     &done,
		}
	}
	done.Wait()
}

// Shutdown stops the workers after the queued ranges finish. Draws submitted
// afterwards are rejected with core.ErrShutdown.
func (d *Dispatcher) Shutdown() error {
	d.mu.Lock()
	if d.shutdown {
		d.mu.Unlock()
		return nil
	}
	d.shutdown = true
	close(d.taskQueue)
	d.mu.Unlock()

	d.workers.Wait()
	core.LogDebug("dispatcher shut down")
	return nil
}
