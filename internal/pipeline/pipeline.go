// Package pipeline decouples frame capture from frame analysis through
// two bounded queues with a drop-newest overflow policy.
//
// A capture loop pulls observations from a landmark source at the
// source's native rate and enqueues them; a process loop dequeues, runs
// the registered stage chain and enqueues results to an output buffer.
// Under sustained overload frames are dropped rather than queued, so
// the producer is never blocked and output stays fresh. Handoff
// between the loops is purely channel-based; nothing else crosses the
// goroutine boundary.
package pipeline

import (
	"errors"
	"io"
	"sync"

	"github.com/banshee-data/motion.report/internal/analyzer"
	"github.com/banshee-data/motion.report/internal/source"
)

// DefaultCapacity is the bound on each queue when none is configured.
const DefaultCapacity = 10

// Frame travels through the pipeline: the raw observation plus the
// analysis result once a stage has produced one. Result stays nil for
// no-detection observations.
type Frame struct {
	Seq    int64
	Obs    source.Observation
	Result *analyzer.FrameResult
}

// Stage is one transform in the statically ordered chain the process
// loop applies to every frame. Apply returns the frame to pass on; a
// returned error is logged and the input frame proceeds unmodified.
type Stage interface {
	Name() string
	Apply(*Frame) (*Frame, error)
}

// Config holds pipeline construction parameters.
type Config struct {
	Source   source.Source
	Capacity int // queue bound for input and output; 0 = DefaultCapacity
}

// Pipeline runs the two concurrent loops for one session.
type Pipeline struct {
	src    source.Source
	stages []Stage
	in     chan *Frame
	out    chan *Frame
	stats  *Stats

	mu      sync.RWMutex
	started bool
	stopped bool

	quit     chan struct{} // signals the capture loop to exit
	captured sync.WaitGroup
	procDone chan struct{} // closed when the process loop has drained

	seq int64
}

// New creates a pipeline. Stages are registered before Start; the
// chain is fixed once the loops run.
func New(cfg Config) *Pipeline {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pipeline{
		src:      cfg.Source,
		in:       make(chan *Frame, capacity),
		out:      make(chan *Frame, capacity),
		stats:    NewStats(),
		quit:     make(chan struct{}),
		procDone: make(chan struct{}),
	}
}

// RegisterStage appends a transform to the chain. Must be called
// before Start.
func (p *Pipeline) RegisterStage(s Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		opsf("RegisterStage(%s) after Start ignored", s.Name())
		return
	}
	p.stages = append(p.stages, s)
}

// Capacity returns the configured queue bound.
func (p *Pipeline) Capacity() int { return cap(p.in) }

// Stats returns the pipeline's throughput counters.
func (p *Pipeline) Stats() *Stats { return p.stats }

// Out exposes the output queue for a consuming goroutine. The channel
// is closed once the process loop has drained after Stop.
func (p *Pipeline) Out() <-chan *Frame { return p.out }

// Start launches the capture and process loops. The capture loop ends
// on Stop or when the source reports io.EOF; the process loop ends
// after the input queue is drained.
func (p *Pipeline) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.captured.Add(1)
	go p.captureLoop()
	go p.processLoop()
}

// Submit offers a frame to the input buffer without blocking. A full
// buffer (or a stopped pipeline) drops the frame and counts it.
func (p *Pipeline) Submit(f *Frame) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		p.stats.AddDropped()
		return false
	}
	select {
	case p.in <- f:
		p.stats.AddSubmitted()
		return true
	default:
		p.stats.AddDropped()
		return false
	}
}

// Poll returns the next available processed frame without blocking.
func (p *Pipeline) Poll() (*Frame, bool) {
	select {
	case f, ok := <-p.out:
		if !ok {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}

// Stop halts both loops cooperatively: the capture loop exits at its
// next iteration, the process loop drains in-flight work, and queued
// output stays available on Out until consumed. Safe to call more
// than once and safe to call concurrently with Submit and stats reads.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		<-p.procDone
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	close(p.quit)
	if !started {
		close(p.in)
		close(p.out)
		close(p.procDone)
		return
	}

	p.captured.Wait() // no more Submit calls from the capture loop
	close(p.in)
	<-p.procDone
}

// captureLoop pulls observations from the source at its native pace
// and offers them to the input buffer. Source errors other than EOF
// are logged and the loop keeps going: a bad frame is not fatal.
func (p *Pipeline) captureLoop() {
	defer p.captured.Done()
	for {
		select {
		case <-p.quit:
			return
		default:
		}

		obs, err := p.src.Observe()
		if err != nil {
			if errors.Is(err, io.EOF) {
				diagf("source stream ended after %d observations", p.stats.Snapshot().Captured)
				return
			}
			opsf("source observe failed: %v", err)
			continue
		}
		p.stats.AddCaptured()

		p.seq++
		f := &Frame{Seq: p.seq, Obs: obs}
		if !p.Submit(f) {
			tracef("dropped frame %d on full input buffer", f.Seq)
		}
	}
}

// processLoop drains the input buffer through the stage chain. It
// exits when the input channel is closed and drained, then closes the
// output channel so consumers see a clean end of stream.
func (p *Pipeline) processLoop() {
	defer close(p.procDone)
	defer close(p.out)

	for f := range p.in {
		for _, st := range p.stages {
			next, err := st.Apply(f)
			if err != nil {
				p.stats.AddStageError()
				opsf("stage %s failed on frame %d: %v (frame passed through)", st.Name(), f.Seq, err)
				continue
			}
			f = next
		}
		p.stats.AddProcessed()

		select {
		case p.out <- f:
		default:
			p.stats.AddDropped()
			tracef("dropped frame %d on full output buffer", f.Seq)
		}
	}
}
