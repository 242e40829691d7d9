package pipeline

import (
	"sync"
	"time"
)

// Stats tracks pipeline throughput counters with thread-safe operations.
type Stats struct {
	mu          sync.Mutex
	captured    int64 // observations pulled from the source
	submitted   int64 // frames accepted into the input buffer
	dropped     int64 // frames dropped on a full buffer
	processed   int64 // frames that completed the stage chain
	stageErrors int64 // stage failures (frame passed through unmodified)
	started     time.Time
}

// NewStats creates a Stats instance anchored at now.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

// AddCaptured increments the source observation count.
func (s *Stats) AddCaptured() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured++
}

// AddSubmitted increments the accepted-frame count.
func (s *Stats) AddSubmitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted++
}

// AddDropped increments the dropped-frame count.
func (s *Stats) AddDropped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped++
}

// AddProcessed increments the completed-frame count.
func (s *Stats) AddProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
}

// AddStageError increments the stage failure count.
func (s *Stats) AddStageError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageErrors++
}

// Snapshot is a point-in-time copy of the counters plus derived rates.
type Snapshot struct {
	Captured    int64         `json:"captured"`
	Submitted   int64         `json:"submitted"`
	Dropped     int64         `json:"dropped"`
	Processed   int64         `json:"processed"`
	StageErrors int64         `json:"stage_errors"`
	Uptime      time.Duration `json:"-"`
	UptimeSecs  float64       `json:"uptime_secs"`
	CaptureFPS  float64       `json:"capture_fps"`
	ProcessFPS  float64       `json:"process_fps"`
}

// Snapshot returns a consistent copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	uptime := time.Since(s.started)
	snap := Snapshot{
		Captured:    s.captured,
		Submitted:   s.submitted,
		Dropped:     s.dropped,
		Processed:   s.processed,
		StageErrors: s.stageErrors,
		Uptime:      uptime,
		UptimeSecs:  uptime.Seconds(),
	}
	if secs := uptime.Seconds(); secs > 0 {
		snap.CaptureFPS = float64(s.captured) / secs
		snap.ProcessFPS = float64(s.processed) / secs
	}
	return snap
}
