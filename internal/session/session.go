package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/analyzer"
	"github.com/banshee-data/motion.report/internal/feedback"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/pipeline"
	"github.com/banshee-data/motion.report/internal/profile"
	"github.com/banshee-data/motion.report/internal/source"
)

// Config describes one session to start.
type Config struct {
	Sport    string
	UserID   string // optional, recorded with the report
	Source   source.Source
	Capacity int // pipeline queue bound, 0 = pipeline default
}

// Stats is a point-in-time view of a running session, safe to read
// while frames keep flowing.
type Stats struct {
	SessionID  string   `json:"session_id"`
	Sport      string   `json:"sport"`
	Score      float64  `json:"score"`
	Issues     []string `json:"issues"`
	FrameCount int      `json:"frame_count"`
	Captured   int64    `json:"captured"`
	Dropped    int64    `json:"dropped"`
	Duration   float64  `json:"duration_secs"`
	NoData     bool     `json:"no_data,omitempty"`
}

// Session is one live analysis run. The collector goroutine is the
// only writer of results and last; Stats readers take the mutex for a
// snapshot.
type Session struct {
	ID        string
	Sport     string
	UserID    string
	StartedAt time.Time

	src  source.Source
	pipe *pipeline.Pipeline
	an   *analyzer.Analyzer // only read after the pipeline drains

	mu      sync.Mutex
	results []*analyzer.FrameResult
	last    *analyzer.FrameResult

	collectDone chan struct{}
}

// collect drains the pipeline output until it closes after Stop.
func (s *Session) collect() {
	defer close(s.collectDone)
	for f := range s.pipe.Out() {
		if f.Result == nil {
			continue // no detection this frame
		}
		s.mu.Lock()
		s.results = append(s.results, f.Result)
		s.last = f.Result
		s.mu.Unlock()
	}
}

// Stats snapshots the session without blocking frame flow.
func (s *Session) Stats() Stats {
	snap := s.pipe.Stats().Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		SessionID:  s.ID,
		Sport:      s.Sport,
		FrameCount: len(s.results),
		Captured:   snap.Captured,
		Dropped:    snap.Dropped,
		Duration:   time.Since(s.StartedAt).Seconds(),
	}
	if s.last == nil {
		st.NoData = true
		return st
	}
	st.Score = s.last.Score
	st.Issues = s.last.IssueTexts()
	return st
}

// analyzeStage scores detected observations; frames without a
// detection pass through with a nil result.
type analyzeStage struct {
	an *analyzer.Analyzer
}

func (analyzeStage) Name() string { return "analyze" }

func (st analyzeStage) Apply(f *pipeline.Frame) (*pipeline.Frame, error) {
	if !f.Obs.Detected {
		return f, nil
	}
	f.Result = st.an.Process(&f.Obs.Landmarks, f.Obs.Timestamp)
	return f, nil
}

// ReportRecord is everything a sink needs to persist one finished
// session.
type ReportRecord struct {
	SessionID string
	UserID    string
	Sport     string
	StartedAt time.Time
	Duration  time.Duration
	Frames    int
	Report    *feedback.Report
}

// ReportSink receives the final report of a stopped session.
// A nil sink disables persistence.
type ReportSink interface {
	SaveReport(rec ReportRecord) error
}

// Coordinator starts, inspects and stops sessions. Feedback
// aggregators are shared per sport so progress notes compare across
// sessions of the same sport.
type Coordinator struct {
	profiles *profile.Registry
	store    *Store
	sink     ReportSink

	defaultQueue int
	historyCap   int

	aggMu sync.Mutex
	aggs  map[string]*feedback.Aggregator
}

// NewCoordinator creates a coordinator over the given profile registry
// and report sink.
func NewCoordinator(profiles *profile.Registry, sink ReportSink) *Coordinator {
	if profiles == nil {
		profiles = profile.NewRegistry()
	}
	return &Coordinator{
		profiles: profiles,
		store:    NewStore(),
		sink:     sink,
		aggs:     make(map[string]*feedback.Aggregator),
	}
}

// SetDefaults overrides the pipeline queue bound applied when a start
// request leaves Capacity zero, and the per-sport report history
// bound. Zero keeps the package defaults. Call before the first
// session starts.
func (c *Coordinator) SetDefaults(queueCapacity, historyCapacity int) {
	c.defaultQueue = queueCapacity
	c.historyCap = historyCapacity
}

// Store exposes the live-session registry.
func (c *Coordinator) Store() *Store { return c.store }

// Start opens the source, wires it into a pipeline with the analyze
// stage and begins the capture and process loops. A source that fails
// to open is fatal; nothing is registered.
func (c *Coordinator) Start(cfg Config) (string, error) {
	if !profile.IsKnownSport(cfg.Sport) {
		return "", fmt.Errorf("unsupported sport %q", cfg.Sport)
	}
	if cfg.Source == nil {
		return "", fmt.Errorf("start session: no landmark source")
	}
	if err := cfg.Source.Open(); err != nil {
		return "", fmt.Errorf("open landmark source: %w", err)
	}

	if cfg.Capacity == 0 {
		cfg.Capacity = c.defaultQueue
	}

	an := analyzer.New(analyzer.Config{Sport: cfg.Sport, Profiles: c.profiles})
	pipe := pipeline.New(pipeline.Config{Source: cfg.Source, Capacity: cfg.Capacity})
	pipe.RegisterStage(analyzeStage{an: an})

	sess := &Session{
		ID:          uuid.NewString(),
		Sport:       cfg.Sport,
		UserID:      cfg.UserID,
		StartedAt:   time.Now(),
		src:         cfg.Source,
		pipe:        pipe,
		an:          an,
		collectDone: make(chan struct{}),
	}

	pipe.Start()
	go sess.collect()
	c.store.Add(sess)

	monitoring.Logf("session %s started (sport=%s queue=%d)", sess.ID, sess.Sport, pipe.Capacity())
	return sess.ID, nil
}

// Stats returns a live snapshot for id.
func (c *Coordinator) Stats(id string) (Stats, error) {
	sess, ok := c.store.Lookup(id)
	if !ok {
		return Stats{}, ErrSessionNotFound
	}
	return sess.Stats(), nil
}

// Stop halts a session's loops, drains buffered output into the
// accumulated results and generates the feedback report. The session
// is removed first, so a second stop on the same id reports
// ErrSessionNotFound rather than crashing.
func (c *Coordinator) Stop(id string) (*feedback.Report, error) {
	sess, ok := c.store.Remove(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.pipe.Stop()
	<-sess.collectDone // all queued output is now in results

	if err := sess.src.Close(); err != nil {
		// Closing is best effort; the results are already in hand.
		monitoring.Logf("close source for session %s: %v", sess.ID, err)
	}

	sess.mu.Lock()
	results := sess.results
	sess.mu.Unlock()

	report := c.aggregator(sess.Sport).Generate(results)
	avgSpeed, maxSpeed := sess.an.SpeedMetrics()
	monitoring.Logf("session %s stopped: %d frames, score %.1f (%s), travel %.2f, speed avg %.2f max %.2f",
		sess.ID, len(results), report.Score, report.Level,
		sess.an.MovementDistance(), avgSpeed, maxSpeed)

	if c.sink != nil {
		rec := ReportRecord{
			SessionID: sess.ID,
			UserID:    sess.UserID,
			Sport:     sess.Sport,
			StartedAt: sess.StartedAt,
			Duration:  time.Since(sess.StartedAt),
			Frames:    len(results),
			Report:    report,
		}
		if err := c.sink.SaveReport(rec); err != nil {
			return report, fmt.Errorf("persist report: %w", err)
		}
	}
	return report, nil
}

// StopAll stops every live session, used during server shutdown.
func (c *Coordinator) StopAll() {
	for _, id := range c.store.List() {
		if _, err := c.Stop(id); err != nil && err != ErrSessionNotFound {
			monitoring.Logf("stop session %s: %v", id, err)
		}
	}
}

// aggregator returns the shared per-sport feedback aggregator.
func (c *Coordinator) aggregator(sport string) *feedback.Aggregator {
	c.aggMu.Lock()
	defer c.aggMu.Unlock()
	agg, ok := c.aggs[sport]
	if !ok {
		if c.historyCap > 0 {
			agg = feedback.NewWithCapacity(sport, c.historyCap)
		} else {
			agg = feedback.New(sport)
		}
		c.aggs[sport] = agg
	}
	return agg
}
