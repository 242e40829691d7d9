// Package source defines the landmark-source boundary: anything that
// can supply a stream of timestamped body-landmark observations. The
// pose-estimation engine itself is external; this package carries the
// interface plus a synthetic generator and a JSONL replay source used
// in dev mode and tests.
package source

import (
	"errors"
	"time"

	"github.com/banshee-data/motion.report/internal/pose"
)

// ErrSourceUnavailable reports that a source could not be opened.
// Fatal to session start; never retried.
var ErrSourceUnavailable = errors.New("landmark source unavailable")

// Observation is one frame from a landmark source. Detected false
// means the estimator saw no body this frame. That is a valid
// observation, not an error; Landmarks is zero-valued in that case.
type Observation struct {
	Landmarks pose.LandmarkSet
	Timestamp time.Time
	Detected  bool
}

// Source supplies landmark observations at its own native rate.
// Observe blocks until the next observation is due and returns io.EOF
// when the stream is exhausted. Implementations are used by a single
// capture goroutine; they do not need to be safe for concurrent use.
type Source interface {
	Open() error
	Observe() (Observation, error)
	Close() error
}
