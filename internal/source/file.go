package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

// recordedFrame is the JSONL wire form of one recorded observation.
type recordedFrame struct {
	TSMillis  int64            `json:"ts_ms"`
	Detected  bool             `json:"detected"`
	Landmarks []pose.Landmark  `json:"landmarks,omitempty"`
}

// FileSource replays a JSONL landmark recording. Each line is one
// observation; timestamps in the file drive replay pacing when
// Realtime is set, otherwise frames are delivered as fast as the
// consumer asks.
type FileSource struct {
	Path string
	// Realtime makes Observe sleep to honour recorded inter-frame
	// gaps. Off, the file replays at consumer speed (tests, backfill).
	Realtime bool
	// Clock paces realtime replay. Nil uses the real clock.
	Clock timeutil.Clock

	f       *os.File
	scanner *bufio.Scanner
	started time.Time
	firstTS int64
	haveTS  bool
}

// Open opens the recording. A missing or unreadable file is a
// SourceUnavailable condition.
func (fs *FileSource) Open() error {
	f, err := os.Open(fs.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	fs.f = f
	fs.scanner = bufio.NewScanner(f)
	fs.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if fs.Clock == nil {
		fs.Clock = timeutil.RealClock{}
	}
	fs.started = fs.Clock.Now()
	fs.haveTS = false
	return nil
}

// Observe returns the next recorded observation, or io.EOF at end of
// file. Lines that fail to parse are skipped: one corrupt frame should
// not end the replay.
func (fs *FileSource) Observe() (Observation, error) {
	if fs.scanner == nil {
		return Observation{}, ErrSourceUnavailable
	}
	for fs.scanner.Scan() {
		line := fs.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec recordedFrame
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Detected && len(rec.Landmarks) != pose.NumLandmarks {
			continue
		}

		if !fs.haveTS {
			fs.firstTS = rec.TSMillis
			fs.haveTS = true
		}
		offset := time.Duration(rec.TSMillis-fs.firstTS) * time.Millisecond
		if fs.Realtime {
			if wait := fs.Clock.Until(fs.started.Add(offset)); wait > 0 {
				fs.Clock.Sleep(wait)
			}
		}

		obs := Observation{
			Timestamp: fs.started.Add(offset),
			Detected:  rec.Detected,
		}
		if rec.Detected {
			copy(obs.Landmarks[:], rec.Landmarks)
		}
		return obs, nil
	}
	if err := fs.scanner.Err(); err != nil {
		return Observation{}, err
	}
	return Observation{}, io.EOF
}

// Close closes the underlying file.
func (fs *FileSource) Close() error {
	fs.scanner = nil
	if fs.f != nil {
		return fs.f.Close()
	}
	return nil
}
