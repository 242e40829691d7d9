package feedback

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/motion.report/internal/analyzer"
	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/profile"
)

const (
	// DefaultHistoryCapacity bounds the per-aggregator report history
	// used for progress comparison.
	DefaultHistoryCapacity = 64

	// weaknessFrequency is the fraction of frames an issue category
	// must appear in before it is promoted to a weakness.
	weaknessFrequency = 0.3

	// consistencyWindow is how many trailing frames the consistency
	// strength inspects.
	consistencyWindow = 10

	// maxListed caps strengths, weaknesses and suggestions.
	maxListed = 5

	progressLookback = 5
)

// Aggregator generates feedback reports and keeps a bounded history of
// them for cross-session progress comparison. One aggregator serves
// one session stream; Generate is safe to call concurrently with
// history reads.
type Aggregator struct {
	sport string

	mu      sync.Mutex
	history []*Report
	head    int
	size    int
}

// New creates an aggregator for the given sport with the default
// history capacity.
func New(sport string) *Aggregator {
	return NewWithCapacity(sport, DefaultHistoryCapacity)
}

// NewWithCapacity creates an aggregator with an explicit history bound.
func NewWithCapacity(sport string, capacity int) *Aggregator {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &Aggregator{
		sport:   sport,
		history: make([]*Report, capacity),
	}
}

// Generate builds a feedback report from a session's frame results.
// Empty input yields the defined empty-session report, which is not
// appended to the history.
func (a *Aggregator) Generate(frames []*analyzer.FrameResult) *Report {
	if len(frames) == 0 {
		return emptyReport()
	}

	score := a.overallScore(frames)
	r := &Report{
		Score:       score,
		Level:       levelFor(score),
		Strengths:   a.strengths(frames),
		Weaknesses:  a.weaknesses(frames),
		GeneratedAt: time.Now(),
	}
	r.Suggestions = a.suggestions(r.Weaknesses)
	r.Progress = a.progressNote(score)

	a.push(r)
	return r
}

// HistorySize returns how many reports the aggregator currently holds.
func (a *Aggregator) HistorySize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// overallScore is the recency-weighted average of the positive frame
// scores. Weights rise linearly from 0.5 on the oldest frame to 1.0 on
// the newest, so recent form counts more.
func (a *Aggregator) overallScore(frames []*analyzer.FrameResult) float64 {
	scores := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Score > 0 {
			scores = append(scores, f.Score)
		}
	}
	if len(scores) == 0 {
		return 0
	}

	weights := linspace(0.5, 1.0, len(scores))
	score := stat.Mean(scores, weights)
	return math.Min(math.Max(score, 0), 100)
}

func (a *Aggregator) strengths(frames []*analyzer.FrameResult) []string {
	strengths := []string{}

	// Mean angle accuracy across the session, each frame normalised
	// by the worst plausible deviation of 45 degrees.
	var accuracies []float64
	for _, f := range frames {
		if len(f.Angles) == 0 {
			continue
		}
		devs := make([]float64, len(f.Angles))
		for i, ja := range f.Angles {
			devs[i] = ja.Deviation
		}
		accuracies = append(accuracies, 1.0-stat.Mean(devs, nil)/45.0)
	}
	if len(accuracies) > 0 && stat.Mean(accuracies, nil) > 0.8 {
		strengths = append(strengths, "accurate joint angle control")
	}

	if len(frames) > consistencyWindow {
		recent := frames[len(frames)-consistencyWindow:]
		scores := make([]float64, len(recent))
		for i, f := range recent {
			scores[i] = f.Score
		}
		if 1.0-stat.StdDev(scores, nil)/100.0 > 0.7 {
			strengths = append(strengths, "good motion consistency")
		}
	}

	if a.sport == profile.Badminton {
		strengths = append(strengths, a.badmintonStrengths(frames)...)
	}

	if len(strengths) > maxListed {
		strengths = strengths[:maxListed]
	}
	return strengths
}

// badmintonStrengths checks the swing amplitude at the wrist and the
// amount of court movement.
func (a *Aggregator) badmintonStrengths(frames []*analyzer.FrameResult) []string {
	var out []string

	var wrist []float64
	for _, f := range frames {
		wrist = append(wrist,
			pose.WristAngle(&f.Landmarks, "left"),
			pose.WristAngle(&f.Landmarks, "right"))
	}
	if len(wrist) > 0 && stat.Mean(wrist, nil) > 120 {
		out = append(out, "ample swing amplitude")
	}

	if movementRange(frames) > 0.5 {
		out = append(out, "active footwork")
	}
	return out
}

// movementRange is the diagonal of the bounding box covered by the hip
// centre over the session, in normalised image coordinates.
func movementRange(frames []*analyzer.FrameResult) float64 {
	if len(frames) < 2 {
		return 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range frames {
		x, y := f.Landmarks.HipCenter2D()
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return math.Hypot(maxX-minX, maxY-minY)
}

// weaknesses promotes issue categories seen in more than 30% of frames
// and appends a coordination weakness when the plain mean score is
// below 60. The scan order over categories is fixed.
func (a *Aggregator) weaknesses(frames []*analyzer.FrameResult) []string {
	counts := make(map[analyzer.IssueCategory]int)
	for _, f := range frames {
		seen := make(map[analyzer.IssueCategory]bool)
		for _, iss := range f.Issues {
			if !seen[iss.Category] {
				seen[iss.Category] = true
				counts[iss.Category]++
			}
		}
	}

	weaknesses := []string{}
	total := float64(len(frames))
	for _, cat := range weaknessOrder {
		if float64(counts[cat])/total > weaknessFrequency {
			weaknesses = append(weaknesses, weaknessText[cat])
		}
	}

	scores := make([]float64, len(frames))
	for i, f := range frames {
		scores[i] = f.Score
	}
	if stat.Mean(scores, nil) < 60 {
		weaknesses = append(weaknesses, coordinationWeakness)
	}

	if len(weaknesses) > maxListed {
		weaknesses = weaknesses[:maxListed]
	}
	return weaknesses
}

// suggestions picks one template per promoted weakness, appends the
// sport-specific templates, then sorts by ascending priority. The sort
// is stable so ties keep insertion order.
func (a *Aggregator) suggestions(weaknesses []string) []Suggestion {
	out := []Suggestion{}
	for _, w := range weaknesses {
		for cat, text := range suggestionIndex {
			if w != text {
				continue
			}
			if tpl, ok := suggestionFor[cat]; ok {
				out = append(out, tpl)
			}
			break
		}
	}

	out = append(out, sportSuggestions(a.sport)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	if len(out) > maxListed {
		out = out[:maxListed]
	}
	return out
}

// suggestionIndex maps each weakness display string back to its
// category so suggestion lookup never re-parses free text.
var suggestionIndex = func() map[analyzer.IssueCategory]string {
	idx := make(map[analyzer.IssueCategory]string, len(weaknessText)+1)
	for cat, text := range weaknessText {
		idx[cat] = text
	}
	idx[analyzer.IssueCoordination] = coordinationWeakness
	return idx
}()

// progressNote compares the score to the mean of the most recent
// stored reports.
func (a *Aggregator) progressNote(score float64) string {
	recent := a.recentScores(progressLookback)
	if len(recent) == 0 {
		return "First session recorded, keep it up!"
	}

	delta := score - stat.Mean(recent, nil)
	switch {
	case delta > 5:
		return fmt.Sprintf("Clear improvement: up %.1f points on your recent average", delta)
	case delta > 0:
		return "Steady gains, keep pushing!"
	case delta > -5:
		return "Performance is stable; try a harder drill next time"
	default:
		return "A dip today; prioritise rest and recovery"
	}
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

func (a *Aggregator) push(r *Report) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := (a.head + a.size) % len(a.history)
	a.history[idx] = r
	if a.size < len(a.history) {
		a.size++
	} else {
		a.head = (a.head + 1) % len(a.history)
	}
}

// recentScores returns up to n most recent report scores, oldest first.
func (a *Aggregator) recentScores(n int) []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > a.size {
		n = a.size
	}
	out := make([]float64, 0, n)
	for i := a.size - n; i < a.size; i++ {
		out = append(out, a.history[(a.head+i)%len(a.history)].Score)
	}
	return out
}
