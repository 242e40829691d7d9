package analyzer

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/motion.report/internal/pose"
	"github.com/banshee-data/motion.report/internal/profile"
)

// Criterion weights. They sum to 1.0; the combined frame score is the
// weighted sum scaled to [0,100].
const (
	weightAngles   = 0.4
	weightBalance  = 0.3
	weightFluidity = 0.2
	weightSymmetry = 0.1
)

// fluidityWindow is how many recent frames feed the velocity-variance
// criterion. Below this count the criterion returns the neutral score.
const fluidityWindow = 10

// Analyzer scores one session's frames against a sport profile.
// Not safe for concurrent use: exactly one goroutine (the pipeline's
// process loop) owns it.
type Analyzer struct {
	sport   string
	ranges  profile.SportProfile
	history *History
}

// Config holds analyzer construction parameters.
type Config struct {
	Sport           string
	Profiles        *profile.Registry
	HistoryCapacity int // 0 = DefaultHistoryCapacity
}

// New creates an analyzer for one sport. The profile lookup happens
// once here; the table is read-only afterwards.
func New(cfg Config) *Analyzer {
	reg := cfg.Profiles
	if reg == nil {
		reg = profile.NewRegistry()
	}
	return &Analyzer{
		sport:   cfg.Sport,
		ranges:  reg.Lookup(cfg.Sport),
		history: NewHistory(cfg.HistoryCapacity),
	}
}

// Sport returns the sport this analyzer was configured for.
func (a *Analyzer) Sport() string { return a.sport }

// History exposes the rolling history for read-only sampling.
func (a *Analyzer) History() *History { return a.history }

// Process scores one landmark observation. The returned FrameResult is
// immutable; it is appended to the rolling history before returning.
func (a *Analyzer) Process(set *pose.LandmarkSet, ts time.Time) *FrameResult {
	angles := a.jointAngles(set)

	var issues []Issue
	angleScore := a.scoreAngles(angles, &issues)
	balanceScore := a.scoreBalance(set, &issues)
	fluidityScore := a.scoreFluidity(&issues)
	symmetryScore := a.scoreSymmetry(angles, &issues)

	combined := (angleScore*weightAngles +
		balanceScore*weightBalance +
		fluidityScore*weightFluidity +
		symmetryScore*weightSymmetry) * 100
	combined = math.Max(0, math.Min(100, combined))

	fr := &FrameResult{
		Timestamp: ts,
		Landmarks: *set,
		Angles:    angles,
		Score:     combined,
		Issues:    issues,
	}
	a.history.Add(fr)
	return fr
}

// Reset clears the rolling history between sessions.
func (a *Analyzer) Reset() {
	a.history.Clear()
}

func (a *Analyzer) jointAngles(set *pose.LandmarkSet) []pose.JointAngle {
	angles := make([]pose.JointAngle, 0, len(pose.ScoredJoints))
	for _, jt := range pose.ScoredJoints {
		angle := pose.AngleAt(set, jt.A, jt.Mid, jt.C)
		rng := a.ranges[jt.Name]
		angles = append(angles, pose.JointAngle{
			Joint:     jt.Name,
			Angle:     angle,
			Low:       rng.Low,
			High:      rng.High,
			Deviation: pose.DeviationFrom(angle, rng.Low, rng.High),
		})
	}
	return angles
}

// scoreAngles maps each joint's deviation through a step function and
// averages. Deviations past the first step emit a graded issue naming
// the joint.
func (a *Analyzer) scoreAngles(angles []pose.JointAngle, issues *[]Issue) float64 {
	if len(angles) == 0 {
		return 0
	}
	scores := make([]float64, 0, len(angles))
	for _, ja := range angles {
		switch {
		case ja.Deviation == 0:
			scores = append(scores, 1.0)
		case ja.Deviation < 10:
			scores = append(scores, 0.9)
		case ja.Deviation < 20:
			scores = append(scores, 0.7)
			*issues = append(*issues, Issue{
				Category: IssueAngle,
				Text:     fmt.Sprintf("%s angle slightly off (%.1f°)", ja.Joint, ja.Deviation),
			})
		case ja.Deviation < 30:
			scores = append(scores, 0.5)
			*issues = append(*issues, Issue{
				Category: IssueAngle,
				Text:     fmt.Sprintf("%s angle well outside range (%.1f°)", ja.Joint, ja.Deviation),
			})
		default:
			scores = append(scores, 0.2)
			*issues = append(*issues, Issue{
				Category: IssueAngle,
				Text:     fmt.Sprintf("%s angle severely off (%.1f°)", ja.Joint, ja.Deviation),
			})
		}
	}
	return stat.Mean(scores, nil)
}

// scoreBalance measures the normalised image-plane offset between the
// hip centre and the ankle centre.
func (a *Analyzer) scoreBalance(set *pose.LandmarkSet, issues *[]Issue) float64 {
	hx, hy := set.HipCenter2D()
	ax, ay := set.AnkleCenter2D()
	offset := math.Hypot(hx-ax, hy-ay)

	switch {
	case offset < 0.1:
		return 1.0
	case offset < 0.2:
		return 0.8
	case offset < 0.3:
		*issues = append(*issues, Issue{
			Category: IssueBalance,
			Text:     "centre of gravity slightly shifted",
		})
		return 0.6
	default:
		*issues = append(*issues, Issue{
			Category: IssueBalance,
			Text:     "poor body balance",
		})
		return 0.4
	}
}

// scoreFluidity evaluates the spread of per-step landmark displacement
// velocity across the recent rolling history. With fewer than
// fluidityWindow frames it returns the neutral score: a short history
// is not evidence of jerky motion.
func (a *Analyzer) scoreFluidity(issues *[]Issue) float64 {
	if a.history.Size() < fluidityWindow {
		return 1.0
	}

	recent := a.history.Recent(fluidityWindow)
	velocities := make([]float64, 0, len(recent)-1)
	for i := 1; i < len(recent); i++ {
		dt := recent[i].Timestamp.Sub(recent[i-1].Timestamp).Seconds()
		if dt <= 0 {
			continue
		}
		d := pose.Displacement(&recent[i-1].Landmarks, &recent[i].Landmarks)
		velocities = append(velocities, d/dt)
	}
	if len(velocities) < 2 {
		return 1.0
	}

	sd := stat.StdDev(velocities, nil)
	switch {
	case sd < 0.5:
		return 1.0
	case sd < 1.0:
		return 0.8
	case sd < 2.0:
		*issues = append(*issues, Issue{
			Category: IssueFluidity,
			Text:     "movement fluidity could improve",
		})
		return 0.6
	default:
		*issues = append(*issues, Issue{
			Category: IssueFluidity,
			Text:     "movement is jerky",
		})
		return 0.4
	}
}

// scoreSymmetry compares the measured angles of the four left/right
// joint pairs.
func (a *Analyzer) scoreSymmetry(angles []pose.JointAngle, issues *[]Issue) float64 {
	byName := make(map[string]float64, len(angles))
	for _, ja := range angles {
		byName[ja.Joint] = ja.Angle
	}

	diffs := make([]float64, 0, len(pose.SymmetryPairs))
	for _, pair := range pose.SymmetryPairs {
		left, okL := byName[pair[0]]
		right, okR := byName[pair[1]]
		if okL && okR {
			diffs = append(diffs, math.Abs(left-right))
		}
	}
	if len(diffs) == 0 {
		return 1.0
	}

	avg := stat.Mean(diffs, nil)
	switch {
	case avg < 10:
		return 1.0
	case avg < 20:
		return 0.8
	case avg < 30:
		*issues = append(*issues, Issue{
			Category: IssueSymmetry,
			Text:     "left/right symmetry needs work",
		})
		return 0.6
	default:
		*issues = append(*issues, Issue{
			Category: IssueSymmetry,
			Text:     "left and right sides move asymmetrically",
		})
		return 0.4
	}
}

// MovementDistance sums the hip-centre travel across the whole rolling
// history, in normalised image units.
func (a *Analyzer) MovementDistance() float64 {
	frames := a.history.All()
	if len(frames) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(frames); i++ {
		px, py := frames[i-1].Landmarks.HipCenter2D()
		cx, cy := frames[i].Landmarks.HipCenter2D()
		total += math.Hypot(cx-px, cy-py)
	}
	return total
}

// SpeedMetrics returns the average and maximum hip-centre speed over
// the rolling history, in normalised image units per second.
func (a *Analyzer) SpeedMetrics() (avg, max float64) {
	frames := a.history.All()
	if len(frames) < 2 {
		return 0, 0
	}
	speeds := make([]float64, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		dt := frames[i].Timestamp.Sub(frames[i-1].Timestamp).Seconds()
		if dt <= 0 {
			continue
		}
		px, py := frames[i-1].Landmarks.HipCenter2D()
		cx, cy := frames[i].Landmarks.HipCenter2D()
		speed := math.Hypot(cx-px, cy-py) / dt
		speeds = append(speeds, speed)
		if speed > max {
			max = speed
		}
	}
	if len(speeds) == 0 {
		return 0, 0
	}
	return stat.Mean(speeds, nil), max
}
