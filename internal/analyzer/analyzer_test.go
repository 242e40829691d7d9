package analyzer

import (
	"math"
	"testing"
	"time"

	"github.com/banshee-data/motion.report/internal/profile"
	"github.com/banshee-data/motion.report/internal/testutil"
)

const frameInterval = time.Second / 30

func newTestAnalyzer(sport string) *Analyzer {
	return New(Config{Sport: sport, Profiles: profile.NewRegistry()})
}

func TestWeightsSumToOne(t *testing.T) {
	sum := weightAngles + weightBalance + weightFluidity + weightSymmetry
	if math.Abs(sum-1.0) > 1e-12 {
		t.Fatalf("criterion weights sum to %f, want 1.0", sum)
	}
}

func TestProcess_GoodPoseScore(t *testing.T) {
	// GoodPose: all angles in range (1.0), balance worst tier (0.4),
	// fluidity neutral on first frame (1.0), symmetric (1.0).
	// 0.4*1.0 + 0.3*0.4 + 0.2*1.0 + 0.1*1.0 = 0.82 -> 82.
	a := newTestAnalyzer(profile.Yoga)
	set := testutil.GoodPose()

	fr := a.Process(&set, time.Unix(0, 0))
	if math.Abs(fr.Score-82.0) > 1e-9 {
		t.Errorf("score = %f, want 82.0", fr.Score)
	}
	for _, iss := range fr.Issues {
		if iss.Category == IssueAngle {
			t.Errorf("unexpected angle issue: %s", iss.Text)
		}
		if iss.Category == IssueSymmetry {
			t.Errorf("unexpected symmetry issue: %s", iss.Text)
		}
	}
}

func TestProcess_StraightPoseScore(t *testing.T) {
	// StraightPose: every joint 45° outside range (0.2), balance worst
	// tier (0.4), fluidity neutral (1.0), symmetric (1.0).
	// 0.4*0.2 + 0.3*0.4 + 0.2*1.0 + 0.1*1.0 = 0.50 -> 50.
	a := newTestAnalyzer(profile.Yoga)
	set := testutil.StraightPose()

	fr := a.Process(&set, time.Unix(0, 0))
	if math.Abs(fr.Score-50.0) > 1e-9 {
		t.Errorf("score = %f, want 50.0", fr.Score)
	}

	angleIssues := 0
	for _, iss := range fr.Issues {
		if iss.Category == IssueAngle {
			angleIssues++
		}
	}
	if angleIssues != 8 {
		t.Errorf("angle issues = %d, want 8 (one per joint)", angleIssues)
	}
}

func TestProcess_ScoreAlwaysInRange(t *testing.T) {
	a := newTestAnalyzer(profile.Badminton)

	for i := 0; i < 50; i++ {
		set := testutil.GoodPose()
		if i%2 == 1 {
			set = testutil.StraightPose()
		}
		fr := a.Process(&set, time.Unix(0, int64(i)*int64(frameInterval)))
		if fr.Score < 0 || fr.Score > 100 {
			t.Fatalf("frame %d: score %f outside [0,100]", i, fr.Score)
		}
		for _, ja := range fr.Angles {
			if ja.Angle < 0 || ja.Angle > 180 {
				t.Fatalf("frame %d: joint %s angle %f outside [0,180]", i, ja.Joint, ja.Angle)
			}
			if ja.Deviation < 0 {
				t.Fatalf("frame %d: joint %s negative deviation", i, ja.Joint)
			}
			inRange := ja.Angle >= ja.Low && ja.Angle <= ja.High
			if inRange != (ja.Deviation == 0) {
				t.Fatalf("frame %d: joint %s deviation %f inconsistent with range [%f,%f] angle %f",
					i, ja.Joint, ja.Deviation, ja.Low, ja.High, ja.Angle)
			}
		}
	}
}

func TestScoreFluidity_NeutralBelowWindow(t *testing.T) {
	a := newTestAnalyzer(profile.Yoga)

	// Nine wildly jumping frames: still below the ten-frame window, so
	// fluidity must return exactly the neutral score.
	base := testutil.GoodPose()
	for i := 0; i < fluidityWindow-1; i++ {
		set := testutil.ShiftedPose(base, float64(i%2)) // alternating 1.0 jumps
		a.Process(&set, time.Unix(0, int64(i)*int64(frameInterval)))
	}

	var issues []Issue
	if got := a.scoreFluidity(&issues); got != 1.0 {
		t.Errorf("fluidity with %d history frames = %f, want exactly 1.0", a.history.Size(), got)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected fluidity issues below window: %v", issues)
	}
}

func TestScoreFluidity_SteadyMotion(t *testing.T) {
	a := newTestAnalyzer(profile.Yoga)

	// Constant small displacement at constant rate: zero velocity
	// spread, best fluidity tier.
	base := testutil.GoodPose()
	for i := 0; i < fluidityWindow+5; i++ {
		set := testutil.ShiftedPose(base, 0.001*float64(i))
		a.Process(&set, time.Unix(0, int64(i)*int64(frameInterval)))
	}

	var issues []Issue
	if got := a.scoreFluidity(&issues); got != 1.0 {
		t.Errorf("fluidity for steady motion = %f, want 1.0", got)
	}
}

func TestScoreFluidity_JerkyMotion(t *testing.T) {
	a := newTestAnalyzer(profile.Yoga)

	// Hold for two frames then jump: velocities alternate between zero
	// and a large value, so the spread far exceeds the worst threshold.
	base := testutil.GoodPose()
	for i := 0; i < fluidityWindow+5; i++ {
		set := testutil.ShiftedPose(base, 0.5*float64((i/2)%2))
		a.Process(&set, time.Unix(0, int64(i)*int64(frameInterval)))
	}

	var issues []Issue
	if got := a.scoreFluidity(&issues); got != 0.4 {
		t.Errorf("fluidity for jerky motion = %f, want 0.4", got)
	}
	if len(issues) != 1 || issues[0].Category != IssueFluidity {
		t.Errorf("expected one fluidity issue, got %v", issues)
	}
}

func TestProcess_HistoryBounded(t *testing.T) {
	a := New(Config{Sport: profile.Badminton, HistoryCapacity: 20})
	set := testutil.GoodPose()
	for i := 0; i < 50; i++ {
		a.Process(&set, time.Unix(int64(i), 0))
	}
	if got := a.History().Size(); got != 20 {
		t.Errorf("history size = %d, want 20", got)
	}
}

func TestReset(t *testing.T) {
	a := newTestAnalyzer(profile.Badminton)
	set := testutil.GoodPose()
	a.Process(&set, time.Unix(0, 0))
	a.Reset()
	if a.History().Size() != 0 {
		t.Error("history not cleared by Reset")
	}
}

func TestMovementAndSpeedMetrics(t *testing.T) {
	a := newTestAnalyzer(profile.Badminton)

	if d := a.MovementDistance(); d != 0 {
		t.Errorf("movement distance with empty history = %f", d)
	}

	// Move the whole body 0.03 per frame at 30fps: hip-centre speed is
	// 0.03 * 30 = 0.9 units/s, distance over n-1 steps is 0.03*(n-1).
	base := testutil.GoodPose()
	const n = 11
	for i := 0; i < n; i++ {
		set := testutil.ShiftedPose(base, 0.03*float64(i))
		a.Process(&set, time.Unix(0, int64(i)*int64(frameInterval)))
	}

	wantDist := 0.03 * float64(n-1)
	if d := a.MovementDistance(); math.Abs(d-wantDist) > 1e-9 {
		t.Errorf("movement distance = %f, want %f", d, wantDist)
	}
	avg, max := a.SpeedMetrics()
	if math.Abs(avg-0.9) > 1e-6 || math.Abs(max-0.9) > 1e-6 {
		t.Errorf("speed metrics avg=%f max=%f, want 0.9 each", avg, max)
	}
}
