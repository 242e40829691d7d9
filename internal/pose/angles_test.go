package pose

import (
	"math"
	"testing"
)

// setPoint places a landmark at the given position with full visibility.
func setPoint(s *LandmarkSet, idx int, x, y, z float64) {
	s[idx] = Landmark{X: x, Y: y, Z: z, Visibility: 1.0}
}

func TestAngleAt_RightAngle(t *testing.T) {
	var s LandmarkSet
	setPoint(&s, LeftShoulder, 0, 1, 0)
	setPoint(&s, LeftElbow, 0, 0, 0)
	setPoint(&s, LeftWrist, 1, 0, 0)

	angle := AngleAt(&s, LeftShoulder, LeftElbow, LeftWrist)
	if math.Abs(angle-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %f", angle)
	}
}

func TestAngleAt_StraightLimb(t *testing.T) {
	var s LandmarkSet
	setPoint(&s, LeftShoulder, -1, 0, 0)
	setPoint(&s, LeftElbow, 0, 0, 0)
	setPoint(&s, LeftWrist, 1, 0, 0)

	angle := AngleAt(&s, LeftShoulder, LeftElbow, LeftWrist)
	if math.Abs(angle-180) > 1e-9 {
		t.Errorf("expected 180 degrees, got %f", angle)
	}
}

func TestAngleAt_CollinearClampsCosine(t *testing.T) {
	// Both vectors identical: cosine should clamp to exactly 1, angle 0.
	var s LandmarkSet
	setPoint(&s, LeftShoulder, 0.3, 0.3, 0.3)
	setPoint(&s, LeftElbow, 0, 0, 0)
	setPoint(&s, LeftWrist, 0.3, 0.3, 0.3)

	angle := AngleAt(&s, LeftShoulder, LeftElbow, LeftWrist)
	if angle != 0 {
		t.Errorf("expected 0 degrees for identical vectors, got %f", angle)
	}
}

func TestAngleAt_DegenerateLimb(t *testing.T) {
	// Mid and endpoint coincide: zero-length vector must not panic.
	var s LandmarkSet
	setPoint(&s, LeftShoulder, 0, 0, 0)
	setPoint(&s, LeftElbow, 0, 0, 0)
	setPoint(&s, LeftWrist, 1, 0, 0)

	if angle := AngleAt(&s, LeftShoulder, LeftElbow, LeftWrist); angle != 0 {
		t.Errorf("expected 0 for degenerate limb, got %f", angle)
	}
}

// Angles are always in [0, 180] for arbitrary landmark placements.
func TestAngleAt_Range(t *testing.T) {
	positions := [][3]float64{
		{0.1, 0.9, -0.3}, {0.5, 0.5, 0.5}, {-0.2, 0.4, 0.7},
		{0.9, 0.1, 0.2}, {0.3, -0.6, 0.1},
	}
	for i, pa := range positions {
		for j, pc := range positions {
			var s LandmarkSet
			setPoint(&s, LeftShoulder, pa[0], pa[1], pa[2])
			setPoint(&s, LeftElbow, 0.2, 0.2, 0.2)
			setPoint(&s, LeftWrist, pc[0], pc[1], pc[2])
			angle := AngleAt(&s, LeftShoulder, LeftElbow, LeftWrist)
			if angle < 0 || angle > 180 {
				t.Errorf("case (%d,%d): angle %f outside [0,180]", i, j, angle)
			}
		}
	}
}

func TestDeviationFrom(t *testing.T) {
	cases := []struct {
		angle, low, high, want float64
	}{
		{120, 90, 150, 0},   // inside
		{90, 90, 150, 0},    // inclusive lower bound
		{150, 90, 150, 0},   // inclusive upper bound
		{80, 90, 150, 10},   // below
		{170, 90, 150, 20},  // above
		{0, 45, 135, 45},    // far below
		{180, 45, 135, 45},  // far above
	}
	for _, c := range cases {
		got := DeviationFrom(c.angle, c.low, c.high)
		if got != c.want {
			t.Errorf("DeviationFrom(%f, %f, %f) = %f, want %f", c.angle, c.low, c.high, got, c.want)
		}
		if got < 0 {
			t.Errorf("deviation must never be negative, got %f", got)
		}
	}
}

func TestDisplacement(t *testing.T) {
	var a, b LandmarkSet
	// Shift every point by (0.1, 0, 0): norm = sqrt(33 * 0.01).
	for i := 0; i < NumLandmarks; i++ {
		setPoint(&a, i, 0, 0, 0)
		setPoint(&b, i, 0.1, 0, 0)
	}
	want := math.Sqrt(float64(NumLandmarks) * 0.01)
	if got := Displacement(&a, &b); math.Abs(got-want) > 1e-9 {
		t.Errorf("Displacement = %f, want %f", got, want)
	}
	if got := Displacement(&a, &a); got != 0 {
		t.Errorf("Displacement of identical sets = %f, want 0", got)
	}
}

func TestMidpoints(t *testing.T) {
	var s LandmarkSet
	setPoint(&s, LeftHip, 0.4, 0.5, 0)
	setPoint(&s, RightHip, 0.6, 0.5, 0)
	setPoint(&s, LeftAnkle, 0.4, 0.9, 0)
	setPoint(&s, RightAnkle, 0.6, 0.9, 0)

	hx, hy := s.HipCenter2D()
	if hx != 0.5 || hy != 0.5 {
		t.Errorf("HipCenter2D = (%f, %f), want (0.5, 0.5)", hx, hy)
	}
	ax, ay := s.AnkleCenter2D()
	if ax != 0.5 || ay != 0.9 {
		t.Errorf("AnkleCenter2D = (%f, %f), want (0.5, 0.9)", ax, ay)
	}
}
