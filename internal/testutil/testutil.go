// Package testutil provides shared fixtures and assertion helpers.
//
// The pose fixtures are geometrically constructed so their joint angles
// are known in closed form, which keeps scoring tests deterministic
// without golden files.
package testutil

import (
	"testing"

	"github.com/banshee-data/motion.report/internal/pose"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func set(s *pose.LandmarkSet, idx int, x, y float64) {
	s[idx] = pose.Landmark{X: x, Y: y, Z: 0, Visibility: 1.0}
}

// GoodPose returns a symmetric crouched figure whose eight scored
// joint angles all fall inside the wide default range [45, 135]:
// elbows 90.0°, shoulders ≈49.6°, knees ≈93.9°, hips ≈132.4°.
// Hip centre to ankle centre offset is 0.30, so the balance criterion
// lands in its worst tier; everything else is clean.
func GoodPose() pose.LandmarkSet {
	var s pose.LandmarkSet
	for i := 0; i < pose.NumLandmarks; i++ {
		set(&s, i, 0.5, 0.2) // head/torso filler points
	}
	set(&s, pose.LeftShoulder, 0.40, 0.30)
	set(&s, pose.RightShoulder, 0.60, 0.30)
	set(&s, pose.LeftElbow, 0.30, 0.40)
	set(&s, pose.RightElbow, 0.70, 0.40)
	set(&s, pose.LeftWrist, 0.40, 0.50)
	set(&s, pose.RightWrist, 0.60, 0.50)
	set(&s, pose.LeftHip, 0.42, 0.55)
	set(&s, pose.RightHip, 0.58, 0.55)
	set(&s, pose.LeftKnee, 0.28, 0.70)
	set(&s, pose.RightKnee, 0.72, 0.70)
	set(&s, pose.LeftAnkle, 0.42, 0.85)
	set(&s, pose.RightAnkle, 0.58, 0.85)
	return s
}

// StraightPose returns a fully extended standing figure: every scored
// joint measures 0° or 180°, deviating 45° from the default range, so
// the angle criterion sits at its worst step for all eight joints.
// The pose is left/right symmetric.
func StraightPose() pose.LandmarkSet {
	var s pose.LandmarkSet
	for i := 0; i < pose.NumLandmarks; i++ {
		set(&s, i, 0.5, 0.2)
	}
	set(&s, pose.LeftShoulder, 0.45, 0.30)
	set(&s, pose.RightShoulder, 0.55, 0.30)
	set(&s, pose.LeftElbow, 0.45, 0.45)
	set(&s, pose.RightElbow, 0.55, 0.45)
	set(&s, pose.LeftWrist, 0.45, 0.60)
	set(&s, pose.RightWrist, 0.55, 0.60)
	set(&s, pose.LeftHip, 0.45, 0.60)
	set(&s, pose.RightHip, 0.55, 0.60)
	set(&s, pose.LeftKnee, 0.45, 0.80)
	set(&s, pose.RightKnee, 0.55, 0.80)
	set(&s, pose.LeftAnkle, 0.45, 1.00)
	set(&s, pose.RightAnkle, 0.55, 1.00)
	return s
}

// ShiftedPose returns the given pose translated horizontally by dx,
// which moves every landmark but preserves all joint angles and the
// hip/ankle offset. Useful for exercising the fluidity criterion.
func ShiftedPose(s pose.LandmarkSet, dx float64) pose.LandmarkSet {
	for i := range s {
		s[i].X += dx
	}
	return s
}
