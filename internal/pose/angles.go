package pose

import "math"

// JointAngle is the measured angle at a named skeletal joint together
// with its sport-specific optimal range and the deviation outside it.
// Deviation is 0 when the angle lies inside the inclusive range,
// otherwise the distance to the nearest bound (always >= 0).
type JointAngle struct {
	Joint     string  `json:"joint"`
	Angle     float64 `json:"angle_degrees"`
	Low       float64 `json:"optimal_low"`
	High      float64 `json:"optimal_high"`
	Deviation float64 `json:"deviation"`
}

// JointTriple names a joint and the three landmark indices that define
// it: the angle is measured at Mid between the vectors to A and C.
type JointTriple struct {
	Name string
	A    int
	Mid  int
	C    int
}

// ScoredJoints is the fixed set of joints the analyzer scores every
// frame. Order is stable; per-frame output preserves it.
var ScoredJoints = []JointTriple{
	{Name: "left_elbow", A: LeftShoulder, Mid: LeftElbow, C: LeftWrist},
	{Name: "right_elbow", A: RightShoulder, Mid: RightElbow, C: RightWrist},
	{Name: "left_shoulder", A: LeftElbow, Mid: LeftShoulder, C: LeftHip},
	{Name: "right_shoulder", A: RightElbow, Mid: RightShoulder, C: RightHip},
	{Name: "left_knee", A: LeftHip, Mid: LeftKnee, C: LeftAnkle},
	{Name: "right_knee", A: RightHip, Mid: RightKnee, C: RightAnkle},
	{Name: "left_hip", A: LeftShoulder, Mid: LeftHip, C: LeftKnee},
	{Name: "right_hip", A: RightShoulder, Mid: RightHip, C: RightKnee},
}

// SymmetryPairs lists the left/right joint name pairs compared by the
// symmetry criterion.
var SymmetryPairs = [][2]string{
	{"left_elbow", "right_elbow"},
	{"left_shoulder", "right_shoulder"},
	{"left_knee", "right_knee"},
	{"left_hip", "right_hip"},
}

// AngleAt computes the angle in degrees formed at landmark mid by the
// vectors towards landmarks a and c, using the law of cosines on the
// 3D positions. The cosine is clamped to [-1,1] before acos to guard
// against floating-point overshoot on near-collinear points.
// Degenerate zero-length limbs yield 0.
func AngleAt(s *LandmarkSet, a, mid, c int) float64 {
	v1x := s[a].X - s[mid].X
	v1y := s[a].Y - s[mid].Y
	v1z := s[a].Z - s[mid].Z
	v2x := s[c].X - s[mid].X
	v2y := s[c].Y - s[mid].Y
	v2z := s[c].Z - s[mid].Z

	n1 := math.Sqrt(v1x*v1x + v1y*v1y + v1z*v1z)
	n2 := math.Sqrt(v2x*v2x + v2y*v2y + v2z*v2z)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y + v1z*v2z) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// DeviationFrom returns the signed-magnitude deviation of angle from
// the inclusive [low, high] range: 0 inside, distance to the nearest
// bound outside.
func DeviationFrom(angle, low, high float64) float64 {
	switch {
	case angle < low:
		return low - angle
	case angle > high:
		return angle - high
	default:
		return 0
	}
}

// WristAngle measures the angle at the wrist (elbow-wrist-index) on the
// given side ("left" or "right"). The wrist is not part of the scored
// joint set; sport heuristics read it directly.
func WristAngle(s *LandmarkSet, side string) float64 {
	if side == "right" {
		return AngleAt(s, RightElbow, RightWrist, RightIndex)
	}
	return AngleAt(s, LeftElbow, LeftWrist, LeftIndex)
}
