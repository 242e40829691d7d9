// Package pose defines the body-landmark data model shared by the
// capture pipeline and the motion analyzer, plus the joint-angle
// geometry computed from it.
//
// A landmark set is the output of one pose-estimation observation: a
// fixed-length, index-addressed sequence of 33 labelled 3D points in
// normalised image coordinates. The indexing scheme is contract-stable
// across frames; a point the estimator could not see is still present,
// carrying a low visibility value.
package pose

import "math"

// NumLandmarks is the fixed length of every landmark set.
const NumLandmarks = 33

// Landmark indices follow the standard 33-point full-body scheme
// emitted by the pose estimator. Only the indices the analyzer actually
// reads are named; the set still carries all 33 entries.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftIndex     = 19
	RightIndex    = 20
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
)

// Landmark is a single tracked body point in normalised coordinates.
// Visibility is the estimator's confidence in [0,1]; absence of a point
// is expressed as low visibility, never by omission.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// LandmarkSet is one complete observation of all 33 body points.
type LandmarkSet [NumLandmarks]Landmark

// Midpoint2D returns the image-plane midpoint of two landmarks.
// The Z component is ignored; balance and footwork metrics are
// evaluated in the image plane like the estimator reports them.
func (s *LandmarkSet) Midpoint2D(a, b int) (x, y float64) {
	return (s[a].X + s[b].X) / 2, (s[a].Y + s[b].Y) / 2
}

// HipCenter2D returns the midpoint of the two hip landmarks, used as
// the body's reference position for balance and movement metrics.
func (s *LandmarkSet) HipCenter2D() (x, y float64) {
	return s.Midpoint2D(LeftHip, RightHip)
}

// AnkleCenter2D returns the midpoint of the two ankle landmarks.
func (s *LandmarkSet) AnkleCenter2D() (x, y float64) {
	return s.Midpoint2D(LeftAnkle, RightAnkle)
}

// Displacement returns the Euclidean norm of the 3D position delta
// between two landmark sets, summed over all 33 points. It is the raw
// magnitude used for per-frame displacement velocity.
func Displacement(prev, curr *LandmarkSet) float64 {
	var sum float64
	for i := 0; i < NumLandmarks; i++ {
		dx := curr[i].X - prev[i].X
		dy := curr[i].Y - prev[i].Y
		dz := curr[i].Z - prev[i].Z
		sum += dx*dx + dy*dy + dz*dz
	}
	return math.Sqrt(sum)
}
