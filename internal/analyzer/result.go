// Package analyzer converts a single landmark observation into joint
// angles, per-criterion sub-scores, a combined frame score and a list
// of categorised issues, maintaining a bounded rolling history for the
// temporal fluidity criterion.
package analyzer

import (
	"time"

	"github.com/banshee-data/motion.report/internal/pose"
)

// IssueCategory tags an issue with its criterion at the point of
// emission, so downstream aggregation never has to re-parse issue text.
type IssueCategory string

const (
	IssueAngle        IssueCategory = "angle"
	IssueBalance      IssueCategory = "balance"
	IssueFluidity     IssueCategory = "fluidity"
	IssueSymmetry     IssueCategory = "symmetry"
	IssueCoordination IssueCategory = "coordination"
	IssueOther        IssueCategory = "other"
)

// Issue is one human-readable observation about a frame, tagged with
// the criterion that produced it.
type Issue struct {
	Category IssueCategory `json:"category"`
	Text     string        `json:"text"`
}

// FrameResult is the complete scored analysis of one observation.
// Immutable after creation; the analyzer's rolling history holds one
// reference and the session accumulates another.
type FrameResult struct {
	Timestamp time.Time        `json:"timestamp"`
	Landmarks pose.LandmarkSet `json:"-"`
	Angles    []pose.JointAngle `json:"joint_angles"`
	Score     float64          `json:"score"` // combined score in [0,100]
	Issues    []Issue          `json:"issues"`
}

// IssueTexts returns just the text of each issue, for API payloads.
func (fr *FrameResult) IssueTexts() []string {
	out := make([]string, len(fr.Issues))
	for i, iss := range fr.Issues {
		out[i] = iss.Text
	}
	return out
}
