package feedback

import (
	"github.com/banshee-data/motion.report/internal/analyzer"
	"github.com/banshee-data/motion.report/internal/profile"
)

// Suggestion categories follow the coaching taxonomy, not the scoring
// criteria: several criteria map onto the same kind of advice.
const (
	CategoryPosture      = "posture"
	CategoryTiming       = "timing"
	CategoryBalance      = "balance"
	CategoryCoordination = "coordination"
)

// weaknessText is the session-level description shown for each issue
// category promoted to a weakness.
var weaknessText = map[analyzer.IssueCategory]string{
	analyzer.IssueAngle:    "joint angle control needs work",
	analyzer.IssueBalance:  "body balance is unstable",
	analyzer.IssueFluidity: "motion fluidity is lacking",
	analyzer.IssueSymmetry: "left and right sides move asymmetrically",
	analyzer.IssueOther:    "irregular motion detected",
}

// weaknessOrder fixes the promotion scan order so reports are
// deterministic regardless of map iteration.
var weaknessOrder = []analyzer.IssueCategory{
	analyzer.IssueAngle,
	analyzer.IssueBalance,
	analyzer.IssueFluidity,
	analyzer.IssueSymmetry,
	analyzer.IssueOther,
}

const coordinationWeakness = "overall coordination needs strengthening"

// suggestionFor maps a promoted weakness category to its fixed
// coaching template.
var suggestionFor = map[analyzer.IssueCategory]Suggestion{
	analyzer.IssueAngle: {
		Category:    CategoryPosture,
		Priority:    1,
		Title:       "Improve joint angle control",
		Description: "Keep the elbow and knee angles in their target ranges. Rehearse the standard form in front of a mirror.",
		Hint:        "Hold the elbow between 90 and 150 degrees",
		Drill:       "10 minutes of joint mobility work daily",
	},
	analyzer.IssueBalance: {
		Category:    CategoryBalance,
		Priority:    2,
		Title:       "Strengthen body balance",
		Description: "Build core strength to improve stability. Practise holding a steady stance.",
		Hint:        "Keep the centre of gravity between both feet",
		Drill:       "Single-leg stands, 30 seconds per side, 3 sets",
	},
	analyzer.IssueFluidity: {
		Category:    CategoryCoordination,
		Priority:    2,
		Title:       "Smooth out the motion",
		Description: "Relax the muscles and avoid stiffness. Rehearse slowly, then build up speed.",
		Hint:        "Keep the movement continuous, no pauses",
		Drill:       "Slow-motion drills, 20 repetitions per movement",
	},
	analyzer.IssueSymmetry: {
		Category:    CategoryPosture,
		Priority:    3,
		Title:       "Balance the left and right sides",
		Description: "Keep both sides moving with equal amplitude. Give the weaker side dedicated work.",
		Hint:        "Match the range of motion on both sides",
		Drill:       "15 extra minutes daily on the weaker side",
	},
	analyzer.IssueCoordination: {
		Category:    CategoryCoordination,
		Priority:    1,
		Title:       "Build whole-body coordination",
		Description: "Work on linking upper and lower body movement. Rope skipping and swimming both help.",
		Hint:        "Arms and legs should move together",
		Drill:       "Rope skipping, 10 minutes per session",
	},
}

// sportSuggestions returns the fixed per-sport templates appended
// after the weakness-driven ones.
func sportSuggestions(sport string) []Suggestion {
	switch sport {
	case profile.Badminton:
		return []Suggestion{{
			Category:    CategoryTiming,
			Priority:    2,
			Title:       "Refine the serve rhythm",
			Description: "Control the tempo of the serve and keep a consistent contact point.",
			Hint:        "Contact the shuttle about 30cm in front of the body",
			Drill:       "Fixed-target serve practice, 50 serves daily",
		}}
	default:
		return nil
	}
}

// emptyReport is returned for a session with no scored frames. It is
// not recorded in the report history.
func emptyReport() *Report {
	return &Report{
		Score:      0,
		Level:      LevelNeedsImprovement,
		Strengths:  []string{},
		Weaknesses: []string{"no valid motion detected"},
		Suggestions: []Suggestion{{
			Category:    CategoryPosture,
			Priority:    1,
			Title:       "Adjust your positioning",
			Description: "Make sure your whole body is inside the camera view.",
			Hint:        "Stand 2 to 3 metres from the camera",
		}},
		Progress: "waiting for motion detection",
	}
}
