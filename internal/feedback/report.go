// Package feedback turns a session's accumulated frame results into a
// structured coaching report: an overall score with a recency bias,
// derived strengths and weaknesses, and a prioritised suggestion list.
package feedback

import (
	"fmt"
	"time"
)

// Level buckets an overall score into a coarse performance tier.
type Level string

const (
	LevelExcellent        Level = "excellent"         // score >= 90
	LevelGood             Level = "good"              // score >= 75
	LevelFair             Level = "fair"              // score >= 60
	LevelNeedsImprovement Level = "needs_improvement" // everything else
)

// levelFor applies the inclusive-lower tier boundaries.
func levelFor(score float64) Level {
	switch {
	case score >= 90:
		return LevelExcellent
	case score >= 75:
		return LevelGood
	case score >= 60:
		return LevelFair
	default:
		return LevelNeedsImprovement
	}
}

// Suggestion is one actionable coaching recommendation. Priority runs
// 1 to 5 with 1 the most urgent.
type Suggestion struct {
	Category    string `json:"category"`
	Priority    int    `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Hint        string `json:"hint,omitempty"`
	Drill       string `json:"drill,omitempty"`
}

// Report is the session-level feedback document. Reports are immutable
// once generated.
type Report struct {
	Score       float64      `json:"score"`
	Level       Level        `json:"level"`
	Strengths   []string     `json:"strengths"`
	Weaknesses  []string     `json:"weaknesses"`
	Suggestions []Suggestion `json:"suggestions"`
	Progress    string       `json:"progress"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// VoiceText renders the report as a single spoken-style summary line.
func VoiceText(r *Report) string {
	text := fmt.Sprintf("Your overall score is %.0f. ", r.Score)
	switch r.Level {
	case LevelExcellent:
		text += "An outstanding performance!"
	case LevelGood:
		text += "A good performance!"
	case LevelFair:
		text += "There is room to improve."
	default:
		text += "More practice is needed."
	}
	if len(r.Strengths) > 0 {
		text += fmt.Sprintf(" Your strength: %s.", r.Strengths[0])
	}
	if len(r.Suggestions) > 0 {
		text += fmt.Sprintf(" Suggestion: %s", r.Suggestions[0].Description)
	}
	return text
}
