package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/banshee-data/motion.report/internal/feedback"
	"github.com/banshee-data/motion.report/internal/session"
)

// SessionSummary is one row of stored-session history.
type SessionSummary struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id,omitempty"`
	Sport      string    `json:"sport"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	FrameCount int       `json:"frame_count"`
	Score      float64   `json:"score"`
	Level      string    `json:"level"`
}

// DailyProgress is the average score of one day's sessions, backing
// the progress rollup endpoint.
type DailyProgress struct {
	Day      string  `json:"day"`
	AvgScore float64 `json:"avg_score"`
	Sessions int     `json:"sessions"`
}

// SaveReport persists a finished session. The full report is stored as
// JSON next to the queryable summary columns. Implements
// session.ReportSink.
func (db *DB) SaveReport(rec session.ReportRecord) error {
	body, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO sessions
			(session_id, user_id, sport, started_at, duration_ms, frame_count, score, level, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.UserID, rec.Sport, rec.StartedAt,
		rec.Duration.Milliseconds(), rec.Frames,
		rec.Report.Score, string(rec.Report.Level), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", rec.SessionID, err)
	}
	return nil
}

// ListSessions returns stored session summaries, newest first. Empty
// userID matches all users; limit <= 0 defaults to 10.
func (db *DB) ListSessions(userID string, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT session_id, user_id, sport, started_at, duration_ms, frame_count, score, level
		FROM sessions
		WHERE (? = '' OR user_id = ?)
		ORDER BY started_at DESC
		LIMIT ?`,
		userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.UserID, &s.Sport, &s.StartedAt,
			&s.DurationMs, &s.FrameCount, &s.Score, &s.Level); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SessionReport loads the stored feedback report for one session.
// sql.ErrNoRows when the id is unknown.
func (db *DB) SessionReport(sessionID string) (*feedback.Report, error) {
	var body string
	err := db.QueryRow(
		`SELECT report_json FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&body)
	if err != nil {
		return nil, err
	}

	var report feedback.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report for %s: %w", sessionID, err)
	}
	return &report, nil
}

// ProgressByDay rolls stored scores up to a per-day average over the
// trailing window. Empty userID matches all users; days <= 0 defaults
// to 30.
func (db *DB) ProgressByDay(userID string, days int) ([]DailyProgress, error) {
	if days <= 0 {
		days = 30
	}

	rows, err := db.Query(`
		SELECT date(started_at) AS day, AVG(score), COUNT(*)
		FROM sessions
		WHERE (? = '' OR user_id = ?)
		  AND started_at >= datetime('now', ?)
		GROUP BY day
		ORDER BY day`,
		userID, userID, fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, fmt.Errorf("progress rollup: %w", err)
	}
	defer rows.Close()

	var out []DailyProgress
	for rows.Next() {
		var p DailyProgress
		if err := rows.Scan(&p.Day, &p.AvgScore, &p.Sessions); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ScoreTimeline returns (started_at, score) pairs for the chart
// endpoint, oldest first. limit <= 0 defaults to 50.
func (db *DB) ScoreTimeline(userID string, limit int) ([]SessionSummary, error) {
	sessions, err := db.ListSessions(userID, limitOrDefault(limit, 50))
	if err != nil {
		return nil, err
	}
	// ListSessions is newest first; the chart wants chronological.
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

func limitOrDefault(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
