package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/motion.report/internal/httputil"
)

// sessionsChart renders an HTML line chart of stored session scores in
// chronological order. Query params: user (optional filter), limit
// (default 50).
func (s *Server) sessionsChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "report store not configured")
		return
	}

	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	user := r.URL.Query().Get("user")

	sessions, err := s.db.ScoreTimeline(user, limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("load score timeline: %v", err))
		return
	}
	if len(sessions) == 0 {
		httputil.NotFound(w, "no stored sessions to chart")
		return
	}

	x := make([]string, len(sessions))
	y := make([]opts.LineData, len(sessions))
	for i, sess := range sessions {
		x[i] = sess.StartedAt.Format("01-02 15:04")
		y[i] = opts.LineData{Value: sess.Score, Name: sess.Sport}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Session Scores", Width: "1000px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Session Scores", Subtitle: fmt.Sprintf("sessions=%d user=%s", len(sessions), user)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, Name: "score"}),
	)
	line.SetXAxis(x).AddSeries("score", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
