package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/claude/logbook/internal/models"
)

// TrendSessionWindow is how many of the newest sessions feed the trend.
const TrendSessionWindow = 500

// Point is one bodyweight reading.
type Point struct {
	Date       string  `json:"date"`
	Bodyweight float64 `json:"bodyweight"`
}

// Trend summarizes bodyweight over a trailing window of days. With fewer than
// two points only Days and Points are set.
type Trend struct {
	Days         int     `json:"days"`
	Points       []Point `json:"points"`
	Change       float64 `json:"change"`
	PerWeek      float64 `json:"per_week"`
	Mean         float64 `json:"mean"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	SlopePerWeek float64 `json:"slope_per_week"`
}

// Enough reports whether the trend has at least two points.
func (t Trend) Enough() bool {
	return len(t.Points) >= 2
}

// BodyweightTrend loads recent sessions and summarizes the trailing days.
func (e *Engine) BodyweightTrend(ctx context.Context, days int, now time.Time) (Trend, error) {
	sessions, err := e.store.RecentSessions(ctx, TrendSessionWindow)
	if err != nil {
		return Trend{}, fmt.Errorf("loading sessions for trend: %w", err)
	}
	return BodyweightTrend(sessions, days, now), nil
}

// BodyweightTrend summarizes the sessions with a bodyweight whose day starts
// no earlier than now minus days. Points are ordered oldest first. Change is
// last minus first and PerWeek spreads that change over days/7 weeks, both to
// one decimal. The slope is a least-squares fit per week.
func BodyweightTrend(sessions []models.Session, days int, now time.Time) Trend {
	t := Trend{Days: days, Points: []Point{}}
	if days <= 0 {
		return t
	}

	type dated struct {
		day time.Time
		id  int64
		bw  float64
	}
	cutoff := now.AddDate(0, 0, -days)
	var pts []dated
	for _, s := range sessions {
		if s.Bodyweight == nil {
			continue
		}
		day, err := time.ParseInLocation(models.DateLayout, s.Date, now.Location())
		if err != nil || day.Before(cutoff) {
			continue
		}
		pts = append(pts, dated{day: day, id: s.ID, bw: *s.Bodyweight})
	}
	sort.Slice(pts, func(i, j int) bool {
		if !pts[i].day.Equal(pts[j].day) {
			return pts[i].day.Before(pts[j].day)
		}
		return pts[i].id < pts[j].id
	})

	ys := make([]float64, len(pts))
	xs := make([]float64, len(pts))
	for i, p := range pts {
		t.Points = append(t.Points, Point{Date: p.day.Format(models.DateLayout), Bodyweight: p.bw})
		ys[i] = p.bw
		xs[i] = p.day.Sub(pts[0].day).Hours() / 24
	}
	if !t.Enough() {
		return t
	}

	t.Change = roundTenth(ys[len(ys)-1] - ys[0])
	t.PerWeek = roundTenth(t.Change / (float64(days) / 7))

	data := stats.Float64Data(ys)
	t.Mean, _ = data.Mean()
	t.Min, _ = data.Min()
	t.Max, _ = data.Max()

	_, beta := stat.LinearRegression(xs, ys, nil, false)
	if !math.IsNaN(beta) && !math.IsInf(beta, 0) {
		t.SlopePerWeek = roundTenth(beta * 7)
	}
	return t
}
