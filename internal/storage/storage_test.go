package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/claude/logbook/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func session(date, typ string, bw *float64) models.Session {
	return models.Session{
		Date:       date,
		Type:       typ,
		Bodyweight: bw,
		CreatedAt:  time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
	}
}

// TestCreateSessionDenormalizes verifies sets are bound to the new session and
// carry copies of its date, type and bodyweight.
func TestCreateSessionDenormalizes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := session("2024-03-01", "FB-A", fp(181.5))
	s.Calories = ip(3200)
	s.Sleep = fp(7.5)
	id, err := db.CreateSession(ctx, s, []models.SetInput{
		{Exercise: "Bench Press", SetType: "Top Set", Load: "225", Reps: ip(5), RIR: fp(1)},
		{Exercise: "Bench Press", SetType: "Back-off", Load: "205", Reps: ip(8), Notes: "paused"},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	got := sessions[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "2024-03-01", got.Date)
	assert.Equal(t, int64(3200), *got.Calories)
	assert.Equal(t, 7.5, *got.Sleep)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))

	sets, err := db.Sets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	for _, set := range sets {
		assert.Equal(t, id, set.SessionID)
		assert.Equal(t, "2024-03-01", set.Date)
		assert.Equal(t, "FB-A", set.Type)
		require.NotNil(t, set.Bodyweight)
		assert.Equal(t, 181.5, *set.Bodyweight)
	}
	assert.Nil(t, sets[1].RIR)
	assert.Equal(t, "paused", sets[1].Notes)

	owned, err := db.SessionSets(ctx, id)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

// TestCreateSessionAtomic verifies a failing set insert leaves neither the
// session nor any earlier set behind.
func TestCreateSessionAtomic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateSession(ctx, session("2024-03-01", "FB-A", nil), []models.SetInput{
		{Exercise: "Bench Press", SetType: "Top Set", Load: "225", Reps: ip(5)},
		{Exercise: "", SetType: "Top Set", Load: "225", Reps: ip(5)},
	})
	require.Error(t, err)

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	sets, err := db.Sets(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)
}

// TestCreateSessionRequiresDate verifies the store itself rejects a session
// without a date.
func TestCreateSessionRequiresDate(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CreateSession(context.Background(), session("", "FB-A", nil), nil)
	assert.Error(t, err)
}

// TestWithTxRollsBack verifies an error returned from the callback discards
// every write made inside it.
func TestWithTxRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.InsertSession(ctx, session("2024-03-01", "FB-A", nil)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

// TestMostRecentForTieBreak verifies the greatest date wins, and on equal
// dates the greatest id wins, regardless of insertion order.
func TestMostRecentForTieBreak(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	add := func(date, load string) {
		_, err := db.CreateSession(ctx, session(date, "FB-A", nil), []models.SetInput{
			{Exercise: "Bench Press", SetType: "Top Set", Load: load, Reps: ip(5)},
		})
		require.NoError(t, err)
	}
	add("2024-03-05", "230")
	add("2024-03-01", "240")
	add("2024-03-05", "235")

	last, err := db.MostRecentFor(ctx, "Bench Press", "Top Set")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "235", last.Load)

	none, err := db.MostRecentFor(ctx, "Bench Press", "Back-off")
	require.NoError(t, err)
	assert.Nil(t, none)
}

// TestHistoryOrderAndLimit verifies newest-first order across set types and
// truncation to the limit.
func TestHistoryOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-03", "2024-03-01", "2024-03-02"} {
		_, err := db.CreateSession(ctx, session(date, "FB-A", nil), []models.SetInput{
			{Exercise: "Bench Press", SetType: "Top Set", Load: "225", Reps: ip(5)},
			{Exercise: "Bench Press", SetType: "Back-off", Load: "205", Reps: ip(8)},
			{Exercise: "Romanian Deadlift", SetType: "Top Set", Load: "275", Reps: ip(6)},
		})
		require.NoError(t, err)
	}

	all, err := db.History(ctx, "Bench Press", 0)
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		assert.True(t, prev.Date > cur.Date || (prev.Date == cur.Date && prev.ID > cur.ID),
			"row %d out of order", i)
	}
	assert.Equal(t, "2024-03-03", all[0].Date)
	assert.Equal(t, "Back-off", all[0].SetType)

	top, err := db.History(ctx, "Bench Press", 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	none, err := db.History(ctx, "Leg Press", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecentSessions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-10", "2024-02-01", "2024-01-20", "2024-02-01"} {
		_, err := db.CreateSession(ctx, session(date, "FB-B", nil), nil)
		require.NoError(t, err)
	}

	got, err := db.RecentSessions(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02-01", got[0].Date)
	assert.Equal(t, "2024-02-01", got[1].Date)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.Equal(t, "2024-01-20", got[2].Date)
}

// TestClearAll verifies both tables are emptied and ids keep increasing.
func TestClearAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.CreateSession(ctx, session("2024-03-01", "FB-C", nil), []models.SetInput{
		{Exercise: "Leg Press", SetType: "Top Set", Load: "400", Reps: ip(10)},
	})
	require.NoError(t, err)

	require.NoError(t, db.ClearAll(ctx))

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	sets, err := db.Sets(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)

	second, err := db.CreateSession(ctx, session("2024-03-02", "FB-C", nil), nil)
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestDataStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	empty, err := db.DataStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalSessions)
	assert.Nil(t, empty.EarliestDate)

	for _, s := range []struct {
		date, typ string
		sets      int
	}{
		{"2024-03-01", "FB-A", 2},
		{"2024-03-03", "FB-B", 1},
		{"2024-03-05", "FB-A", 0},
	} {
		rows := make([]models.SetInput, s.sets)
		for i := range rows {
			rows[i] = models.SetInput{Exercise: "Abs", SetType: "Set 1", Reps: ip(15)}
		}
		_, err := db.CreateSession(ctx, session(s.date, s.typ, nil), rows)
		require.NoError(t, err)
	}

	stats, err := db.DataStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSessions)
	assert.Equal(t, int64(3), stats.TotalSets)
	assert.Equal(t, "2024-03-01", *stats.EarliestDate)
	assert.Equal(t, "2024-03-05", *stats.LatestDate)
	require.Len(t, stats.SessionsByType, 2)
	assert.Equal(t, WorkoutTypeStat{Type: "FB-A", Sessions: 2, Sets: 2}, stats.SessionsByType[0])
	assert.Equal(t, WorkoutTypeStat{Type: "FB-B", Sessions: 1, Sets: 1}, stats.SessionsByType[1])
}

// TestImportLogLifecycle verifies a running entry can be completed and is
// listed newest first.
func TestImportLogLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.InsertImportLog(ctx, ImportLog{
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Source:    "backup",
		Mode:      "merge",
		Status:    ImportRunning,
	})
	require.NoError(t, err)

	dur := int64(12)
	require.NoError(t, db.UpdateImportLog(ctx, id, ImportLog{
		Status:           ImportSuccess,
		SessionsInserted: 4,
		SetsInserted:     31,
		DurationMs:       &dur,
	}))

	_, err = db.InsertImportLog(ctx, ImportLog{Source: "alpha", Status: ImportRunning})
	require.NoError(t, err)

	logs, err := db.ImportLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "alpha", logs[0].Source)
	assert.Equal(t, ImportSuccess, logs[1].Status)
	assert.Equal(t, int64(31), logs[1].SetsInserted)
	assert.Equal(t, int64(12), *logs[1].DurationMs)
	assert.Nil(t, logs[1].ErrorMessage)
}

// TestOpenRejectsUnknownDriver verifies only the supported drivers open.
func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
}

// TestTrainingIntensity verifies RIR bands, the failure rate over tracked
// sets, the half-open date window and the exercise filter.
func TestTrainingIntensity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateSession(ctx, session("2024-03-01", "FB-A", nil), []models.SetInput{
		{Exercise: "Bench Press", SetType: "Top Set", Load: "225", Reps: ip(5), RIR: fp(0)},
		{Exercise: "Bench Press", SetType: "Back-off", Load: "205", Reps: ip(8), RIR: fp(2)},
		{Exercise: "Leg Press", SetType: "Top Set", Load: "400", Reps: ip(10)},
	})
	require.NoError(t, err)
	_, err = db.CreateSession(ctx, session("2024-03-10", "FB-B", nil), []models.SetInput{
		{Exercise: "Bench Press", SetType: "Top Set", Load: "230", Reps: ip(5), RIR: fp(1)},
	})
	require.NoError(t, err)

	res, err := db.TrainingIntensity(ctx, "2024-03-01", "2024-03-10", "")
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalSets)
	assert.Equal(t, 2, res.TrackedSets)
	assert.InDelta(t, 50.0, res.FailureRatePct, 0.001)
	require.Len(t, res.RIRDistribution, 3)
	assert.Equal(t, "failure", res.RIRDistribution[0].Band)
	assert.Equal(t, "moderate", res.RIRDistribution[1].Band)
	assert.Equal(t, "untracked", res.RIRDistribution[2].Band)
	require.Len(t, res.Exercises, 2)
	assert.Equal(t, "Bench Press", res.Exercises[0].Name)
	assert.Equal(t, 13, res.Exercises[0].TotalReps)
	require.NotNil(t, res.Exercises[0].AvgRIR)
	assert.InDelta(t, 1.0, *res.Exercises[0].AvgRIR, 0.001)
	assert.Nil(t, res.Exercises[1].AvgRIR)

	res, err = db.TrainingIntensity(ctx, "2024-03-01", "2024-03-11", "Bench Press")
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalSets)
	assert.InDelta(t, 66.666, res.FailureRatePct, 0.01)
}
