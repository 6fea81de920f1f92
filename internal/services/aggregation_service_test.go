package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/daterange"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/performance"
	"trainer_dashboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestTeamPerformance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "Admin", "admin", models.RoleAdmin)
	dana := env.addUser(t, "Dana", "JS004", models.RoleTrainer)
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	env.addUser(t, "Bilal", "JS002", models.RoleTrainer)
	chen := env.addUser(t, "Chen", "JS003", models.RoleTrainer)

	env.addTask(t, asha.ID, work("Call Audit", 5, day))
	env.addTask(t, asha.ID, work("Team Meeting", 2.5, day))
	env.addTask(t, chen.ID, TaskInput{TaskType: performance.TypeLeave, Date: day})
	env.addTask(t, dana.ID, TaskInput{TaskType: performance.TypeHalfDay, Date: day})
	env.addTask(t, dana.ID, work("Interviews", 4, day))

	result, err := env.aggregates.TeamPerformance(ctx, day)
	require.NoError(t, err)

	require.Len(t, result.Trainers, 4)
	names := make([]string, 0, len(result.Trainers))
	for _, tr := range result.Trainers {
		names = append(names, tr.Name)
	}
	assert.Equal(t, []string{"Asha", "Bilal", "Chen", "Dana"}, names)

	assert.Equal(t, 7.5, result.Trainers[0].Hours)
	assert.Equal(t, performance.StatusNormal, result.Trainers[0].Status)
	assert.Equal(t, 0.0, result.Trainers[1].Hours)
	assert.Equal(t, performance.StatusUnderperforming, result.Trainers[1].Status)
	assert.Equal(t, performance.StatusOnLeave, result.Trainers[2].Status)
	assert.Equal(t, performance.StatusNormal, result.Trainers[3].Status)
	assert.True(t, result.Trainers[3].IsHalfDay)

	assert.Equal(t, performance.Counts{Normal: 2, Underperforming: 1, OnLeave: 1}, result.Performance)
	assert.Equal(t, len(result.Trainers), result.Performance.Total())

	// The mutation invalidates the cached view.
	env.addTask(t, asha.ID, work("Dip Checks", 0.1, day))
	result, err = env.aggregates.TeamPerformance(ctx, day)
	require.NoError(t, err)
	assert.InDelta(t, 7.6, result.Trainers[0].Hours, 1e-9)
	assert.Equal(t, performance.StatusOverperforming, result.Trainers[0].Status)
	assert.Equal(t, performance.Counts{Normal: 1, Overperforming: 1, Underperforming: 1, OnLeave: 1}, result.Performance)
}

func TestTeamPerformance_SharedTaskCreditsBoth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	in := work("Aligned in NHT Batch", 5, day)
	in.Collaborators = []CollaboratorInput{{UserID: bilal.ID}}
	env.addTask(t, asha.ID, in)

	result, err := env.aggregates.TeamPerformance(ctx, day)
	require.NoError(t, err)
	require.Len(t, result.Trainers, 2)
	for _, tr := range result.Trainers {
		assert.Equal(t, 5.0, tr.Hours, tr.Name)
		assert.Equal(t, performance.StatusUnderperforming, tr.Status, tr.Name)
	}

	// Owner-based trends count the shared task once.
	trends, err := env.aggregates.TeamTrends(ctx, nil, testNow)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, repository.TrendRow{Date: day, TotalHours: 5, ActiveTrainers: 1}, trends[0])
}

func TestTeamPerformance_Empty(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.aggregates.TeamPerformance(context.Background(), day)
	require.NoError(t, err)
	assert.NotNil(t, result.Trainers)
	assert.Empty(t, result.Trainers)
	assert.Equal(t, 0, result.Performance.Total())

	_, err = env.aggregates.TeamPerformance(context.Background(), "08/03/2024")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDailyHoursForUser_NoTasks(t *testing.T) {
	env := newTestEnv(t)
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)

	got, err := env.aggregates.DailyHoursForUser(context.Background(), asha.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestDailyStatusForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)
	chen := env.addUser(t, "Chen", "JS003", models.RoleTrainer)

	status, err := env.aggregates.DailyStatusForUser(ctx, asha.ID, day)
	require.NoError(t, err)
	assert.Equal(t, performance.StatusUnderperforming, status)

	env.addTask(t, asha.ID, work(performance.TypeHalfDay, 0, day))
	env.addTask(t, asha.ID, work("Call Audit", 4, day))
	status, err = env.aggregates.DailyStatusForUser(ctx, asha.ID, day)
	require.NoError(t, err)
	assert.Equal(t, performance.StatusNormal, status)

	// Secondary credit counts toward the contributor's own day.
	shared := work("Interviews", 8, day)
	shared.Collaborators = []CollaboratorInput{{UserID: bilal.ID}}
	env.addTask(t, chen.ID, shared)
	status, err = env.aggregates.DailyStatusForUser(ctx, bilal.ID, day)
	require.NoError(t, err)
	assert.Equal(t, performance.StatusOverperforming, status)

	env.addTask(t, chen.ID, work(performance.TypeLeave, 0, "2024-03-09"))
	status, err = env.aggregates.DailyStatusForUser(ctx, chen.ID, "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, performance.StatusOnLeave, status)

	_, err = env.aggregates.DailyStatusForUser(ctx, asha.ID, "tomorrow")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTeamTrends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	env.addTask(t, asha.ID, work("Call Audit", 3, "2024-01-15"))
	env.addTask(t, asha.ID, work("Call Audit", 3, "2024-03-01"))
	env.addTask(t, bilal.ID, work("Call Audit", 4, "2024-03-01"))
	env.addTask(t, bilal.ID, work("Interviews", 2, "2024-03-09"))

	trends, err := env.aggregates.TeamTrends(ctx, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, []repository.TrendRow{
		{Date: "2024-03-01", TotalHours: 7, ActiveTrainers: 2},
		{Date: "2024-03-09", TotalHours: 2, ActiveTrainers: 1},
	}, trends)

	one := 1
	trends, err = env.aggregates.TeamTrends(ctx, &one, testNow)
	require.NoError(t, err)
	assert.Equal(t, []repository.TrendRow{{Date: "2024-03-09", TotalHours: 2, ActiveTrainers: 1}}, trends)

	zero := 0
	trends, err = env.aggregates.TeamTrends(ctx, &zero, testNow)
	require.NoError(t, err)
	assert.NotNil(t, trends)
	assert.Empty(t, trends)

	negative := -1
	_, err = env.aggregates.TeamTrends(ctx, &negative, testNow)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTopPerformers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var users []*models.User
	for i, name := range []string{"Farah", "Bilal", "Asha", "Eli", "Dana", "Chen"} {
		users = append(users, env.addUser(t, name, fmt.Sprintf("JS%03d", i+1), models.RoleTrainer))
	}
	// Farah and Bilal tie; Bilal wins on name.
	env.addTask(t, users[0].ID, work("Call Audit", 8, "2024-03-08"))
	env.addTask(t, users[1].ID, work("Call Audit", 8, "2024-03-08"))
	env.addTask(t, users[2].ID, work("Call Audit", 7, "2024-03-08"))
	env.addTask(t, users[3].ID, work("Call Audit", 6, "2024-03-08"))
	env.addTask(t, users[4].ID, work("Call Audit", 5, "2024-03-08"))
	env.addTask(t, users[5].ID, work("Call Audit", 1, "2024-03-08"))
	// Outside the week, inside the month.
	env.addTask(t, users[5].ID, work("Call Audit", 20, "2024-02-20"))

	week, err := env.aggregates.TopPerformers(ctx, daterange.KindWeek, testNow)
	require.NoError(t, err)
	require.Len(t, week, 5)
	var names []string
	for _, p := range week {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Bilal", "Farah", "Asha", "Eli", "Dana"}, names)
	assert.Equal(t, int64(1), week[0].TasksCount)

	month, err := env.aggregates.TopPerformers(ctx, "", testNow)
	require.NoError(t, err)
	require.NotEmpty(t, month)
	assert.Equal(t, "Chen", month[0].Name)
	assert.Equal(t, 21.0, month[0].TotalHours)
	assert.Equal(t, int64(2), month[0].TasksCount)
}

func TestRankPerformers(t *testing.T) {
	rows := []repository.OwnerTotalRow{
		{ID: 3, Name: "Chen", TotalHours: 2.26},
		{ID: 1, Name: "Asha", TotalHours: 2.34},
		{ID: 2, Name: "Asha", TotalHours: 2.3},
		{ID: 4, Name: "Bilal", TotalHours: 9.96},
	}

	ranked := rankPerformers(rows)
	require.Len(t, ranked, 4)
	assert.Equal(t, uint(4), ranked[0].ID)
	assert.Equal(t, 10.0, ranked[0].TotalHours)
	// All remaining round to 2.3: name, then id.
	assert.Equal(t, []uint{1, 2, 3}, []uint{ranked[1].ID, ranked[2].ID, ranked[3].ID})
	assert.Equal(t, 2.3, ranked[3].TotalHours)

	assert.Empty(t, rankPerformers(nil))
}

func TestTrainerReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	shared := work("Call Audit", 5, "2024-03-08")
	shared.Collaborators = []CollaboratorInput{{UserID: bilal.ID, Hours: floatPtr(3)}}
	env.addTask(t, asha.ID, shared)
	env.addTask(t, bilal.ID, work("Interviews", 2, "2024-03-08"))
	env.addTask(t, bilal.ID, work("Dip Checks", 4, "2024-03-09"))
	env.addTask(t, bilal.ID, work("Dip Checks", 9, "2024-02-01"))

	report, err := env.aggregates.TrainerReport(ctx, bilal.ID, daterange.KindCustom, "2024-03-01", "2024-03-31", testNow)
	require.NoError(t, err)
	assert.Equal(t, daterange.Range{From: "2024-03-01", To: "2024-03-31"}, report.Range)
	assert.Equal(t, ReportStats{TotalHours: 9, TotalTasks: 3, AvgHoursPerDay: 4.5}, report.Stats)

	require.Len(t, report.Tasks, 3)
	assert.Equal(t, "2024-03-09", report.Tasks[0].Date)
	assert.Equal(t, 4.0, report.Tasks[0].DailyHours)
	for _, task := range report.Tasks[1:] {
		assert.Equal(t, "2024-03-08", task.Date)
		assert.Equal(t, 5.0, task.DailyHours)
	}

	// Default kind is the last seven days, without an upper bound.
	report, err = env.aggregates.TrainerReport(ctx, bilal.ID, "", "", "", testNow)
	require.NoError(t, err)
	assert.Equal(t, daterange.Range{From: "2024-03-03"}, report.Range)
	assert.Equal(t, 3, report.Stats.TotalTasks)

	report, err = env.aggregates.TrainerReport(ctx, bilal.ID, daterange.KindAll, "", "", testNow)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Stats.TotalTasks)
	assert.Equal(t, 18.0, report.Stats.TotalHours)
}

func TestTrainerReport_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)

	_, err := env.aggregates.TrainerReport(ctx, 9999, daterange.KindWeek, "", "", testNow)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.aggregates.TrainerReport(ctx, asha.ID, daterange.KindCustom, "2024-03-01", "", testNow)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	report, err := env.aggregates.TrainerReport(ctx, asha.ID, daterange.KindToday, "", "", testNow)
	require.NoError(t, err)
	assert.NotNil(t, report.Tasks)
	assert.Equal(t, ReportStats{}, report.Stats)
}
