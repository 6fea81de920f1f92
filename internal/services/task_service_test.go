package services

import (
	"context"
	"testing"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/performance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2024-03-08"

func TestCreate_WritesLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)
	chen := env.addUser(t, "Chen", "JS003", models.RoleTrainer)

	in := work("Call Audit", 5, day)
	in.Collaborators = []CollaboratorInput{
		{UserID: bilal.ID},
		{UserID: chen.ID, Hours: floatPtr(2)},
	}
	taskID := env.addTask(t, asha.ID, in)

	ledger, err := env.taskRepo.GetCollaborators(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	byUser := map[uint]models.TaskCollaborator{}
	for _, row := range ledger {
		byUser[row.UserID] = row
	}
	assert.Equal(t, string(models.CollaboratorPrimary), byUser[asha.ID].CollaboratorType)
	assert.Equal(t, 5.0, byUser[asha.ID].Hours)
	assert.Equal(t, string(models.CollaboratorSecondary), byUser[bilal.ID].CollaboratorType)
	assert.Equal(t, 5.0, byUser[bilal.ID].Hours)
	assert.Equal(t, 2.0, byUser[chen.ID].Hours)

	for user, want := range map[uint]float64{asha.ID: 5, bilal.ID: 5, chen.ID: 2} {
		got, err := env.aggregates.DailyHoursForUser(ctx, user, day)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, []string{"ADD_TASK"}, env.auditActions(t))
}

func TestCreate_FullHoursOverridesExplicit(t *testing.T) {
	env := newTestEnv(t)
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	in := work("Branch Visit", 6, day)
	in.Collaborators = []CollaboratorInput{{UserID: bilal.ID, Hours: floatPtr(1), FullHours: true}}
	env.addTask(t, asha.ID, in)

	got, err := env.aggregates.DailyHoursForUser(context.Background(), bilal.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)
}

func TestCreate_ExclusiveConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)

	t.Run("leave after work", func(t *testing.T) {
		env.addTask(t, asha.ID, work("Call Audit", 2, "2024-03-01"))
		_, err := env.tasks.Create(ctx, asha.ID, TaskInput{TaskType: performance.TypeLeave, Date: "2024-03-01"})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("work after holiday", func(t *testing.T) {
		env.addTask(t, asha.ID, TaskInput{TaskType: performance.TypeHoliday, Date: "2024-03-02"})
		_, err := env.tasks.Create(ctx, asha.ID, work("Call Audit", 2, "2024-03-02"))
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("second leave", func(t *testing.T) {
		env.addTask(t, asha.ID, TaskInput{TaskType: performance.TypeLeave, Date: "2024-03-03"})
		_, err := env.tasks.Create(ctx, asha.ID, TaskInput{TaskType: performance.TypeLeave, Date: "2024-03-03"})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("half day mixes with work", func(t *testing.T) {
		env.addTask(t, asha.ID, TaskInput{TaskType: performance.TypeHalfDay, Date: "2024-03-04"})
		env.addTask(t, asha.ID, work("Call Audit", 4, "2024-03-04"))
	})
}

func TestCreate_PersonalTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	in := TaskInput{
		TaskType:      performance.TypeLeave,
		Hours:         floatPtr(8),
		Date:          day,
		Collaborators: []CollaboratorInput{{UserID: bilal.ID}},
	}
	taskID := env.addTask(t, asha.ID, in)

	task, err := env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, task.Hours)

	ledger, err := env.taskRepo.GetCollaborators(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, asha.ID, ledger[0].UserID)
	assert.Equal(t, 0.0, ledger[0].Hours)

	got, err := env.aggregates.DailyHoursForUser(ctx, bilal.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	var validationTests = []struct {
		name string
		in   TaskInput
	}{
		{"missing type", TaskInput{Hours: floatPtr(1), Date: day}},
		{"missing date", TaskInput{TaskType: "Call Audit", Hours: floatPtr(1)}},
		{"bad date", work("Call Audit", 1, "2024-13-01")},
		{"missing hours", TaskInput{TaskType: "Call Audit", Date: day}},
		{"negative hours", work("Call Audit", -1, day)},
		{"more than a day", work("Call Audit", 1e12, day)},
		{"collaborator more than a day", TaskInput{TaskType: "Call Audit", Hours: floatPtr(1), Date: day,
			Collaborators: []CollaboratorInput{{UserID: bilal.ID, Hours: floatPtr(25)}}}},
		{"others without name", work(performance.TypeOthers, 1, day)},
		{"bad start time", TaskInput{TaskType: "Call Audit", Hours: floatPtr(1), Date: day, StartTime: "9am"}},
		{"owner as collaborator", TaskInput{TaskType: "Call Audit", Hours: floatPtr(1), Date: day,
			Collaborators: []CollaboratorInput{{UserID: asha.ID}}}},
		{"duplicate collaborator", TaskInput{TaskType: "Call Audit", Hours: floatPtr(1), Date: day,
			Collaborators: []CollaboratorInput{{UserID: bilal.ID}, {UserID: bilal.ID}}}},
		{"collaborator without id", TaskInput{TaskType: "Call Audit", Hours: floatPtr(1), Date: day,
			Collaborators: []CollaboratorInput{{}}}},
	}

	for _, tt := range validationTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.tasks.Create(ctx, asha.ID, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	_, err := env.tasks.Create(ctx, asha.ID, TaskInput{TaskType: "Call Audit", Hours: floatPtr(1), Date: day,
		Collaborators: []CollaboratorInput{{UserID: 9999}}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.tasks.Create(ctx, 9999, work("Call Audit", 1, day))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Empty(t, env.auditActions(t))
}

func TestCreate_DerivesEndTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)

	in := work("Call Taking", 1.5, day)
	in.StartTime = "9:30"
	taskID := env.addTask(t, asha.ID, in)

	task, err := env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	require.NotNil(t, task.StartTime)
	require.NotNil(t, task.EndTime)
	assert.Equal(t, "09:30", *task.StartTime)
	assert.Equal(t, "11:00", *task.EndTime)

	late := work("Call Taking", 1, "2024-03-09")
	late.StartTime = "23:30"
	taskID = env.addTask(t, asha.ID, late)
	task, err = env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "00:30", *task.EndTime)

	explicit := work("Call Taking", 1, "2024-03-10")
	explicit.StartTime = "10:00"
	explicit.EndTime = "10:45"
	taskID = env.addTask(t, asha.ID, explicit)
	task, err = env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "10:45", *task.EndTime)

	fullDay := work("Call Taking", 24, "2024-03-11")
	fullDay.StartTime = "08:15"
	taskID = env.addTask(t, asha.ID, fullDay)
	task, err = env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "08:15", *task.EndTime)
}

func TestUpdate_SyncsPrimaryOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	in := work("Call Audit", 4, day)
	in.Collaborators = []CollaboratorInput{{UserID: bilal.ID, Hours: floatPtr(3)}}
	taskID := env.addTask(t, asha.ID, in)

	update := work("Dip Checks", 6, day)
	update.Remarks = "extended"
	require.NoError(t, env.tasks.Update(ctx, taskID, asha.ID, update))

	task, err := env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, "Dip Checks", task.TaskType)
	assert.Equal(t, 6.0, task.Hours)
	require.NotNil(t, task.Remarks)
	assert.Equal(t, "extended", *task.Remarks)

	ashaHours, err := env.aggregates.DailyHoursForUser(ctx, asha.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 6.0, ashaHours)

	bilalHours, err := env.aggregates.DailyHoursForUser(ctx, bilal.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 3.0, bilalHours)
}

func TestUpdate_Rules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	shared := work("Call Audit", 4, day)
	shared.Collaborators = []CollaboratorInput{{UserID: bilal.ID}}
	sharedID := env.addTask(t, asha.ID, shared)

	err := env.tasks.Update(ctx, sharedID, bilal.ID, work("Call Audit", 5, day))
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	err = env.tasks.Update(ctx, sharedID, asha.ID, TaskInput{TaskType: performance.TypeLeave, Date: day})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = env.tasks.Update(ctx, 9999, asha.ID, work("Call Audit", 5, day))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// A lone task may become Leave; the task itself is not a conflict.
	soloID := env.addTask(t, asha.ID, work("Call Audit", 2, "2024-03-09"))
	require.NoError(t, env.tasks.Update(ctx, soloID, asha.ID, TaskInput{TaskType: performance.TypeLeave, Date: "2024-03-09"}))

	// Moving work onto that leave day conflicts.
	err = env.tasks.Update(ctx, sharedID, asha.ID, work("Call Audit", 4, "2024-03-09"))
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	in := work("Call Audit", 4, day)
	in.Collaborators = []CollaboratorInput{{UserID: bilal.ID}}
	taskID := env.addTask(t, asha.ID, in)

	assert.ErrorIs(t, env.tasks.Delete(ctx, taskID, bilal.ID), apperr.ErrAuthorization)
	require.NoError(t, env.tasks.Delete(ctx, taskID, asha.ID))

	ledger, err := env.taskRepo.GetCollaborators(ctx, taskID)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	bilalHours, err := env.aggregates.DailyHoursForUser(ctx, bilal.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bilalHours)

	assert.ErrorIs(t, env.tasks.Delete(ctx, taskID, asha.ID), apperr.ErrNotFound)
	assert.Equal(t, []string{"ADD_TASK", "DELETE_TASK"}, env.auditActions(t))
}

func TestUserTasks_ContributorView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)

	in := work("Call Audit", 4, day)
	in.Collaborators = []CollaboratorInput{{UserID: bilal.ID, Hours: floatPtr(1.5)}}
	taskID := env.addTask(t, asha.ID, in)
	env.addTask(t, bilal.ID, work("Interviews", 2, "2024-03-09"))

	rows, err := env.tasks.UserTasks(ctx, bilal.ID, day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, taskID, rows[0].ID)
	assert.Equal(t, asha.ID, rows[0].OwnerID)
	assert.Equal(t, 1.5, rows[0].Hours)
	assert.Equal(t, string(models.CollaboratorSecondary), rows[0].CollaboratorType)

	rows, err = env.tasks.UserTasks(ctx, bilal.ID, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = env.tasks.UserTasks(ctx, asha.ID, "2024-01-01")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, err = env.tasks.UserTasks(ctx, asha.ID, "yesterday")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTaskQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "Admin", "admin", models.RoleAdmin)
	asha := env.addUser(t, "Asha", "JS001", models.RoleTrainer)
	bilal := env.addUser(t, "Bilal", "JS002", models.RoleTrainer)
	taskID := env.addTask(t, asha.ID, work("Call Audit", 4, day))

	assert.ErrorIs(t, env.tasks.RaiseQuery(ctx, admin.ID, taskID, "  "), apperr.ErrValidation)
	assert.ErrorIs(t, env.tasks.RaiseQuery(ctx, admin.ID, 9999, "why?"), apperr.ErrNotFound)
	require.NoError(t, env.tasks.RaiseQuery(ctx, admin.ID, taskID, "Why 4 hours?"))

	task, err := env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, string(models.QueryPending), task.QueryStatus)
	assert.Equal(t, "Why 4 hours?", *task.AdminQuery)

	assert.ErrorIs(t, env.tasks.RespondQuery(ctx, taskID, bilal.ID, "not mine"), apperr.ErrAuthorization)
	require.NoError(t, env.tasks.RespondQuery(ctx, taskID, asha.ID, "Two audits"))

	task, err = env.taskRepo.GetByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, string(models.QueryResolved), task.QueryStatus)
	assert.Equal(t, "Two audits", *task.TrainerResponse)

	assert.Equal(t, []string{"ADD_TASK", "RAISE_QUERY", "RESPOND_QUERY"}, env.auditActions(t))
}
