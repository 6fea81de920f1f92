package services

import (
	"context"
	"testing"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/migrations"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/performance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeID(t *testing.T, env *testEnv, name string) uint {
	t.Helper()
	var taskType models.TaskType
	require.NoError(t, env.db.Where("name = ?", name).First(&taskType).Error)
	return taskType.ID
}

func TestTaskTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, migrations.Seed(env.db, migrations.SeedOptions{AdminJSID: "admin", AdminPassword: "secret1"}))
	admin, err := env.userRepo.GetByJSID(ctx, "admin")
	require.NoError(t, err)

	types, err := env.taskTypes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(migrations.DefaultTaskTypes))
	assert.Equal(t, "Aligned in 72 Hours", types[0].Name)

	added, err := env.taskTypes.Add(ctx, admin.ID, "  Floor Walk ")
	require.NoError(t, err)
	assert.Equal(t, "Floor Walk", added.Name)

	_, err = env.taskTypes.Add(ctx, admin.ID, "floor walk")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Task type already exists", apperr.Message(err))

	_, err = env.taskTypes.Add(ctx, admin.ID, " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, env.taskTypes.Update(ctx, admin.ID, added.ID, "Floor Walkthrough"))
	assert.ErrorIs(t, env.taskTypes.Update(ctx, admin.ID, added.ID, "call audit"), apperr.ErrConflict)
	// Case-only rename of itself is allowed.
	require.NoError(t, env.taskTypes.Update(ctx, admin.ID, added.ID, "floor walkthrough"))

	require.NoError(t, env.taskTypes.Delete(ctx, admin.ID, added.ID))
	assert.ErrorIs(t, env.taskTypes.Delete(ctx, admin.ID, added.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, env.taskTypes.Update(ctx, admin.ID, 9999, "Nothing"), apperr.ErrNotFound)

	actions := env.auditActions(t)
	assert.Equal(t, []string{"ADD_TASK_TYPE", "UPDATE_TASK_TYPE", "UPDATE_TASK_TYPE", "DELETE_TASK_TYPE"}, actions)
}

func TestTaskTypes_SystemTypesProtected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, migrations.Seed(env.db, migrations.SeedOptions{AdminJSID: "admin", AdminPassword: "secret1"}))

	for _, name := range []string{performance.TypeLeave, performance.TypeHoliday, performance.TypeHalfDay, performance.TypeOthers} {
		assert.True(t, IsSystemTaskType(name), name)
		id := typeID(t, env, name)
		assert.ErrorIs(t, env.taskTypes.Delete(ctx, 1, id), apperr.ErrValidation, name)
		assert.ErrorIs(t, env.taskTypes.Update(ctx, 1, id, name+" (renamed)"), apperr.ErrValidation, name)
		// Saving the same name is a no-op rename.
		assert.NoError(t, env.taskTypes.Update(ctx, 1, id, name), name)
	}
	assert.False(t, IsSystemTaskType("Call Audit"))
}

func TestSeed_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	opts := migrations.SeedOptions{AdminJSID: "admin", AdminPassword: "secret1"}
	require.NoError(t, migrations.Seed(env.db, opts))
	require.NoError(t, migrations.Seed(env.db, opts))

	var typeCount, adminCount int64
	require.NoError(t, env.db.Model(&models.TaskType{}).Count(&typeCount).Error)
	require.NoError(t, env.db.Model(&models.User{}).Where("role = ?", string(models.RoleAdmin)).Count(&adminCount).Error)
	assert.Equal(t, int64(len(migrations.DefaultTaskTypes)), typeCount)
	assert.Equal(t, int64(1), adminCount)

	session, err := env.authSvc.Login(context.Background(), "ADMIN", "secret1")
	require.NoError(t, err)
	assert.True(t, session.IsAdmin())

	require.NoError(t, migrations.ResetAdminPassword(env.db, "admin", "another1"))
	_, err = env.authSvc.Login(context.Background(), "admin", "another1")
	assert.NoError(t, err)
	assert.Error(t, migrations.ResetAdminPassword(env.db, "nobody", "another1"))
}
