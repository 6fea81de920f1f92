package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/cache"
	"trainer_dashboard/internal/database"
	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/migrations"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "Welcome@JS2026"

type testEnv struct {
	db    *gorm.DB
	cache *cache.MemoryCache

	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	aggRepo   repository.AggregateRepository
	auditRepo repository.AuditRepository

	audit         AuditService
	tasks         TaskService
	users         UserService
	aggregates    AggregationService
	authSvc       AuthService
	taskTypes     TaskTypeService
	announcements AnnouncementService
	queries       QueryService
	export        ExportService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	memCache, err := cache.NewMemoryCache(64)
	require.NoError(t, err)

	log := logger.Nop{}
	env := &testEnv{
		db:        db,
		cache:     memCache,
		userRepo:  repository.NewUserRepository(db),
		taskRepo:  repository.NewTaskRepository(db),
		aggRepo:   repository.NewAggregateRepository(db),
		auditRepo: repository.NewAuditRepository(db),
	}
	env.audit = NewAuditService(env.auditRepo, log)
	env.tasks = NewTaskService(env.taskRepo, env.userRepo, env.audit, memCache, log)
	env.users = NewUserService(env.userRepo, env.audit, memCache, log, testPassword)
	env.aggregates = NewAggregationService(env.aggRepo, env.userRepo, memCache, time.Minute, log)
	env.authSvc = NewAuthService(env.userRepo, auth.NewIssuer("test-secret", time.Hour), env.audit)
	env.taskTypes = NewTaskTypeService(repository.NewTaskTypeRepository(db), env.audit)
	env.announcements = NewAnnouncementService(repository.NewAnnouncementRepository(db), env.userRepo, env.audit)
	env.queries = NewQueryService(repository.NewQueryRepository(db), env.userRepo, env.audit)
	env.export = NewExportService(env.aggRepo)
	return env
}

// addUser inserts a user directly. The password hash is a placeholder unless
// the test logs in.
func (e *testEnv) addUser(t *testing.T, name, jsID string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Name: name, JSID: jsID, PasswordHash: "x", Role: string(role)}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) addTask(t *testing.T, ownerID uint, in TaskInput) uint {
	t.Helper()
	id, err := e.tasks.Create(context.Background(), ownerID, in)
	require.NoError(t, err)
	return id
}

func (e *testEnv) auditActions(t *testing.T) []string {
	t.Helper()
	var actions []string
	require.NoError(t, e.db.Model(&models.AuditLog{}).Order("id ASC").Pluck("action", &actions).Error)
	return actions
}

func floatPtr(v float64) *float64 {
	return &v
}

func work(taskType string, h float64, date string) TaskInput {
	return TaskInput{TaskType: taskType, Hours: floatPtr(h), Date: date}
}
