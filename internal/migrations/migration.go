package migrations

import (
	"errors"
	"fmt"
	"log"

	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTaskTypes is the taxonomy a fresh install starts with.
var DefaultTaskTypes = []string{
	"Shift Briefing",
	"Refresher Session",
	"Aligned in NHT Batch",
	"Call Audit",
	"Call Taking",
	"Dip Checks",
	"Creating PPT",
	"Updation in PPT",
	"Interviews",
	"Team Meeting",
	"Meeting - Other",
	"Aligned in Webinar",
	"Session in NHT Batch",
	"Online Training Session",
	"Online Induction Training",
	"Aligned in 72 Hours",
	"Branch Visit",
	"Half Day",
	"Leave",
	"Holiday",
	"Others",
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
		&models.TaskCollaborator{},
		&models.TaskType{},
		&models.Announcement{},
		&models.AnnouncementRecipient{},
		&models.UserQuery{},
		&models.AuditLog{},
	}
}

// Run brings the schema up to date. It never drops tables.
func Run(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migrations completed successfully!")
	return nil
}

// SeedOptions controls the default admin account.
type SeedOptions struct {
	AdminName     string
	AdminJSID     string
	AdminPassword string
}

// Seed inserts the task-type taxonomy and the admin account when missing.
func Seed(db *gorm.DB, opts SeedOptions) error {
	log.Println("Creating default data...")

	types := make([]models.TaskType, 0, len(DefaultTaskTypes))
	for _, name := range DefaultTaskTypes {
		types = append(types, models.TaskType{Name: name})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&types).Error; err != nil {
		return fmt.Errorf("failed to seed task types: %w", err)
	}
	log.Printf("Seeded %d task types", len(types))

	var existing models.User
	err := db.Where("js_id_key = ?", models.NormalizeJSID(opts.AdminJSID)).First(&existing).Error
	if err == nil {
		log.Println("Admin user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	name := opts.AdminName
	if name == "" {
		name = "Admin User"
	}
	admin := &models.User{
		Name:         name,
		JSID:         opts.AdminJSID,
		PasswordHash: hash,
		Role:         string(models.RoleAdmin),
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Admin user created: %s", admin.JSID)
	return nil
}

// ResetAdminPassword sets a new password on an existing admin account.
func ResetAdminPassword(db *gorm.DB, jsID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	res := db.Model(&models.User{}).
		Where("js_id_key = ? AND role = ?", models.NormalizeJSID(jsID), string(models.RoleAdmin)).
		Updates(map[string]interface{}{"password_hash": hash, "must_change_password": false})
	if res.Error != nil {
		return fmt.Errorf("failed to reset admin password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no admin with js id %q", jsID)
	}
	return nil
}
