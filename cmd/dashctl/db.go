package main

import (
	"errors"
	"fmt"

	"trainer_dashboard/internal/config"
	"trainer_dashboard/internal/database"
	"trainer_dashboard/internal/migrations"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default task types and admin account",
	RunE:  runSeed,
}

var resetAdminCmd = &cobra.Command{
	Use:   "reset-admin",
	Short: "Set a new password on an admin account",
	RunE:  runResetAdmin,
}

var (
	seedAdminName string
	resetJSID     string
	resetPassword string
)

func init() {
	seedCmd.Flags().StringVar(&seedAdminName, "admin-name", "Admin User", "Display name of the seeded admin")
	resetAdminCmd.Flags().StringVar(&resetJSID, "js-id", "", "JS ID of the admin account (defaults to SEED_ADMIN_JS_ID)")
	resetAdminCmd.Flags().StringVar(&resetPassword, "password", "", "New password")
	_ = resetAdminCmd.MarkFlagRequired("password")
}

func openDB() (*gorm.DB, *config.Config, error) {
	cfg := config.Load()
	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseLogLevel)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, _, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	return migrations.Run(db)
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, cfg, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := migrations.Run(db); err != nil {
		return err
	}
	if err := migrations.Seed(db, migrations.SeedOptions{
		AdminName:     seedAdminName,
		AdminJSID:     cfg.SeedAdminJSID,
		AdminPassword: cfg.SeedAdminPassword,
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seed complete. Admin login: %s\n", cfg.SeedAdminJSID)
	return nil
}

func runResetAdmin(cmd *cobra.Command, args []string) error {
	if len(resetPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	db, cfg, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	jsID := resetJSID
	if jsID == "" {
		jsID = cfg.SeedAdminJSID
	}
	if err := migrations.ResetAdminPassword(db, jsID, resetPassword); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Password reset for admin %s\n", jsID)
	return nil
}
