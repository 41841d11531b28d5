package models

import (
	"os"

	"bitbucket.org/mmdatafocus/invoicing_backend/config"
)

// MigrateTable runs gorm AutoMigrate for every entity. Set SKIP_MIGRATIONS to
// any value to skip at startup (e.g. when the schema is managed externally).
func MigrateTable() error {
	if os.Getenv("SKIP_MIGRATIONS") != "" {
		config.GetLogger().Info("skipping migrations")
		return nil
	}
	db := config.GetDB()
	return db.AutoMigrate(
		&Account{},
		&Client{},
		&Company{},
		&BankDetail{},
		&Invoice{},
		&InvoiceItem{},
		&Payment{},
		&ActivityLog{},
	)
}
