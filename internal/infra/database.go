package infra

import (
	"fmt"

	"mesalivre/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies idempotent SQL patches that GORM cannot express — in
// particular the partial unique indexes that back the "one open session per
// terminal" and "one open tab per table" invariants.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Product{},
		&model.RegisterSession{},
		&model.CashMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Table{},
		&model.Tab{},
		&model.TabItem{},
		&model.Order{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// The two partial unique indexes are load-bearing: the application layer
// does a read-then-write when opening registers and tabs, and these indexes
// are what makes a concurrent double-open lose instead of succeeding twice.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// one open register session per (tenant, terminal)
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_register_sessions_open') THEN
		    CREATE UNIQUE INDEX idx_register_sessions_open
		        ON register_sessions (tenant_id, terminal)
		        WHERE status = 'open';
		  END IF;
		END $$`,
		// one open tab per (tenant, table)
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_tabs_open_table') THEN
		    CREATE UNIQUE INDEX idx_tabs_open_table
		        ON tabs (tenant_id, table_id)
		        WHERE status = 'open';
		  END IF;
		END $$`,
		// partial index for the active-order dashboard query
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_orders_active') THEN
		    CREATE INDEX idx_orders_active
		        ON orders (tenant_id, created_at)
		        WHERE status NOT IN ('delivered', 'cancelled');
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Product{},
		&model.RegisterSession{},
		&model.CashMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Table{},
		&model.Tab{},
		&model.TabItem{},
		&model.Order{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
