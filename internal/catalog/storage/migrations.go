package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migrations in apply order. Each migration checks the bookkeeping
// table before running so restarts are safe.
type CatalogSchema struct{}

func (m *CatalogSchema) UpMigration(db *sql.DB) error {
	query :=
		`
		CREATE SCHEMA IF NOT EXISTS catalog;
		`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

type MigrationsSchema struct{}

func (m *MigrationsSchema) UpMigration(db *sql.DB) error {
	query :=
		`
		CREATE SCHEMA IF NOT EXISTS migrations;
		`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations schema: %w", err)
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS migrations.migrations (
            id SERIAL PRIMARY KEY,
            time TIMESTAMP NOT NULL,
            name VARCHAR(255) UNIQUE NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

type SupplierItems struct{}

func (m *SupplierItems) UpMigration(db *sql.DB) error {
	applied, err := migrationApplied(db, "catalog.supplier_items")
	if err != nil {
		return err
	}
	if applied {
		log.Println("Migration 'catalog.supplier_items' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS catalog.supplier_items (
		item_number VARCHAR(64) PRIMARY KEY,
		manufacturer_item_number VARCHAR(64),
		manufacturer VARCHAR(255),
		title TEXT,
		catalog VARCHAR(255),
		category VARCHAR(255),
		product_family VARCHAR(255),
		item_status VARCHAR(64),
		images TEXT[],
		detail JSONB,
		pricing JSONB,
		discontinued BOOLEAN NOT NULL DEFAULT FALSE,
		manufacturer_norm VARCHAR(255),
		category_norm VARCHAR(255),
		synced_at TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS supplier_items_manufacturer_norm_idx
		ON catalog.supplier_items(manufacturer_norm);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog.supplier_items table: %w", err)
	}
	return markMigration(db, "catalog.supplier_items")
}

type ImportJobs struct{}

func (m *ImportJobs) UpMigration(db *sql.DB) error {
	applied, err := migrationApplied(db, "catalog.import_jobs")
	if err != nil {
		return err
	}
	if applied {
		log.Println("Migration 'catalog.import_jobs' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS catalog.import_jobs (
		job_id UUID PRIMARY KEY,
		status VARCHAR(16) NOT NULL,
		config JSONB,
		progress JSONB,
		created_by VARCHAR(255),
		created_at TIMESTAMP NOT NULL,
		started_at TIMESTAMP,
		completed_at TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS import_jobs_created_at_idx
		ON catalog.import_jobs(created_at DESC);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog.import_jobs table: %w", err)
	}
	return markMigration(db, "catalog.import_jobs")
}

type Brands struct{}

func (m *Brands) UpMigration(db *sql.DB) error {
	applied, err := migrationApplied(db, "catalog.brands")
	if err != nil {
		return err
	}
	if applied {
		log.Println("Migration 'catalog.brands' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS catalog.brands (
		brand_id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS brands_name_lower_idx
		ON catalog.brands(LOWER(name));
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog.brands table: %w", err)
	}
	return markMigration(db, "catalog.brands")
}

type Products struct{}

func (m *Products) UpMigration(db *sql.DB) error {
	applied, err := migrationApplied(db, "catalog.products")
	if err != nil {
		return err
	}
	if applied {
		log.Println("Migration 'catalog.products' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS catalog.products (
		product_id SERIAL PRIMARY KEY,
		sku VARCHAR(64) NOT NULL,
		title TEXT,
		description TEXT,
		brand_id INT REFERENCES catalog.brands(brand_id),
		price NUMERIC(12, 2),
		map_price NUMERIC(12, 2),
		cost NUMERIC(12, 2),
		weight NUMERIC(10, 3),
		dimensions JSONB,
		images TEXT[],
		tags TEXT[],
		category VARCHAR(255),
		stock_status VARCHAR(64),
		created_at TIMESTAMP NOT NULL
		);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog.products table: %w", err)
	}
	return markMigration(db, "catalog.products")
}

type ProductSources struct{}

func (m *ProductSources) UpMigration(db *sql.DB) error {
	applied, err := migrationApplied(db, "catalog.product_sources")
	if err != nil {
		return err
	}
	if applied {
		log.Println("Migration 'catalog.product_sources' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS catalog.product_sources (
		product_id INT NOT NULL REFERENCES catalog.products(product_id),
		supplier VARCHAR(64) NOT NULL,
		item_number VARCHAR(64) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (supplier, item_number)
		);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog.product_sources table: %w", err)
	}
	return markMigration(db, "catalog.product_sources")
}

type Users struct{}

func (m *Users) UpMigration(db *sql.DB) error {
	applied, err := migrationApplied(db, "catalog.users")
	if err != nil {
		return err
	}
	if applied {
		log.Println("Migration 'catalog.users' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS catalog.users (
		user_id VARCHAR(64) PRIMARY KEY,
		email VARCHAR(255),
		role VARCHAR(32) NOT NULL DEFAULT 'customer'
		);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create catalog.users table: %w", err)
	}
	return markMigration(db, "catalog.users")
}

func migrationApplied(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func markMigration(db *sql.DB, name string) error {
	_, err := db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", name)
	if err != nil {
		return fmt.Errorf("failed to mark %s migration as complete: %w", name, err)
	}
	log.Printf("Migration '%s' completed successfully.", name)
	return nil
}
