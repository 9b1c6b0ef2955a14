package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/edledger/edledger/internal/config"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id VARCHAR(50) PRIMARY KEY,
		admission_number VARCHAR(50) NOT NULL,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		class_name VARCHAR(100) NOT NULL DEFAULT '',
		guardian_name VARCHAR(255) NOT NULL DEFAULT '',
		guardian_phone VARCHAR(50) NOT NULL DEFAULT '',
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT '',
		CONSTRAINT students_tenant_admission_key UNIQUE (tenant_id, admission_number)
	)`,

	`CREATE TABLE IF NOT EXISTS item_master (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		default_price NUMERIC(20, 8) NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		system BOOLEAN NOT NULL DEFAULT FALSE,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT '',
		CONSTRAINT item_master_tenant_name_key UNIQUE (tenant_id, name)
	)`,

	`CREATE SEQUENCE IF NOT EXISTS invoice_number_seq START 1`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id VARCHAR(50) PRIMARY KEY,
		invoice_number VARCHAR(50) NOT NULL,
		admission_number VARCHAR(50) NOT NULL,
		student_name VARCHAR(255) NOT NULL DEFAULT '',
		invoice_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		invoice_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		subtotal NUMERIC(20, 8) NOT NULL DEFAULT 0,
		total_amount NUMERIC(20, 8) NOT NULL DEFAULT 0,
		payment_made NUMERIC(20, 8) NOT NULL DEFAULT 0,
		balance_due NUMERIC(20, 8) NOT NULL DEFAULT 0,
		brought_forward_description TEXT,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT '',
		CONSTRAINT invoices_tenant_number_key UNIQUE (tenant_id, invoice_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_invoices_admission_number
		ON invoices (tenant_id, admission_number)`,

	`CREATE INDEX IF NOT EXISTS idx_invoices_outstanding
		ON invoices (tenant_id, invoice_status, due_date)
		WHERE status != 'deleted'`,

	`CREATE TABLE IF NOT EXISTS invoice_line_items (
		id VARCHAR(50) PRIMARY KEY,
		invoice_id VARCHAR(50) NOT NULL REFERENCES invoices (id),
		item_name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit_price NUMERIC(20, 8) NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0,
		discount_percent NUMERIC(5, 2) NOT NULL DEFAULT 0,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_invoice_line_items_invoice_id
		ON invoice_line_items (invoice_id)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		account_number VARCHAR(100) NOT NULL DEFAULT '',
		bank_name VARCHAR(255) NOT NULL DEFAULT '',
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS payment_methods (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id VARCHAR(50) PRIMARY KEY,
		receipt_number VARCHAR(50) NOT NULL,
		admission_number VARCHAR(50) NOT NULL,
		amount NUMERIC(20, 8) NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		account_id VARCHAR(50) NOT NULL,
		payment_method_id VARCHAR(50) NOT NULL,
		reference_number VARCHAR(100),
		metadata JSONB NOT NULL DEFAULT '{}',
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT '',
		CONSTRAINT payments_tenant_receipt_key UNIQUE (tenant_id, receipt_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_payments_admission_number
		ON payments (tenant_id, admission_number)`,

	`CREATE TABLE IF NOT EXISTS payment_allocations (
		id VARCHAR(50) PRIMARY KEY,
		payment_id VARCHAR(50) NOT NULL REFERENCES payments (id),
		invoice_number VARCHAR(50) NOT NULL,
		allocated_amount NUMERIC(20, 8) NOT NULL,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_payment_allocations_payment_id
		ON payment_allocations (payment_id)`,

	`CREATE INDEX IF NOT EXISTS idx_payment_allocations_invoice_number
		ON payment_allocations (tenant_id, invoice_number)`,

	`CREATE TABLE IF NOT EXISTS payment_plans (
		id VARCHAR(50) PRIMARY KEY,
		invoice_number VARCHAR(50) NOT NULL,
		admission_number VARCHAR(50) NOT NULL,
		plan_status VARCHAR(20) NOT NULL DEFAULT 'active',
		total_amount NUMERIC(20, 8) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_payment_plans_invoice_number
		ON payment_plans (tenant_id, invoice_number)`,

	`CREATE TABLE IF NOT EXISTS plan_installments (
		id VARCHAR(50) PRIMARY KEY,
		plan_id VARCHAR(50) NOT NULL REFERENCES payment_plans (id),
		sequence INTEGER NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		amount NUMERIC(20, 8) NOT NULL,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_installments_plan_id
		ON plan_installments (plan_id)`,

	`CREATE TABLE IF NOT EXISTS medical_records (
		id VARCHAR(50) PRIMARY KEY,
		admission_number VARCHAR(50) NOT NULL,
		record_type VARCHAR(50) NOT NULL,
		severity VARCHAR(20) NOT NULL,
		title VARCHAR(255) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by VARCHAR(50) NOT NULL DEFAULT '',
		updated_by VARCHAR(50) NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_medical_records_admission_number
		ON medical_records (tenant_id, admission_number)`,
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		for _, stmt := range schema {
			fmt.Fprintln(os.Stdout, stmt+";")
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Fatalw("Failed to apply migration statement", "error", err)
		}
	}
	logger.Info("Migration completed successfully")
}
