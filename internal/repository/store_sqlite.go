package repository

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO required
)

// NewSQLiteStore opens the file-backed SQLite backend used for single-box
// deployments and the test suite, and ensures the schema exists.
func NewSQLiteStore(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, flavor: flavorSQLite}
	if err := s.createTablesSQLite(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[Store] SQLite backend initialized with database: %s", dbPath)
	return s, nil
}

// createTablesSQLite mirrors the MySQL schema with SQLite types.
func (s *Store) createTablesSQLite() error {
	query := `
	CREATE TABLE IF NOT EXISTS amazon_returns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id TEXT,
		tracking_id TEXT NOT NULL UNIQUE,
		sku TEXT,
		asin TEXT,
		product_name TEXT,
		return_reason TEXT,
		disposition TEXT,
		quantity INTEGER,
		refund_amount REAL,
		order_date TEXT,
		return_request_date TEXT,
		delivery_date TEXT,
		fulfillment_center TEXT,
		carrier TEXT,
		created_at TEXT DEFAULT (datetime('now'))
	);
	CREATE TABLE IF NOT EXISTS flipkart_returns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id TEXT,
		order_item_id TEXT,
		tracking_id TEXT NOT NULL UNIQUE,
		sku TEXT,
		product_title TEXT,
		fsn TEXT,
		return_type TEXT,
		return_sub_reason TEXT,
		quantity INTEGER,
		refund_amount REAL,
		order_date TEXT,
		return_requested_at TEXT,
		delivered_date TEXT,
		logistics_partner TEXT,
		created_at TEXT DEFAULT (datetime('now'))
	);
	CREATE TABLE IF NOT EXISTS meesho_returns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		suborder_id TEXT NOT NULL UNIQUE,
		awb_number TEXT,
		sku TEXT,
		product_name TEXT,
		variation TEXT,
		quantity INTEGER,
		return_type TEXT,
		return_reason TEXT,
		detailed_reason TEXT,
		courier_partner TEXT,
		order_date TEXT,
		return_created_at TEXT,
		expected_delivery_date TEXT,
		created_at TEXT DEFAULT (datetime('now'))
	);
	CREATE TABLE IF NOT EXISTS rto_submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		marketplace TEXT NOT NULL,
		pickup_partner TEXT,
		order_id TEXT,
		awb_number TEXT,
		sku_code TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		item_condition TEXT NOT NULL,
		claim_status TEXT NOT NULL DEFAULT 'None',
		remarks TEXT,
		submitted_by TEXT,
		created_at TEXT NOT NULL,
		is_inventory_updated INTEGER NOT NULL DEFAULT 0,
		inventory_updated_by TEXT,
		inventory_updated_at TEXT,
		is_claim_resolved INTEGER NOT NULL DEFAULT 0,
		claim_resolved_by TEXT,
		claim_resolved_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_condition
		ON rto_submissions(item_condition, is_inventory_updated);
	CREATE TABLE IF NOT EXISTS sku_master (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT,
		is_combo INTEGER NOT NULL DEFAULT 0,
		inventory_updated_at TEXT
	);
	CREATE TABLE IF NOT EXISTS combos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS combo_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		combo_id INTEGER NOT NULL,
		child_sku_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_combo_items_combo ON combo_items(combo_id);
	CREATE TABLE IF NOT EXISTS inventory_slots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		batch_code TEXT,
		expiry_date TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_slots_sku ON inventory_slots(sku_id);
	CREATE TABLE IF NOT EXISTS inventory_adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id INTEGER NOT NULL,
		sku_id INTEGER NOT NULL,
		sku_code TEXT,
		slot_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		source TEXT NOT NULL,
		marketplace TEXT,
		awb_number TEXT,
		adjusted_by TEXT,
		adjusted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_adjustments_submission
		ON inventory_adjustments(submission_id);
	`
	_, err := s.db.Exec(query)
	return err
}
