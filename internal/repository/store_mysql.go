package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// NewMySQLStore opens the production MySQL backend and ensures the schema
// exists. dsn comes from config.StoreConfig.DSN().
func NewMySQLStore(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &Store{db: db, flavor: flavorMySQL}
	if err := s.createTablesMySQL(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[Store] MySQL backend initialized")
	return s, nil
}

// createTablesMySQL bootstraps the schema, including the unique natural-key
// indexes that ingestion idempotence relies on.
func (s *Store) createTablesMySQL() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS amazon_returns (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(50),
			tracking_id VARCHAR(50) NOT NULL,
			sku VARCHAR(100),
			asin VARCHAR(20),
			product_name VARCHAR(255),
			return_reason VARCHAR(255),
			disposition VARCHAR(100),
			quantity INT,
			refund_amount DECIMAL(10,2),
			order_date DATE,
			return_request_date DATETIME,
			delivery_date DATE,
			fulfillment_center VARCHAR(50),
			carrier VARCHAR(100),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_amazon_tracking (tracking_id)
		)`,
		`CREATE TABLE IF NOT EXISTS flipkart_returns (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(50),
			order_item_id VARCHAR(50),
			tracking_id VARCHAR(50) NOT NULL,
			sku VARCHAR(100),
			product_title VARCHAR(255),
			fsn VARCHAR(20),
			return_type VARCHAR(50),
			return_sub_reason VARCHAR(255),
			quantity INT,
			refund_amount DECIMAL(10,2),
			order_date DATE,
			return_requested_at DATETIME,
			delivered_date DATE,
			logistics_partner VARCHAR(100),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_flipkart_tracking (tracking_id)
		)`,
		`CREATE TABLE IF NOT EXISTS meesho_returns (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			suborder_id VARCHAR(50) NOT NULL,
			awb_number VARCHAR(50),
			sku VARCHAR(100),
			product_name VARCHAR(255),
			variation VARCHAR(50),
			quantity INT,
			return_type VARCHAR(50),
			return_reason VARCHAR(255),
			detailed_reason VARCHAR(255),
			courier_partner VARCHAR(100),
			order_date DATE,
			return_created_at DATETIME,
			expected_delivery_date DATE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_meesho_suborder (suborder_id)
		)`,
		`CREATE TABLE IF NOT EXISTS rto_submissions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			marketplace VARCHAR(30) NOT NULL,
			pickup_partner VARCHAR(100),
			order_id VARCHAR(50),
			awb_number VARCHAR(50),
			sku_code VARCHAR(100) NOT NULL,
			quantity INT NOT NULL,
			item_condition VARCHAR(20) NOT NULL,
			claim_status VARCHAR(20) NOT NULL DEFAULT 'None',
			remarks TEXT,
			submitted_by VARCHAR(100),
			created_at DATETIME NOT NULL,
			is_inventory_updated TINYINT(1) NOT NULL DEFAULT 0,
			inventory_updated_by VARCHAR(100),
			inventory_updated_at DATETIME,
			is_claim_resolved TINYINT(1) NOT NULL DEFAULT 0,
			claim_resolved_by VARCHAR(100),
			claim_resolved_at DATETIME,
			KEY idx_submissions_condition (item_condition, is_inventory_updated)
		)`,
		`CREATE TABLE IF NOT EXISTS sku_master (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			code VARCHAR(100) NOT NULL,
			name VARCHAR(255),
			is_combo TINYINT(1) NOT NULL DEFAULT 0,
			inventory_updated_at DATETIME,
			UNIQUE KEY uq_sku_code (code)
		)`,
		`CREATE TABLE IF NOT EXISTS combos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			UNIQUE KEY uq_combo_name (name)
		)`,
		`CREATE TABLE IF NOT EXISTS combo_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			combo_id BIGINT NOT NULL,
			child_sku_id BIGINT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			KEY idx_combo_items_combo (combo_id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_slots (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			sku_id BIGINT NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			batch_code VARCHAR(50),
			expiry_date DATE,
			created_at DATETIME NOT NULL,
			KEY idx_slots_sku (sku_id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_adjustments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			submission_id BIGINT NOT NULL,
			sku_id BIGINT NOT NULL,
			sku_code VARCHAR(100),
			slot_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			source VARCHAR(20) NOT NULL,
			marketplace VARCHAR(30),
			awb_number VARCHAR(50),
			adjusted_by VARCHAR(100),
			adjusted_at DATETIME NOT NULL,
			KEY idx_adjustments_submission (submission_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
