package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

const (
	postgresMaxOpenConns    = 25
	postgresMaxIdleConns    = 5
	postgresConnMaxLifetime = 5 * time.Minute
)

// ConnectPostgres opens the pool and verifies it with a ping. The schema is
// applied separately by InitPostgresTables.
func ConnectPostgres(postgresURI string) error {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetMaxIdleConns(postgresMaxIdleConns)
	db.SetConnMaxLifetime(postgresConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	PostgresDB = db
	log.Println("✅ Connected to PostgreSQL")
	return nil
}

// schema is applied in order on every start; every statement is idempotent.
var schema = []string{
	// Admins table (accounts are created with cmd/admin, there is no signup route)
	`CREATE TABLE IF NOT EXISTS admins (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	// Clients table
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		tier VARCHAR(20) NOT NULL DEFAULT 'starter',
		github_owner VARCHAR(100),
		github_repo VARCHAR(100),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	// Feature requests table (rows are never deleted; status carries the lifecycle)
	`CREATE TABLE IF NOT EXISTS feature_requests (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		client_id UUID NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		feedback_type VARCHAR(20) NOT NULL,
		priority VARCHAR(20) NOT NULL,
		submitted_tier VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		estimated_cost NUMERIC(12, 2),
		approved_cost NUMERIC(12, 2),
		admin_notes TEXT
	)`,

	// Service packages table
	`CREATE TABLE IF NOT EXISTS service_packages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug VARCHAR(50) NOT NULL UNIQUE,
		name VARCHAR(100) NOT NULL,
		tier VARCHAR(20) NOT NULL,
		price_cents BIGINT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		features TEXT[] NOT NULL DEFAULT '{}',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	// Contact us table
	`CREATE TABLE IF NOT EXISTS contact_us (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		ip_address VARCHAR(255)
	)`,

	// Create indexes for better performance
	`CREATE INDEX IF NOT EXISTS idx_admins_username ON admins(username)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_email ON clients(LOWER(email))`,
	`CREATE INDEX IF NOT EXISTS idx_feature_requests_client_id ON feature_requests(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feature_requests_status ON feature_requests(status)`,
	`CREATE INDEX IF NOT EXISTS idx_feature_requests_created_at ON feature_requests(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_service_packages_sort_order ON service_packages(sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_us_created_at ON contact_us(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_us_email ON contact_us(email)`,
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	for _, query := range schema {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
