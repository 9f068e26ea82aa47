package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/models"
)

// SQLite implements the BrandStore interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *db.Config
}

// New creates a new SQLite database instance
func New(config *db.Config) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// Connect establishes connection to SQLite
func (s *SQLite) Connect(ctx context.Context) error {
	// Expand the URI path (handle ~ and relative paths)
	dbPath := s.config.URI
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	// Test the connection
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = sqlDB

	if err := s.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for the migration runner
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// createTables creates necessary tables
func (s *SQLite) createTables(ctx context.Context) error {
	createBrandsTable := `
	CREATE TABLE IF NOT EXISTS brands (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		domain TEXT NOT NULL,
		competitors TEXT, -- JSON array of {name, aliases}
		cron_expr TEXT,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createQueriesTable := `
	CREATE TABLE IF NOT EXISTS tracked_queries (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		text TEXT NOT NULL,
		keyword TEXT,
		category TEXT,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (brand_id) REFERENCES brands(id) ON DELETE CASCADE
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_brands_enabled ON brands(enabled);",
		"CREATE INDEX IF NOT EXISTS idx_queries_brand ON tracked_queries(brand_id);",
		"CREATE INDEX IF NOT EXISTS idx_queries_enabled ON tracked_queries(enabled);",
	}

	queries := []string{createBrandsTable, createQueriesTable}
	queries = append(queries, createIndexes...)

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

func competitorsToJSON(competitors []models.Competitor) (string, error) {
	if len(competitors) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(competitors)
	if err != nil {
		return "", fmt.Errorf("failed to marshal competitors: %w", err)
	}
	return string(data), nil
}

func jsonToCompetitors(jsonStr string) []models.Competitor {
	if jsonStr == "" || jsonStr == "[]" {
		return nil
	}
	var competitors []models.Competitor
	if err := json.Unmarshal([]byte(jsonStr), &competitors); err != nil {
		return nil
	}
	return competitors
}

// Brand Operations

// CreateBrand creates a new tracked brand
func (s *SQLite) CreateBrand(ctx context.Context, brand *models.Brand) error {
	brand.CreatedAt = time.Now()
	brand.UpdatedAt = time.Now()

	competitorsJSON, err := competitorsToJSON(brand.Competitors)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO brands (id, name, domain, competitors, cron_expr, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		brand.ID,
		brand.Name,
		brand.Domain,
		competitorsJSON,
		brand.CronExpr,
		brand.Enabled,
		brand.CreatedAt,
		brand.UpdatedAt,
	)

	return err
}

// GetBrand retrieves a brand by ID
func (s *SQLite) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	query := `
		SELECT id, name, domain, competitors, cron_expr, enabled, created_at, updated_at
		FROM brands WHERE id = ?`

	var brand models.Brand
	var competitorsJSON string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&brand.ID,
		&brand.Name,
		&brand.Domain,
		&competitorsJSON,
		&brand.CronExpr,
		&brand.Enabled,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brand %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	brand.Competitors = jsonToCompetitors(competitorsJSON)
	return &brand, nil
}

// ListBrands lists all brands, optionally filtered by enabled status
func (s *SQLite) ListBrands(ctx context.Context, enabled *bool) ([]*models.Brand, error) {
	query := `
		SELECT id, name, domain, competitors, cron_expr, enabled, created_at, updated_at
		FROM brands`
	args := []interface{}{}

	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*models.Brand
	for rows.Next() {
		var brand models.Brand
		var competitorsJSON string

		err := rows.Scan(
			&brand.ID,
			&brand.Name,
			&brand.Domain,
			&competitorsJSON,
			&brand.CronExpr,
			&brand.Enabled,
			&brand.CreatedAt,
			&brand.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		brand.Competitors = jsonToCompetitors(competitorsJSON)
		brands = append(brands, &brand)
	}

	return brands, rows.Err()
}

// UpdateBrand updates an existing brand
func (s *SQLite) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	brand.UpdatedAt = time.Now()

	competitorsJSON, err := competitorsToJSON(brand.Competitors)
	if err != nil {
		return err
	}

	query := `
		UPDATE brands
		SET name = ?, domain = ?, competitors = ?, cron_expr = ?, enabled = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		brand.Name,
		brand.Domain,
		competitorsJSON,
		brand.CronExpr,
		brand.Enabled,
		brand.UpdatedAt,
		brand.ID,
	)

	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("brand %s: %w", brand.ID, db.ErrNotFound)
	}

	return nil
}

// DeleteBrand deletes a brand and its tracked queries
func (s *SQLite) DeleteBrand(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tracked_queries WHERE brand_id = ?", id); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM brands WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("brand %s: %w", id, db.ErrNotFound)
	}

	return nil
}

// Tracked Query Operations

// CreateQuery creates a new tracked query
func (s *SQLite) CreateQuery(ctx context.Context, q *models.TrackedQuery) error {
	q.CreatedAt = time.Now()
	q.UpdatedAt = time.Now()

	query := `
		INSERT INTO tracked_queries (id, brand_id, text, keyword, category, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		q.ID,
		q.BrandID,
		q.Text,
		q.Keyword,
		q.Category,
		q.Enabled,
		q.CreatedAt,
		q.UpdatedAt,
	)

	return err
}

// GetQuery retrieves a tracked query by ID
func (s *SQLite) GetQuery(ctx context.Context, id string) (*models.TrackedQuery, error) {
	query := `
		SELECT id, brand_id, text, keyword, category, enabled, created_at, updated_at
		FROM tracked_queries WHERE id = ?`

	var q models.TrackedQuery

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID,
		&q.BrandID,
		&q.Text,
		&q.Keyword,
		&q.Category,
		&q.Enabled,
		&q.CreatedAt,
		&q.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("query %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &q, nil
}

// ListQueries lists a brand's tracked queries, optionally filtered by enabled status
func (s *SQLite) ListQueries(ctx context.Context, brandID string, enabled *bool) ([]*models.TrackedQuery, error) {
	query := `
		SELECT id, brand_id, text, keyword, category, enabled, created_at, updated_at
		FROM tracked_queries WHERE brand_id = ?`
	args := []interface{}{brandID}

	if enabled != nil {
		query += " AND enabled = ?"
		args = append(args, *enabled)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []*models.TrackedQuery
	for rows.Next() {
		var q models.TrackedQuery

		err := rows.Scan(
			&q.ID,
			&q.BrandID,
			&q.Text,
			&q.Keyword,
			&q.Category,
			&q.Enabled,
			&q.CreatedAt,
			&q.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		queries = append(queries, &q)
	}

	return queries, rows.Err()
}

// UpdateQuery updates an existing tracked query
func (s *SQLite) UpdateQuery(ctx context.Context, q *models.TrackedQuery) error {
	q.UpdatedAt = time.Now()

	query := `
		UPDATE tracked_queries
		SET text = ?, keyword = ?, category = ?, enabled = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		q.Text,
		q.Keyword,
		q.Category,
		q.Enabled,
		q.UpdatedAt,
		q.ID,
	)

	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("query %s: %w", q.ID, db.ErrNotFound)
	}

	return nil
}

// DeleteQuery deletes a tracked query
func (s *SQLite) DeleteQuery(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tracked_queries WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("query %s: %w", id, db.ErrNotFound)
	}

	return nil
}
