package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"pantry-monitor/models"
)

// ErrItemNotFound is returned when an item lookup by ID matches nothing.
var ErrItemNotFound = errors.New("item not found")

// Store persists scans, items and change history to PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use Store.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pantry_scans (
			scan_id       SERIAL PRIMARY KEY,
			scan_date     TIMESTAMP NOT NULL DEFAULT NOW(),
			image_path    VARCHAR(500),
			raw_analysis  TEXT,
			api_cost      DECIMAL(10,6),
			input_tokens  INTEGER,
			output_tokens INTEGER
		);

		CREATE TABLE IF NOT EXISTS pantry_items (
			item_id          SERIAL PRIMARY KEY,
			item_name        VARCHAR(200) NOT NULL,
			category         VARCHAR(100),
			first_detected   TIMESTAMP DEFAULT NOW(),
			last_seen        TIMESTAMP DEFAULT NOW(),
			current_quantity INTEGER DEFAULT 1,
			is_active        BOOLEAN DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS inventory_changes (
			change_id   SERIAL PRIMARY KEY,
			scan_id     INTEGER REFERENCES pantry_scans(scan_id),
			item_name   VARCHAR(200) NOT NULL,
			change_type VARCHAR(20) NOT NULL,
			details     TEXT,
			detected_at TIMESTAMP DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_pantry_items_name      ON pantry_items(item_name);
		CREATE INDEX IF NOT EXISTS idx_inventory_changes_scan ON inventory_changes(scan_id);
		CREATE INDEX IF NOT EXISTS idx_pantry_scans_date      ON pantry_scans(scan_date);
	`)
	return err
}

// SaveScan inserts a scan record and returns its ID.
func (s *Store) SaveScan(imagePath, rawAnalysis string, cost float64, inputTokens, outputTokens int) (int64, error) {
	var scanID int64
	err := s.db.QueryRow(`
		INSERT INTO pantry_scans (image_path, raw_analysis, api_cost, input_tokens, output_tokens)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING scan_id
	`, imagePath, rawAnalysis, cost, inputTokens, outputTokens).Scan(&scanID)
	if err != nil {
		return 0, fmt.Errorf("postgres: save scan: %w", err)
	}
	return scanID, nil
}

// AddItem inserts a new item, or bumps quantity and last_seen when an
// item with the same name (case-insensitive) already exists.
func (s *Store) AddItem(itemName, category string) (int64, error) {
	var itemID int64
	err := s.db.QueryRow(`
		SELECT item_id FROM pantry_items
		WHERE LOWER(item_name) = LOWER($1)
	`, itemName).Scan(&itemID)

	switch {
	case err == nil:
		_, err = s.db.Exec(`
			UPDATE pantry_items
			SET last_seen = NOW(),
			    is_active = TRUE,
			    current_quantity = current_quantity + 1
			WHERE item_id = $1
		`, itemID)
		if err != nil {
			return 0, fmt.Errorf("postgres: bump item: %w", err)
		}
		return itemID, nil

	case errors.Is(err, sql.ErrNoRows):
		var cat any
		if category != "" {
			cat = category
		}
		err = s.db.QueryRow(`
			INSERT INTO pantry_items (item_name, category)
			VALUES ($1, $2)
			RETURNING item_id
		`, itemName, cat).Scan(&itemID)
		if err != nil {
			return 0, fmt.Errorf("postgres: insert item: %w", err)
		}
		return itemID, nil

	default:
		return 0, fmt.Errorf("postgres: lookup item: %w", err)
	}
}

// RemoveItem decrements an item's quantity and deactivates it when the
// count reaches zero. An exact case-insensitive match is tried first,
// then a fuzzy LIKE match. Returns false if nothing matched.
func (s *Store) RemoveItem(itemName string) (bool, error) {
	var itemID int64
	err := s.db.QueryRow(`
		UPDATE pantry_items
		SET current_quantity = GREATEST(current_quantity - 1, 0),
		    is_active = CASE WHEN current_quantity <= 1 THEN FALSE ELSE TRUE END,
		    last_seen = NOW()
		WHERE LOWER(item_name) = LOWER($1)
		RETURNING item_id
	`, itemName).Scan(&itemID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("postgres: remove item: %w", err)
	}

	// Fuzzy fallback for partial names in the analysis text.
	err = s.db.QueryRow(`
		SELECT item_id FROM pantry_items
		WHERE LOWER(item_name) LIKE LOWER($1)
		AND is_active = TRUE
		LIMIT 1
	`, "%"+itemName+"%").Scan(&itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: fuzzy lookup: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE pantry_items
		SET current_quantity = GREATEST(current_quantity - 1, 0),
		    is_active = CASE WHEN current_quantity <= 1 THEN FALSE ELSE TRUE END,
		    last_seen = NOW()
		WHERE item_id = $1
	`, itemID)
	if err != nil {
		return false, fmt.Errorf("postgres: fuzzy remove: %w", err)
	}
	return true, nil
}

// LogChange records an inventory change against a scan.
func (s *Store) LogChange(scanID int64, itemName, changeType, details string) error {
	_, err := s.db.Exec(`
		INSERT INTO inventory_changes (scan_id, item_name, change_type, details)
		VALUES ($1, $2, $3, $4)
	`, scanID, itemName, changeType, details)
	if err != nil {
		return fmt.Errorf("postgres: log change: %w", err)
	}
	return nil
}

// CurrentInventory returns all active items ordered by name.
func (s *Store) CurrentInventory() ([]*models.Item, error) {
	rows, err := s.db.Query(`
		SELECT item_id, item_name, category, current_quantity,
		       first_detected, last_seen
		FROM pantry_items
		WHERE is_active = TRUE
		ORDER BY item_name
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: current inventory: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		it := &models.Item{}
		var category sql.NullString
		if err := rows.Scan(
			&it.ID, &it.Name, &category, &it.Quantity,
			&it.FirstDetected, &it.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan item row: %w", err)
		}
		if category.Valid {
			it.Category = category.String
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// RecentScans returns the newest scans first.
func (s *Store) RecentScans(limit int) ([]*models.Scan, error) {
	rows, err := s.db.Query(`
		SELECT scan_id, scan_date, image_path, api_cost,
		       input_tokens, output_tokens
		FROM pantry_scans
		ORDER BY scan_date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: recent scans: %w", err)
	}
	defer rows.Close()

	var scans []*models.Scan
	for rows.Next() {
		sc := &models.Scan{}
		var imagePath sql.NullString
		var cost sql.NullFloat64
		if err := rows.Scan(
			&sc.ID, &sc.Date, &imagePath, &cost,
			&sc.InputTokens, &sc.OutputTokens,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan scan row: %w", err)
		}
		sc.ImagePath = imagePath.String
		sc.Cost = cost.Float64
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// ItemName resolves an item ID to its name.
func (s *Store) ItemName(itemID int64) (string, error) {
	var name string
	err := s.db.QueryRow(`SELECT item_name FROM pantry_items WHERE item_id = $1`, itemID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrItemNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: item name: %w", err)
	}
	return name, nil
}

// ItemHistory returns the change history for an item, newest first.
func (s *Store) ItemHistory(itemName string) ([]*models.Change, error) {
	rows, err := s.db.Query(`
		SELECT ic.change_type, ic.details, ic.detected_at, ps.scan_date
		FROM inventory_changes ic
		JOIN pantry_scans ps ON ic.scan_id = ps.scan_id
		WHERE LOWER(ic.item_name) = LOWER($1)
		ORDER BY ic.detected_at DESC
	`, itemName)
	if err != nil {
		return nil, fmt.Errorf("postgres: item history: %w", err)
	}
	defer rows.Close()

	var history []*models.Change
	for rows.Next() {
		ch := &models.Change{}
		var details sql.NullString
		if err := rows.Scan(&ch.ChangeType, &details, &ch.DetectedAt, &ch.ScanDate); err != nil {
			return nil, fmt.Errorf("postgres: scan change row: %w", err)
		}
		ch.Details = details.String
		history = append(history, ch)
	}
	return history, rows.Err()
}

// Statistics computes the aggregate dashboard numbers.
func (s *Store) Statistics() (*models.Statistics, error) {
	stats := &models.Statistics{ChangeBreakdown: make(map[string]int)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pantry_scans`).Scan(&stats.TotalScans); err != nil {
		return nil, fmt.Errorf("postgres: total scans: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pantry_items WHERE is_active = TRUE`).Scan(&stats.ActiveItems); err != nil {
		return nil, fmt.Errorf("postgres: active items: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COALESCE(SUM(api_cost), 0) FROM pantry_scans`).Scan(&stats.TotalAPICost); err != nil {
		return nil, fmt.Errorf("postgres: total cost: %w", err)
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM inventory_changes
		WHERE detected_at > NOW() - INTERVAL '7 days'
	`).Scan(&stats.ChangesLastWeek); err != nil {
		return nil, fmt.Errorf("postgres: weekly changes: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT change_type, COUNT(*)
		FROM inventory_changes
		WHERE detected_at > NOW() - INTERVAL '7 days'
		GROUP BY change_type
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: change breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var changeType string
		var count int
		if err := rows.Scan(&changeType, &count); err != nil {
			return nil, fmt.Errorf("postgres: scan breakdown row: %w", err)
		}
		stats.ChangeBreakdown[changeType] = count
	}
	return stats, rows.Err()
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
