package db

import (
	"database/sql"
	"fmt"

	"oikotie-scraper/models"

	_ "github.com/lib/pq"
)

// Store is an optional Postgres archive of every record the fetcher
// has seen. The sheet remains the dedup authority; the archive simply
// upserts by listing id so repeated runs stay idempotent.
type Store struct {
	conn *sql.DB
}

// NewStore opens the database and creates the schema if needed.
func NewStore(connStr string) (*Store, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{conn: conn}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS houses (
			id BIGINT PRIMARY KEY,
			url TEXT,
			description TEXT,
			rooms INTEGER,
			room_configuration TEXT,
			price INTEGER,
			published TIMESTAMP,
			size DOUBLE PRECISION,
			address TEXT,
			district TEXT,
			city TEXT,
			country TEXT,
			year INTEGER,
			building_type TEXT,
			longitude DOUBLE PRECISION,
			latitude DOUBLE PRECISION,
			brand_name TEXT,
			price_changed TIMESTAMP,
			visits INTEGER,
			visits_weekly INTEGER,
			first_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create houses table: %w", err)
	}
	return nil
}

// SaveEntry upserts one record by listing id, refreshing the mutable
// columns and the last_seen marker on conflict.
func (s *Store) SaveEntry(entry models.HouseEntry) error {
	_, err := s.conn.Exec(`
		INSERT INTO houses (
			id, url, description, rooms, room_configuration, price,
			published, size, address, district, city, country, year,
			building_type, longitude, latitude, brand_name,
			price_changed, visits, visits_weekly
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		ON CONFLICT (id) DO UPDATE SET
			price = EXCLUDED.price,
			price_changed = EXCLUDED.price_changed,
			visits = EXCLUDED.visits,
			visits_weekly = EXCLUDED.visits_weekly,
			last_seen = CURRENT_TIMESTAMP
	`,
		entry.ID, entry.URL, entry.Description, entry.Rooms,
		entry.RoomConfiguration, entry.Price, entry.Published,
		entry.Size, entry.Address, entry.District, entry.City,
		entry.Country, entry.Year, entry.BuildingType, entry.Longitude,
		entry.Latitude, entry.BrandName, entry.PriceChanged,
		entry.Visits, entry.VisitsWeekly,
	)
	if err != nil {
		return fmt.Errorf("failed to save listing %d: %w", entry.ID, err)
	}
	return nil
}

// CountEntries returns the number of archived listings.
func (s *Store) CountEntries() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM houses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}
