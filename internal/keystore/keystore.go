package keystore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record describes a stored wallet without its secret material.
type Record struct {
	ID        string
	Name      string
	CreatedAt int64
}

// Store is a SQLite-backed keystore. One file can hold many named wallets.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) a keystore database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "keystore.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		envelope TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_wallets_name ON wallets(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save encrypts a mnemonic under the password and stores it under a unique
// name. The returned record carries the generated id.
func (s *Store) Save(name, mnemonic, password string) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("wallet name cannot be empty")
	}

	enc, err := encryptMnemonic(mnemonic, password)
	if err != nil {
		return nil, err
	}
	envelope, err := json.Marshal(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}

	_, err = s.db.Exec(`
		INSERT INTO wallets (id, name, envelope, created_at)
		VALUES (?, ?, ?, ?)
	`, rec.ID, rec.Name, string(envelope), rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store wallet %q: %w", name, err)
	}

	return rec, nil
}

// Load decrypts the mnemonic stored under a name.
func (s *Store) Load(name, password string) (string, error) {
	var envelope string
	err := s.db.QueryRow(`SELECT envelope FROM wallets WHERE name = ?`, name).Scan(&envelope)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("wallet %q not found", name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load wallet %q: %w", name, err)
	}

	var enc encryptedMnemonic
	if err := json.Unmarshal([]byte(envelope), &enc); err != nil {
		return "", fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	return decryptMnemonic(&enc, password)
}

// List returns all stored wallet records, newest first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, name, created_at FROM wallets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a stored wallet by name.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM wallets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete wallet %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wallet %q not found", name)
	}
	return nil
}
