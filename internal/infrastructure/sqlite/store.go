/*
Package sqlite implementa los puertos de persistencia sobre SQLite para
instalaciones de una sola tienda sin servidor de base de datos.

TABLAS:

	products:      catálogo (name_key único, sin distinguir mayúsculas)
	daily_records: un registro por (product_id, date); batches en JSON

El esquema se crea en New(). Se abre en modo WAL con claves foráneas activas,
de modo que borrar un producto arrastra sus registros diarios.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	name_key   TEXT NOT NULL UNIQUE,
	price      TEXT NOT NULL DEFAULT '0',
	seq        INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_records (
	id            TEXT PRIMARY KEY,
	product_id    TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
	date          TEXT NOT NULL,
	batches       TEXT NOT NULL,
	total_sent    INTEGER NOT NULL,
	remaining_qty INTEGER NOT NULL,
	sold_qty      INTEGER NOT NULL,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL,
	UNIQUE (product_id, date)
);

CREATE INDEX IF NOT EXISTS idx_daily_records_date ON daily_records (date);
`

// querier lo implementan *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store conexión SQLite con los repositorios de catálogo y registros.
type Store struct {
	db *sql.DB
}

// New abre (o crea) la base en path y aplica el esquema.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: crear directorio: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir: %w", err)
	}
	// Un único escritor evita SQLITE_BUSY con el autosave concurrente.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: esquema: %w", err)
	}
	return &Store{db: db}, nil
}

// Products repositorio del catálogo.
func (s *Store) Products() *ProductRepo { return &ProductRepo{q: s.db} }

// Records repositorio de registros diarios.
func (s *Store) Records() *DailyRecordRepo { return &DailyRecordRepo{q: s.db} }

// Run ejecuta fn dentro de una transacción.
func (s *Store) Run(ctx context.Context, fn func(repository.ProductRepository, repository.DailyRecordRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&ProductRepo{q: tx}, &DailyRecordRepo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
