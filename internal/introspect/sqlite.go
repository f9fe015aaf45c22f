package introspect

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ergen-io/ergen/internal/schema"
)

// SQLiteClient manages the connection to a SQLite database file.
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens the database file and verifies the connection.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection.
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// SQLiteExtractor builds a diagram schema from a SQLite database.
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a SQLite extractor.
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{client: client}
}

// ExtractSchema extracts entities and relationships for the requested
// tables; an empty list means every user table in the database.
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, requested []string) (*schema.Schema, error) {
	names, err := e.tableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	var tables []table
	for _, name := range filterTables(names, requested) {
		t, err := e.extractTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		tables = append(tables, t)
	}

	return buildSchema(tables), nil
}

func (e *SQLiteExtractor) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (e *SQLiteExtractor) extractTable(ctx context.Context, name string) (table, error) {
	t := table{name: name}

	columns, err := e.extractColumns(ctx, name)
	if err != nil {
		return t, fmt.Errorf("failed to extract columns: %w", err)
	}
	t.columns = columns

	fks, err := e.extractForeignKeys(ctx, name)
	if err != nil {
		return t, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	t.foreignKeys = fks

	return t, nil
}

func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := e.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var cid, notNull, pkOrder int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pkOrder); err != nil {
			return nil, err
		}

		columns = append(columns, column{
			name:       name,
			dbType:     colType,
			primaryKey: pkOrder > 0,
		})
	}
	return columns, rows.Err()
}

func (e *SQLiteExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]foreignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName)

	rows, err := e.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []foreignKey
	for rows.Next() {
		var id, seq int
		var parent, from, onUpdate, onDelete, match string
		// The referenced column is NULL when the FK targets the parent's
		// implicit primary key.
		var to sql.NullString

		if err := rows.Scan(&id, &seq, &parent, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fks = append(fks, foreignKey{column: from, parentTable: parent})
	}
	return fks, rows.Err()
}
