package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ergen-io/ergen/internal/schema"
)

// MySQLClient manages the connection to MySQL.
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient opens and verifies the connection. connString is in the
// Go MySQL driver's DSN format, e.g. "user:pass@tcp(host:3306)/dbname".
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &MySQLClient{db: db}, nil
}

// Close closes the database connection.
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// ParseDatabaseName extracts the database name from a MySQL DSN, used as
// the default schema when the caller does not specify one.
func ParseDatabaseName(connString string) (string, error) {
	idx := strings.LastIndex(connString, "/")
	if idx < 0 || idx == len(connString)-1 {
		return "", fmt.Errorf("no database name in connection string")
	}
	name := connString[idx+1:]
	if q := strings.IndexByte(name, '?'); q >= 0 {
		name = name[:q]
	}
	if name == "" {
		return "", fmt.Errorf("no database name in connection string")
	}
	return name, nil
}

// MySQLExtractor builds a diagram schema from a MySQL database.
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates an extractor for the given database name.
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{client: client, schemaName: schemaName}
}

// ExtractSchema extracts entities and relationships for the requested
// tables; an empty list means every base table in the database.
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, requested []string) (*schema.Schema, error) {
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

func (e *MySQLExtractor) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.db.QueryContext(ctx, query, e.schemaName)
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

func (e *MySQLExtractor) extractTable(ctx context.Context, name string) (table, error) {
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

func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]column, error) {
	query := `
		SELECT column_name, data_type, column_key
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := e.client.db.QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var col column
		var columnKey string
		if err := rows.Scan(&col.name, &col.dbType, &columnKey); err != nil {
			return nil, err
		}
		col.primaryKey = columnKey == "PRI"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (e *MySQLExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]foreignKey, error) {
	query := `
		SELECT column_name, referenced_table_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position
	`

	rows, err := e.client.db.QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []foreignKey
	for rows.Next() {
		var fk foreignKey
		if err := rows.Scan(&fk.column, &fk.parentTable); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
