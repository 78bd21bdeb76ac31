// Package db builds scaffold schemas from existing relational databases.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tordrt/backendgen/internal/schema"
)

// Extractor reads table definitions from a database
type Extractor interface {
	ExtractTables(ctx context.Context, tables []string) ([]Table, error)
}

// Options configures an import
type Options struct {
	// Tables restricts the import to the named tables
	Tables []string

	// ExcludeTables drops the named tables after extraction
	ExcludeTables []string

	// SchemaName is the PostgreSQL schema ("public" if empty) or the MySQL
	// database (taken from the URL if empty). Unused for SQLite.
	SchemaName string
}

// ParseURL detects the database type and returns the driver connection string
func ParseURL(url string) (dbType, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres", url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		return "mysql", strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		return "sqlite", strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Import connects to the database at url and converts its tables into a
// scaffold schema
func Import(ctx context.Context, url string, opts *Options, logger *slog.Logger) (*schema.Schema, error) {
	if opts == nil {
		opts = &Options{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dbType, connStr, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	var tables []Table
	switch dbType {
	case "postgres":
		tables, err = extractPostgres(ctx, connStr, opts, logger)
	case "mysql":
		tables, err = extractMySQL(ctx, connStr, opts, logger)
	case "sqlite":
		tables, err = extractSQLite(ctx, connStr, opts, logger)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
	if err != nil {
		return nil, err
	}

	return ToSchema(FilterExcludedTables(tables, opts.ExcludeTables)), nil
}

func extractPostgres(ctx context.Context, connStr string, opts *Options, logger *slog.Logger) ([]Table, error) {
	client, err := NewPostgresClient(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			logger.Warn("failed to close PostgreSQL connection", "error", err)
		}
	}()

	schemaName := opts.SchemaName
	if schemaName == "" {
		schemaName = "public"
	}

	return extract(ctx, NewPostgresExtractor(client, schemaName), opts.Tables)
}

func extractMySQL(ctx context.Context, connStr string, opts *Options, logger *slog.Logger) ([]Table, error) {
	schemaName := opts.SchemaName
	if schemaName == "" {
		var err error
		schemaName, err = ParseDatabaseName(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to determine database name: %w (please specify the schema name)", err)
		}
	}

	client, err := NewMySQLClient(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close MySQL connection", "error", err)
		}
	}()

	return extract(ctx, NewMySQLExtractor(client, schemaName), opts.Tables)
}

func extractSQLite(ctx context.Context, path string, opts *Options, logger *slog.Logger) ([]Table, error) {
	client, err := NewSQLiteClient(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close SQLite connection", "error", err)
		}
	}()

	return extract(ctx, NewSQLiteExtractor(client), opts.Tables)
}

func extract(ctx context.Context, e Extractor, tables []string) ([]Table, error) {
	extracted, err := e.ExtractTables(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}
	return extracted, nil
}

// FilterExcludedTables returns tables without the ones named in excludeList
func FilterExcludedTables(tables []Table, excludeList []string) []Table {
	if len(excludeList) == 0 {
		return tables
	}

	excludeSet := make(map[string]bool)
	for _, tableName := range excludeList {
		excludeSet[tableName] = true
	}

	filtered := make([]Table, 0, len(tables))
	for _, table := range tables {
		if !excludeSet[table.Name] {
			filtered = append(filtered, table)
		}
	}
	return filtered
}
