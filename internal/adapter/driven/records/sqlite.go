package records

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	_ "modernc.org/sqlite"
)

const defaultTable = "records"

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseSQLiteSource aceita sqlite:///abs/path.db?table=name e sqlite://rel/path.db.
func parseSQLiteSource(source string) (path, table string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("invalid sqlite source %s: %w", source, err)
	}
	path = u.Host + u.Path
	if path == "" {
		return "", "", fmt.Errorf("sqlite source without database path: %s", source)
	}

	table = u.Query().Get("table")
	if table == "" {
		table = defaultTable
	}
	if !tableNameRegex.MatchString(table) {
		return "", "", fmt.Errorf("invalid sqlite table name: %q", table)
	}
	return path, table, nil
}

func loadSQLite(ctx context.Context, source string) ([]entity.RawRecord, error) {
	path, table, err := parseSQLiteSource(source)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("error accessing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	defer db.Close()

	// rowid mantém a ordem de inserção dos meses de cada cliente.
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, table))
	if err != nil && strings.Contains(err.Error(), "no such column: rowid") {
		// WITHOUT ROWID: a varredura segue a chave primária.
		rows, err = db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	}
	if err != nil {
		return nil, fmt.Errorf("error querying table %s in %s: %w", table, path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns of %s: %w", table, err)
	}

	var out []entity.RawRecord
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning row of %s: %w", table, err)
		}

		record := make(entity.RawRecord, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				record[name] = string(b)
				continue
			}
			record[name] = values[i]
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", table, err)
	}
	return out, nil
}
