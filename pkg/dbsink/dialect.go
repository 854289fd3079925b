// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: SQL dialects of the supported databases.

package dbsink

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	// Register the supported database drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/pkg/errors"

	"github.com/getoutreach/ilslog/pkg/orerr"
)

const (
	// ErrUnsupportedDriver is returned for drivers without a dialect.
	ErrUnsupportedDriver = orerr.SentinelError("unsupported database driver")
	// ErrInvalidTable is returned for table names that are not plain
	// identifiers.
	ErrInvalidTable = orerr.SentinelError("invalid table name")
)

// sqliteTime is the layout timestamps are stored with in sqlite, which
// has no native time type. It sorts lexically.
const sqliteTime = "2006-01-02 15:04:05.000"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Dialect describes how to talk to one kind of database.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string

	idColumn   string
	timeColumn string
	textColumn func(width int) string
	numbered   bool
	timeArg    func(t time.Time) any
}

//nolint:gochecknoglobals // Why: fixed set of dialects.
var (
	SQLite = Dialect{
		Name:       "sqlite",
		idColumn:   "id INTEGER PRIMARY KEY AUTOINCREMENT",
		timeColumn: "TEXT",
		textColumn: func(w int) string { return fmt.Sprintf("VARCHAR(%d)", w) },
		timeArg:    func(t time.Time) any { return t.UTC().Format(sqliteTime) },
	}
	Postgres = Dialect{
		Name:       "postgres",
		idColumn:   "id BIGSERIAL PRIMARY KEY",
		timeColumn: "TIMESTAMPTZ",
		textColumn: func(w int) string { return fmt.Sprintf("VARCHAR(%d)", w) },
		numbered:   true,
		timeArg:    func(t time.Time) any { return t.UTC() },
	}
	MySQL = Dialect{
		Name:       "mysql",
		idColumn:   "id BIGINT AUTO_INCREMENT PRIMARY KEY",
		timeColumn: "DATETIME(3)",
		textColumn: func(w int) string {
			if w > 1000 {
				return "TEXT"
			}
			return fmt.Sprintf("VARCHAR(%d)", w)
		},
		timeArg: func(t time.Time) any { return t.UTC() },
	}
)

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	}
	return Dialect{}, errors.Wrapf(ErrUnsupportedDriver, "%q", driver)
}

// ValidateTable returns an error when table is not a plain identifier.
func ValidateTable(table string) error {
	if !tableName.MatchString(table) {
		return errors.Wrapf(ErrInvalidTable, "%q", table)
	}
	return nil
}

func (d *Dialect) placeholder(i int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// CreateTable returns the statement creating table when it is absent.
func (d *Dialect) CreateTable(table string) string {
	text := d.textColumn
	cols := []string{
		d.idColumn,
		"process_id INTEGER",
		"thread BIGINT",
		"project " + text(WidthProject),
		"scope " + text(WidthScope),
		"client_id " + text(WidthClientID),
		"thread_name " + text(WidthThreadName),
		"module " + text(WidthModule),
		"logger_name " + text(WidthLogger),
		"timestamp " + d.timeColumn,
		"log_level INTEGER",
		"log_level_name " + text(WidthLevelName),
		"log_message " + text(WidthMessage),
		"function_name " + text(WidthFunction),
		"line_number " + text(WidthLine),
		"retain_until " + d.timeColumn,
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t"))
}

// Insert returns the parameterized insert of one row into table.
func (d *Dialect) Insert(table string) string {
	ph := make([]string, len(Columns))
	for i := range ph {
		ph[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(Columns, ", "), strings.Join(ph, ", "))
}

// Purge returns the statement deleting the rows of table whose
// retention has passed.
func (d *Dialect) Purge(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE retain_until < %s", table, d.placeholder(1))
}

// args returns the insert arguments of r.
func (d *Dialect) args(r *Row) []any {
	args := r.Args()
	args[8] = d.timeArg(r.Timestamp)
	args[14] = d.timeArg(r.RetainUntil)
	return args
}
