package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// ConnectionError creates an error for PostgreSQL connection failures.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL catalog

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Catalog configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running: <em>pg_isready -h %s -p %d</em>
  2. Verify the database exists: <em>psql -h %s -U %s -l</em>
  3. Review catalog settings in <em>~/.config/dscat/config.yaml</em>`

	vars := []any{host, port, host, user}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s:%d/%s: %w",
			fn.Name(), host, port, database, err),
	}
}

// SqliteOpenError creates an error for a sqlite catalog that cannot be
// opened.
func SqliteOpenError(path string, err error) error {
	msg := `Cannot open catalog file <em>%s</em>

<em>How to fix:</em>
  1. Check permissions of the file and its directory
  2. Set another location with <em>DSCAT_CATALOG_PATH</em>`

	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn.Name(), path, err),
	}
}

// NotConnectedError creates an error for operations attempted before
// Connect.
func NotConnectedError() error {
	msg := "Catalog operation attempted without a connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: not connected to catalog", fn.Name()),
	}
}

// DropTableError creates an error for a table that cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot drop table %s: %w",
			fn.Name(), table, err),
	}
}
