package ioquery

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// NoResultError creates an error for filters that match nothing.
func NoResultError(what string, filter any) error {
	msg := `No %s matches the query

<em>How to fix:</em>
  1. Remove some of the filters
  2. Run the query without filters to see available options`

	vars := []any{what}
	return &gn.Error{
		Code: errcode.QueryNoResultError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no %s found for %+v", what, filter),
	}
}

// ArgumentError creates an error for invalid query arguments.
func ArgumentError(err error) error {
	msg := "Invalid query: %s"
	vars := []any{err.Error()}
	return &gn.Error{
		Code: errcode.QueryArgumentError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid query: %w", err),
	}
}

// ExecutionError creates an error for a query the catalog store could not
// run.
func ExecutionError(err error) error {
	msg := "Cannot query the catalog"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.QueryExecutionError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

// NotConnectedError creates an error for queries without a catalog
// connection.
func NotConnectedError() error {
	msg := "Query attempted without catalog connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to catalog"),
	}
}
