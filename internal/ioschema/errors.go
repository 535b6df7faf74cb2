package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without catalog connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without catalog connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to catalog"),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create catalog schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - Tables left by an older catalog version

<em>How to fix:</em>
  1. Check the catalog user has CREATE permissions
  2. Recreate the catalog with <em>dscat create --force</em>`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate catalog schema

<em>Possible causes:</em>
  - Incompatible schema changes
  - Insufficient database permissions

<em>How to fix:</em>
  1. Check the catalog user has ALTER permissions
  2. Harvest into a new catalog with <em>dscat harvest --fresh</em>`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}
