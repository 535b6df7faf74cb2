package ioharvest

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// NotConnectedError creates an error for when harvest
// is attempted without catalog connection.
func NotConnectedError() error {
	msg := "Harvest attempted without catalog connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to catalog"),
	}
}

// SelectionError creates an error for dataset ids that are not in
// catalog.yaml.
func SelectionError(ids []string, err error) error {
	msg := `Cannot select datasets <em>%s</em>

<em>How to fix:</em>
  1. Check ids of datasets in catalog.yaml
  2. Run <em>dscat check</em> without ids to see all datasets`

	vars := []any{strings.Join(ids, ", ")}

	return &gn.Error{
		Code: errcode.CatalogValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot select datasets: %w", err),
	}
}

// HarvestMetadataError creates an error for metadata that cannot be
// read from the files of a dataset descriptor.
func HarvestMetadataError(id string, err error) error {
	msg := `Cannot read metadata of dataset <em>%s</em>

<em>Possible causes:</em>
  - File is missing or unreadable
  - Variable is absent from the file
  - Time units or calendar cannot be parsed

<em>How to fix:</em>
  1. Check the files with <em>dscat check -i %s</em>
  2. Set time_calendar or time_units overrides in catalog.yaml`

	vars := []any{id, id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)

	return &gn.Error{
		Code: errcode.HarvestMetadataError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: metadata of %s: %w",
			fn.Name(), id, err),
	}
}

// HarvestInsertError creates an error for a dataset that could not be
// written to the catalog.
func HarvestInsertError(id string, err error) error {
	msg := "Cannot insert dataset <em>%s</em> into the catalog"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.HarvestInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert of %s: %w", id, err),
	}
}

// PackageResolutionMismatchError creates an error for package members
// that are not in the catalog.
func PackageResolutionMismatchError(
	name string,
	expected, found int,
	missing []string,
) error {
	msg := `Package <em>%s</em> expects %d fields, found %d in catalog

<em>Missing:</em> %s

<em>How to fix:</em>
  1. Harvest member datasets before the package
  2. Check that package datasets point to the harvested files`

	vars := []any{name, expected, found, strings.Join(missing, "; ")}

	return &gn.Error{
		Code: errcode.PackageResolutionMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"package %s: expected %d fields, found %d",
			name, expected, found),
	}
}

// PackageInsertError creates an error for a package that could not be
// written to the catalog.
func PackageInsertError(name string, err error) error {
	msg := "Cannot insert package <em>%s</em> into the catalog"
	vars := []any{name}

	return &gn.Error{
		Code: errcode.PackageInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert of package %s: %w", name, err),
	}
}

// AllFailedError creates an error for a harvest where no dataset and no
// package could be inserted.
func AllFailedError(failedCount int) error {
	msg := `All %d harvest units failed

<em>How to fix:</em>
  1. Check the log file for details
  2. Run <em>dscat check</em> to test the dataset files`

	vars := []any{failedCount}

	return &gn.Error{
		Code: errcode.HarvestAllFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d harvest units failed", failedCount),
	}
}

// CancelledError creates an error for a harvest interrupted by the
// context.
func CancelledError(err error) error {
	msg := "Harvest was cancelled"

	return &gn.Error{
		Code: errcode.HarvestCancelledError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("harvest cancelled: %w", err),
	}
}
