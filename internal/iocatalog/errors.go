package iocatalog

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// CatalogConfigError creates an error for when catalog.yaml
// cannot be read or parsed.
func CatalogConfigError(path string, err error) error {
	msg := `Cannot load catalog configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format or unknown keys
  - Permission denied

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.CatalogConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load catalog config: %w", err),
	}
}

// CatalogValidationError creates an error for a catalog.yaml with
// invalid descriptors.
func CatalogValidationError(path string, err error) error {
	msg := `Invalid descriptor in <em>%s</em>

%s`

	vars := []any{path, err.Error()}

	return &gn.Error{
		Code: errcode.CatalogValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid catalog config: %w", err),
	}
}
