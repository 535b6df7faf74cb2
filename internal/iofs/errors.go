package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// CreateDirError is returned when a dscat directory cannot be created.
func CreateDirError(dir string, err error) error {
	return fsError(errcode.CreateDirError,
		"Cannot create directory <em>%s</em>", dir,
		fmt.Errorf("cannot create directory: %w", err))
}

// CopyFileError is returned when an embedded default file cannot be
// written to the config directory.
func CopyFileError(file string, err error) error {
	return fsError(errcode.CopyFileError,
		"Cannot write default file to <em>%s</em>", file,
		fmt.Errorf("cannot copy file: %w", err))
}

// ReadFileError is returned for a config or catalog file that cannot be
// read or parsed.
func ReadFileError(path string, err error) error {
	return fsError(errcode.ReadFileError,
		"Cannot read <em>%s</em>", path,
		fmt.Errorf("cannot read %s: %w", path, err))
}

func fsError(code gn.ErrorCode, msg, path string, err error) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
