package schema

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
)

// UnrecognizedTemporalResolutionError is returned when a time resolution
// does not fit day, month or year buckets.
func UnrecognizedTemporalResolutionError(days float64) error {
	msg := "Time resolution of <em>%g</em> days is not a day, month or year"
	vars := []any{days}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnrecognizedTemporalResolutionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unrecognized temporal resolution %g",
			fn.Name(), days),
	}
}

// PackageConsistencyError is returned when package members have
// different array shapes.
func PackageConsistencyError(name, shape, other string) error {
	msg := `Fields of data package <em>%s</em> must have the same shape

  Found shapes: %s and %s`
	vars := []any{name, shape, other}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PackageConsistencyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: package %q shape mismatch %s != %s",
			fn.Name(), name, shape, other),
	}
}

// EmptyPackageError is returned when a package has no fields.
func EmptyPackageError(name string) error {
	msg := "Data package <em>%s</em> has no fields"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PackageConsistencyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: package %q is empty", fn.Name(), name),
	}
}
