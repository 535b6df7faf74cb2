package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBDropTableError
	DBEmptyDatabaseError
	DBTransactionError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Catalog configuration errors
	CatalogConfigError
	CatalogValidationError

	// Harvest errors
	HarvestMetadataError
	UnrecognizedTemporalResolutionError
	HarvestInsertError
	HarvestAllFailedError
	HarvestCancelledError

	// Data package errors
	PackageConsistencyError
	PackageResolutionMismatchError
	PackageInsertError

	// Query errors
	QueryNoResultError
	QueryArgumentError
	QueryExecutionError

	// Job submission errors
	JobRequestError
	JobSubmitError
	JobStatusError
	JobFailedError
	JobTimeoutError

	// Server errors
	ServerStartError
)

// Code returns the code of the first *gn.Error found in the chain of err.
// It returns UnknownError if there is none.
func Code(err error) gn.ErrorCode {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code
	}
	return UnknownError
}
