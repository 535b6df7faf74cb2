// Package dscat holds application-wide values of the NCPP dataset catalog.
package dscat

var (
	// Version of the application, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
