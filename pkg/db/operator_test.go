package db_test

import (
	"testing"

	"github.com/ncpp/dscat/internal/iodb"
	"github.com/ncpp/dscat/pkg/db"
)

// TestOperatorImplementsInterface verifies that the gorm operator
// implements the db.Operator interface.
func TestOperatorImplementsInterface(t *testing.T) {
	var _ db.Operator = iodb.New()
}
