package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
}

func TestSchemaErrors(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"create", CreateSchemaError(cause), errcode.SchemaCreateError},
		{"migrate", MigrateSchemaError(cause), errcode.SchemaMigrateError},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Contains(t, gnErr.Msg, "dscat", v.msg)
		assert.ErrorIs(t, gnErr.Err, cause, v.msg)
	}
}
