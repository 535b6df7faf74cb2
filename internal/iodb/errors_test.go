package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsStructure(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		msg   string
		err   error
		code  gn.ErrorCode
		nVars int
		wraps bool
	}{
		{
			"connection",
			ConnectionError("localhost", 5432, "dscat", "postgres", cause),
			errcode.DBConnectionError, 4, true,
		},
		{
			"sqlite open",
			SqliteOpenError("/tmp/catalog.sqlite", cause),
			errcode.DBConnectionError, 1, true,
		},
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError, 0, false},
		{
			"drop table",
			DropTableError("field", cause),
			errcode.DBDropTableError, 1, true,
		},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.NotEmpty(t, gnErr.Msg, v.msg)
		assert.Len(t, gnErr.Vars, v.nVars, v.msg)
		if v.wraps {
			assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		}
	}
}
