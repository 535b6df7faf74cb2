package iofs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		msg    string
		err    error
		code   gn.ErrorCode
		path   string
		inText string
	}{
		{
			"create dir",
			CreateDirError("/home/u/.config/dscat", cause),
			errcode.CreateDirError, "/home/u/.config/dscat", "cannot create directory",
		},
		{
			"copy file",
			CopyFileError("/home/u/.config/dscat/catalog.yaml", cause),
			errcode.CopyFileError, "/home/u/.config/dscat/catalog.yaml", "cannot copy file",
		},
		{
			"read file",
			ReadFileError("/home/u/.config/dscat/config.yaml", cause),
			errcode.ReadFileError, "/home/u/.config/dscat/config.yaml", "cannot read",
		},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Equal(t, v.code, errcode.Code(fmt.Errorf("wrapped: %w", v.err)), v.msg)
		require.Len(t, gnErr.Vars, 1, v.msg)
		assert.Equal(t, v.path, gnErr.Vars[0], v.msg)
		assert.Contains(t, fmt.Sprintf(gnErr.Msg, gnErr.Vars...), v.path, v.msg)
		assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		assert.Contains(t, gnErr.Err.Error(), v.inText, v.msg)
		assert.Contains(t, gnErr.Err.Error(), "TestErrors",
			"%s: caller is recorded", v.msg)
	}
}
