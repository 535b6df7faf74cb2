package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ncpp/dscat/internal/iodb"
	"github.com/ncpp/dscat/internal/iotesting"
	"github.com/ncpp/dscat/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCreateCmd(t *testing.T) {
	cmd := getCreateCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "create", cmd.Use)
	assert.Contains(t, cmd.Short, "schema")
	assert.NotNil(t, cmd.RunE)

	forceFlag := cmd.Flags().Lookup("force")
	require.NotNil(t, forceFlag, "--force flag should exist")
	assert.Equal(t, "f", forceFlag.Shorthand)
	assert.Equal(t, "false", forceFlag.DefValue)
	assert.Contains(t, forceFlag.Usage, "drop")
}

func TestGetCreateCmd_HelpText(t *testing.T) {
	cmd := getCreateCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "--force")
	assert.Contains(t, helpText, "Examples:")
	assert.Contains(t, helpText, "dscat create -f")
}

func TestRunCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	cfg = iotesting.GetTestConfig(t)

	hasTables := func() bool {
		op := iodb.New()
		require.NoError(t, op.Connect(ctx, cfg))
		defer op.Close()
		res, err := op.HasTables(ctx)
		require.NoError(t, err)
		return res
	}
	insertCategory := func() {
		op := iotesting.OpenCatalog(t, cfg)
		err := op.DB().Create(&schema.DatasetCategory{Name: "GCMs"}).Error
		require.NoError(t, err)
		op.Close()
	}
	categories := func() int64 {
		op := iodb.New()
		require.NoError(t, op.Connect(ctx, cfg))
		defer op.Close()
		var n int64
		require.NoError(t, op.DB().Model(&schema.DatasetCategory{}).Count(&n).Error)
		return n
	}

	require.NoError(t, runCreate(ctx, strings.NewReader(""), false))
	assert.True(t, hasTables(), "empty catalog does not ask")

	insertCategory()

	t.Run("declined", func(t *testing.T) {
		require.NoError(t, runCreate(ctx, strings.NewReader("no\n"), false))
		assert.Equal(t, int64(1), categories())
	})

	t.Run("confirmed", func(t *testing.T) {
		require.NoError(t, runCreate(ctx, strings.NewReader("y\n"), false))
		assert.Equal(t, int64(0), categories())
	})

	t.Run("forced", func(t *testing.T) {
		insertCategory()
		require.NoError(t, runCreate(ctx, strings.NewReader(""), true))
		assert.Equal(t, int64(0), categories())
	})
}
