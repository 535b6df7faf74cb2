package ioharvest_test

import (
	"context"
	"testing"
	"time"

	"github.com/ncpp/dscat/internal/ioharvest"
	"github.com/ncpp/dscat/internal/iotesting"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.GetTestConfig(t)

	ext := iotesting.NewStubExtractor()
	rec := iotesting.MaurerRecord("tasmax", "Near-Surface Maximum Air Temperature")
	rec.TimeResolutionDays = 7
	ext.Add(iotesting.MaurerTasmaxURI, rec)

	cat := iotesting.Catalog()
	cat.Config.Datasets = append(cat.Config.Datasets, iotesting.Dataset("cancm4-tas"))
	cat.Config.Datasets[3].ID = "broken"
	cat.Config.Datasets[3].URI = []string{"/missing.nc"}

	res, err := ioharvest.NewChecker(ext, cat).Check(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, res.Entries, 4)

	ids := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		ids[i] = e.ID
	}
	assert.Equal(t,
		[]string{"cancm4-tas", "maurer-tas", "maurer-tasmax", "broken"}, ids,
		"catalog order")

	cancm4 := res.Entries[0]
	assert.NoError(t, cancm4.Err)
	assert.Equal(t, "day", cancm4.TimeFrequency)
	assert.Equal(t, "(1, 3650, 1, 64, 128)", cancm4.FieldShape)
	assert.Equal(t, 2001, cancm4.TimeStart.Year())

	failed := res.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "maurer-tasmax", failed[0].ID)
	assert.Equal(t, errcode.UnrecognizedTemporalResolutionError,
		errcode.Code(failed[0].Err))
	assert.Equal(t, "broken", failed[1].ID)
	assert.Equal(t, errcode.HarvestMetadataError, errcode.Code(failed[1].Err))
}

func TestCheckSelection(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	cfg.Harvest.DescriptorIDs = []string{"maurer-tas"}
	ext := iotesting.NewStubExtractor()

	res, err := ioharvest.NewChecker(ext, iotesting.Catalog()).
		Check(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC),
		res.Entries[0].TimeStop)
	assert.Equal(t, 1, ext.Calls())
}

func TestCheckCancelled(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ioharvest.NewChecker(iotesting.NewStubExtractor(), iotesting.Catalog()).
		Check(ctx, cfg)
	assert.Equal(t, errcode.HarvestCancelledError, errcode.Code(err))
}
