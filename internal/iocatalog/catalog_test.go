package iocatalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/internal/iocatalog"
	"github.com/ncpp/dscat/pkg/descriptor"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalog = `
datasets:
  - id: maurer-tas
    folder: /data/maurer/concatenated
    files:
      - Maurer02new_OBS_tas_daily.1971-2000.nc
    type: variable
    dataset_category:
      name: Gridded Observational
      description: Observational datasets on a regular grid.
    dataset:
      name: Maurer 2010
      description: Recent Maurer dataset.
    variables: [tas]
    clean_units:
      - standard_name: C
        long_name: Celsius
    clean_variable:
      - standard_name: air_temperature
        long_name: Air Temperature
        description: Mean daily air temperature.
  - id: cancm4-tas
    uri:
      - /data/cmip5/tas_day_CanCM4_decadal2000_r2i1p1_20010101-20101231.nc
    type: variable
    dataset_category:
      name: GCMs
    dataset:
      name: CanCM4
    variables: [tas]
    time_calendar: 365_day
    clean_units:
      - standard_name: K
        long_name: Kelvin
    clean_variable:
      - standard_name: air_temperature
        long_name: Air Temperature
packages:
  - name: Maurer 2010
    description: Maurer variables.
    dataset_category:
      name: Gridded Observational Datasets
    datasets: [maurer-tas]
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	cat, err := iocatalog.NewFromFile(writeCatalog(t, validCatalog)).Load()
	require.NoError(t, err)
	require.Len(t, cat.Datasets, 2)
	require.Len(t, cat.Packages, 1)

	maurer := cat.Datasets[0]
	assert.Equal(t, descriptor.KindFolder, maurer.Kind)
	assert.Equal(t,
		[]string{"/data/maurer/concatenated/Maurer02new_OBS_tas_daily.1971-2000.nc"},
		maurer.URIs())

	cancm4 := cat.Datasets[1]
	assert.Equal(t, descriptor.KindFile, cancm4.Kind)
	assert.Equal(t, "365_day", cancm4.TimeCalendar)

	assert.Equal(t, []string{"maurer-tas"}, cat.Packages[0].Datasets)

	// cancm4-tas misses descriptions
	var ids []string
	for _, w := range cat.Warnings {
		ids = append(ids, w.DescriptorID)
	}
	assert.Contains(t, ids, "cancm4-tas")
	assert.NotContains(t, ids, "maurer-tas")
}

func TestLoadErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tests := []struct {
		msg     string
		content string
		code    gn.ErrorCode
	}{
		{"bad yaml", "datasets: [", errcode.CatalogConfigError},
		{
			"unknown key",
			"datasets:\n  - id: a\n    variabels: [tas]\n",
			errcode.CatalogConfigError,
		},
		{"empty", "", errcode.CatalogValidationError},
		{
			"unknown package member",
			validCatalog + "  - name: Other\n    dataset_category:\n" +
				"      name: GCMs\n    datasets: [nope]\n",
			errcode.CatalogValidationError,
		},
	}

	for _, v := range tests {
		_, err := iocatalog.NewFromFile(writeCatalog(t, v.content)).Load()
		require.Error(t, err, v.msg)
		assert.Equal(t, v.code, errcode.Code(err), v.msg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := iocatalog.NewFromFile("/nonexistent/catalog.yaml").Load()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CatalogConfigError, gnErr.Code)
	assert.Equal(t, "/nonexistent/catalog.yaml", gnErr.Vars[0])
}

func TestParseEmpty(t *testing.T) {
	cat, err := iocatalog.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cat.Datasets)
}
