package schema_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/ncpp/dscat/pkg/errcode"
	"github.com/ncpp/dscat/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFrequency(t *testing.T) {
	tests := []struct {
		msg  string
		days float64
		res  string
		err  bool
	}{
		{"daily", 1.0, "day", false},
		{"daily upper bound", 2.0, "day", false},
		{"monthly", 30.0, "month", false},
		{"february", 28.0, "month", false},
		{"monthly upper bound", 31.0, "month", false},
		{"yearly", 365.0, "year", false},
		{"noleap year lower bound", 359.0, "year", false},
		{"leap year", 366.0, "year", false},
		{"semi-monthly", 15.0, "", true},
		{"sub-daily", 0.25, "", true},
		{"between day and month", 2.5, "", true},
		{"decade", 3650.0, "", true},
	}

	for _, v := range tests {
		res, err := schema.TimeFrequency(v.days)
		if v.err {
			require.Error(t, err, v.msg)
			assert.Equal(t, errcode.UnrecognizedTemporalResolutionError,
				errcode.Code(err), v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestIsFrequency(t *testing.T) {
	assert.True(t, schema.IsFrequency("day"))
	assert.True(t, schema.IsFrequency("year"))
	assert.False(t, schema.IsFrequency("week"))
	assert.False(t, schema.IsFrequency(""))
}

func field(id int64, shape string, start, stop time.Time) schema.Field {
	return schema.Field{
		ID:   id,
		Name: "tas",
		Container: schema.Container{
			ID:         id,
			FieldShape: shape,
			TimeStart:  start,
			TimeStop:   stop,
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDataPackage(t *testing.T) {
	cat := schema.DatasetCategory{ID: 3, Name: "Observational"}

	t.Run("same shape", func(t *testing.T) {
		fields := []schema.Field{
			field(1, "(1, 3650, 64, 128)", date(1980, 1, 1), date(1990, 1, 1)),
			field(2, "(1, 3650, 64, 128)", date(1971, 1, 1), date(1985, 1, 1)),
			field(3, "(1, 3650, 64, 128)", date(1995, 1, 1), date(2000, 12, 31)),
		}
		dp, err := schema.NewDataPackage("Maurer", "all Maurer", cat, fields)
		require.NoError(t, err)
		assert.Equal(t, int64(3), dp.CategoryID)
		assert.Equal(t, date(1971, 1, 1), dp.TimeStart, "min of starts")
		assert.Equal(t, date(2000, 12, 31), dp.TimeStop, "max of stops")
		require.Len(t, dp.Members, 3)
		for i, m := range dp.Members {
			assert.Equal(t, i, m.Position)
			assert.Equal(t, fields[i].ID, m.FieldID)
		}
	})

	t.Run("different shape", func(t *testing.T) {
		fields := []schema.Field{
			field(1, "(1, 3650, 64, 128)", date(1980, 1, 1), date(1990, 1, 1)),
			field(2, "(1, 365, 64, 128)", date(1980, 1, 1), date(1990, 1, 1)),
		}
		dp, err := schema.NewDataPackage("Mixed", "", cat, fields)
		assert.Nil(t, dp)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "error should be *gn.Error")
		assert.Equal(t, errcode.PackageConsistencyError, gnErr.Code)
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := schema.NewDataPackage("Empty", "", cat, nil)
		require.Error(t, err)
		assert.Equal(t, errcode.PackageConsistencyError, errcode.Code(err))
	})
}

func TestPackageFieldsOrder(t *testing.T) {
	dp := schema.DataPackage{
		Members: []schema.PackageField{
			{Position: 2, Field: schema.Field{Name: "c"}},
			{Position: 0, Field: schema.Field{Name: "a"}},
			{Position: 1, Field: schema.Field{Name: "b"}},
		},
	}
	var names []string
	for _, f := range dp.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, 2, dp.Members[0].Position, "members are not reordered")
}

func TestRequestDataset(t *testing.T) {
	f := schema.Field{
		Name: "tasmin",
		Container: schema.Container{
			TimeUnits:    "days since 1940-01-01 00:00:00",
			TimeCalendar: "standard",
			URIs: []schema.Uri{
				{Value: "/data/tasmin_1972.nc", Position: 1},
				{Value: "/data/tasmin_1971.nc", Position: 0},
			},
		},
	}
	rd := f.RequestDataset()
	assert.Equal(t, []string{"/data/tasmin_1971.nc", "/data/tasmin_1972.nc"},
		rd.URI)
	assert.Equal(t, "tasmin", rd.Variable)
	assert.Equal(t, "tasmin", rd.Alias)
	assert.Equal(t, "days since 1940-01-01 00:00:00", rd.TUnits)
	assert.Equal(t, "standard", rd.TCalendar)
}

func TestToMap(t *testing.T) {
	f := schema.Field{
		ID:              1,
		ContainerID:     1,
		CleanUnitsID:    1,
		CleanVariableID: 1,
		Name:            "tas",
		Type:            schema.FieldTypeVariable,
		StandardName:    schema.NullString("air_temperature", true),
		LongName:        schema.NullString("Near-Surface Air Temperature", true),
		Units:           schema.NullString("K", true),
	}
	assert.Equal(t, map[string]any{
		"id":                int64(1),
		"container_id":      int64(1),
		"clean_units_id":    int64(1),
		"clean_variable_id": int64(1),
		"name":              "tas",
		"type":              "variable",
		"standard_name":     "air_temperature",
		"long_name":         "Near-Surface Air Temperature",
		"units":             "K",
		"description":       nil,
	}, f.ToMap())

	c := schema.Container{
		ID:                 1,
		DatasetID:          1,
		TimeStart:          date(2001, 1, 1),
		TimeStop:           date(2011, 1, 1),
		TimeResolutionDays: 1.0,
		TimeFrequency:      "day",
		TimeUnits:          "days since 1850-1-1",
		TimeCalendar:       "365_day",
		SpatialAbstraction: "polygon",
		SpatialResolution:  "2.8125",
		FieldShape:         "(1, 3650, 1, 64, 128)",
		Description:        sql.NullString{},
	}
	m := c.ToMap()
	assert.Equal(t, "2001-01-01T00:00:00Z", m["time_start"])
	assert.Equal(t, "2011-01-01T00:00:00Z", m["time_stop"])
	assert.Equal(t, "365_day", m["time_calendar"])
	assert.Nil(t, m["description"])
	assert.Len(t, m, 14)
}

func TestTableNames(t *testing.T) {
	names := schema.TableNames()
	assert.Len(t, names, len(schema.AllModels()))
	assert.Equal(t, "assoc_dp_rv", names[0])
	assert.Equal(t, "category", names[len(names)-1])
}
