package ioodm2_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/internal/ioodm2"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/errcode"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/gnames/hsrc/pkg/waterml"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtures = filepath.Join("..", "..", "pkg", "waterml", "testdata")

func load(t *testing.T, name string) *waterml.Document {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(fixtures, name))
	require.NoError(t, err)
	doc, err := waterml.ParseBytes(b)
	require.NoError(t, err)
	return doc
}

func input(
	t *testing.T,
	idx int,
	file, returnType, code string,
) resource.SeriesInput {
	return resource.SeriesInput{
		Index: idx,
		Ref: refts.Series{
			RequestInfo: refts.RequestInfo{ReturnType: returnType},
			Variable:    refts.Variable{VariableCode: code},
		},
		Doc:      load(t, file),
		Title:    "Logan River",
		Abstract: "Daily discharge",
	}
}

func newMapper(
	t *testing.T,
	cfg config.ODM2Config,
) (resource.Mapper, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+resource.ODM2Ext)
	clock := clockwork.NewFakeClockAt(
		time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	)
	var n int
	uuid := func() string {
		n++
		return "uuid-" + string(rune('a'+n-1))
	}
	m, err := ioodm2.Create(context.Background(), path, cfg,
		ioodm2.OptClock(clock), ioodm2.OptUUID(uuid))
	require.NoError(t, err)
	return m, path
}

func reopen(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var res int
	err := db.QueryRow("SELECT count(*) FROM " + table).Scan(&res)
	require.NoError(t, err)
	return res
}

func TestCreate(t *testing.T) {
	m, path := newMapper(t, config.ODM2Config{})
	require.NoError(t, m.Close())
	// second close is a no-op
	require.NoError(t, m.Close())

	db := reopen(t, path)
	tables := []string{
		"Datasets", "SamplingFeatures", "SpatialReferences", "Sites",
		"Methods", "Variables", "Units", "ProcessingLevels", "People",
		"Organizations", "Affiliations", "Actions", "ActionBy",
		"FeatureActions", "Results", "TimeSeriesResults",
		"TimeSeriesResultValues", "DataSetsResults",
	}
	for _, v := range tables {
		assert.Equal(t, 0, count(t, db, v), v)
	}
}

func TestCreateReplacesFile(t *testing.T) {
	ctx := context.Background()
	m, path := newMapper(t, config.ODM2Config{})
	err := m.MapSeries(ctx, input(t, 0, "wml10.xml", waterml.WaterML10, "A"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	m, err = ioodm2.Create(ctx, path, config.ODM2Config{})
	require.NoError(t, err)
	require.NoError(t, m.Close())

	db := reopen(t, path)
	assert.Equal(t, 0, count(t, db, "Datasets"))
}

func TestMapSeries(t *testing.T) {
	ctx := context.Background()
	m, path := newMapper(t, config.ODM2Config{})

	err := m.MapSeries(ctx, input(t, 0, "wml10.xml", waterml.WaterML10, "A"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	db := reopen(t, path)

	tests := []struct {
		table string
		exp   int
	}{
		{"Datasets", 1},
		{"SamplingFeatures", 1},
		{"SpatialReferences", 1},
		{"Sites", 1},
		{"Methods", 1},
		{"Variables", 1},
		// provider units and minute units for time spacing
		{"Units", 2},
		{"ProcessingLevels", 1},
		{"People", 1},
		{"Organizations", 1},
		{"Affiliations", 1},
		{"Actions", 1},
		{"ActionBy", 1},
		{"FeatureActions", 1},
		{"Results", 1},
		{"TimeSeriesResults", 1},
		// the last of three values is not written
		{"TimeSeriesResultValues", 2},
		{"DataSetsResults", 1},
	}
	for _, v := range tests {
		assert.Equal(t, v.exp, count(t, db, v.table), v.table)
	}

	var uuid, dsType, code, title string
	err = db.QueryRow(`SELECT DataSetUUID, DataSetTypeCV, DataSetCode,
    DataSetTitle FROM Datasets`).Scan(&uuid, &dsType, &code, &title)
	require.NoError(t, err)
	assert.Equal(t, "uuid-a", uuid)
	assert.Equal(t, "Multi-time series", dsType)
	assert.Equal(t, "A", code)
	assert.Equal(t, "Logan River", title)

	var wkt, sfCode string
	err = db.QueryRow(`SELECT SamplingFeatureCode, FeatureGeometryWKT
    FROM SamplingFeatures`).Scan(&sfCode, &wkt)
	require.NoError(t, err)
	assert.Equal(t, "10109000", sfCode)
	assert.Equal(t, "POINT (-111.7843889 41.7435422)", wkt)

	var siteType string
	err = db.QueryRow(`SELECT SiteTypeCV FROM Sites`).Scan(&siteType)
	require.NoError(t, err)
	assert.Equal(t, "Stream", siteType)

	var unitsID int64
	err = db.QueryRow(`SELECT UnitsID FROM Units
    WHERE UnitsName = 'cubic feet per second'`).Scan(&unitsID)
	require.NoError(t, err)
	assert.Equal(t, int64(35), unitsID)

	var first, last string
	err = db.QueryRow(`SELECT PersonFirstName, PersonLastName
    FROM People`).Scan(&first, &last)
	require.NoError(t, err)
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Hydrologist", last)

	var beginDate, endDate string
	// DATETIME columns scan as time.Time, CAST keeps the stored text
	err = db.QueryRow(`SELECT CAST(BeginDateTime AS TEXT),
    CAST(EndDateTime AS TEXT) FROM Actions`).Scan(&beginDate, &endDate)
	require.NoError(t, err)
	assert.Equal(t, "2015-01-01T00:00:00", beginDate)
	assert.Equal(t, "2015-01-03T00:00:00", endDate)

	var resDate, medium string
	var offset, valueCount int
	err = db.QueryRow(`SELECT CAST(ResultDateTime AS TEXT), ResultDateTimeUTCOffset,
    SampledMediumCV, ValueCount FROM Results`).
		Scan(&resDate, &offset, &medium, &valueCount)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 12:30:00", resDate)
	assert.Equal(t, 0, offset)
	assert.Equal(t, "Surface Water", medium)
	assert.Equal(t, 3, valueCount)

	var spacing float64
	var spacingUnits int64
	err = db.QueryRow(`SELECT IntendedTimeSpacing, IntendedTimeSpacingUnitsID
    FROM TimeSeriesResults`).Scan(&spacing, &spacingUnits)
	require.NoError(t, err)
	assert.Equal(t, 30.0, spacing)
	assert.Equal(t, int64(102), spacingUnits)

	var dsID int64
	err = db.QueryRow(`SELECT DataSetID FROM DataSetsResults`).Scan(&dsID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dsID)
}

func TestMapSeriesReuse(t *testing.T) {
	ctx := context.Background()
	m, path := newMapper(t, config.ODM2Config{})

	err := m.MapSeries(ctx, input(t, 0, "wml10.xml", waterml.WaterML10, "A"))
	require.NoError(t, err)
	err = m.MapSeries(ctx, input(t, 1, "wml10.xml", waterml.WaterML10, "B"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	db := reopen(t, path)
	tests := []struct {
		table string
		exp   int
	}{
		{"Datasets", 2},
		{"SamplingFeatures", 1},
		{"SpatialReferences", 1},
		{"Sites", 1},
		{"Methods", 1},
		{"Variables", 1},
		{"Units", 2},
		{"ProcessingLevels", 1},
		{"People", 1},
		{"Organizations", 1},
		{"Affiliations", 1},
		{"Actions", 2},
		{"Results", 2},
		{"TimeSeriesResultValues", 4},
		{"DataSetsResults", 2},
	}
	for _, v := range tests {
		assert.Equal(t, v.exp, count(t, db, v.table), v.table)
	}
}

func TestMapSeriesDuplicate(t *testing.T) {
	ctx := context.Background()
	m, path := newMapper(t, config.ODM2Config{})

	err := m.MapSeries(ctx, input(t, 0, "wml10.xml", waterml.WaterML10, "X"))
	require.NoError(t, err)

	err = m.MapSeries(ctx, input(t, 1, "wml11_soap.xml", waterml.WaterML11, "X"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DuplicateDatasetError, gnErr.Code)
	assert.Equal(t, "X", gnErr.Vars[0])
	require.NoError(t, m.Close())

	// nothing from the failed series is left
	db := reopen(t, path)
	assert.Equal(t, 1, count(t, db, "Datasets"))
	assert.Equal(t, 1, count(t, db, "SamplingFeatures"))
	assert.Equal(t, 1, count(t, db, "Results"))
}

func TestMapSeriesOptions(t *testing.T) {
	ctx := context.Background()
	cfg := config.ODM2Config{KeepLastValue: true, LinkInsertedDataset: true}
	m, path := newMapper(t, cfg)

	err := m.MapSeries(ctx, input(t, 0, "wml10.xml", waterml.WaterML10, "A"))
	require.NoError(t, err)
	err = m.MapSeries(ctx, input(t, 1, "wml11_soap.xml", waterml.WaterML11, "B"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	db := reopen(t, path)
	assert.Equal(t, 7, count(t, db, "TimeSeriesResultValues"))

	rows, err := db.Query(`SELECT d.DataSetCode, r.DataSetID
    FROM DataSetsResults r JOIN Datasets d ON d.DataSetID = r.DataSetID
    ORDER BY r.BridgeID`)
	require.NoError(t, err)
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		var id int64
		require.NoError(t, rows.Scan(&code, &id))
		codes = append(codes, code)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"A", "B"}, codes)
}

func TestMapSeriesWaterML11(t *testing.T) {
	ctx := context.Background()
	m, path := newMapper(t, config.ODM2Config{})

	err := m.MapSeries(ctx, input(t, 0, "wml11_soap.xml", waterml.WaterML11, "A"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	db := reopen(t, path)
	// provider units are minutes, so time spacing reuses them
	assert.Equal(t, 1, count(t, db, "Units"))
	assert.Equal(t, 3, count(t, db, "TimeSeriesResultValues"))

	var spacingUnits int64
	err = db.QueryRow(`SELECT IntendedTimeSpacingUnitsID
    FROM TimeSeriesResults`).Scan(&spacingUnits)
	require.NoError(t, err)
	assert.Equal(t, int64(102), spacingUnits)

	var orgCode, orgName string
	err = db.QueryRow(`SELECT OrganizationCode, OrganizationName
    FROM Organizations`).Scan(&orgCode, &orgName)
	require.NoError(t, err)
	assert.Equal(t, "Utah State University Utah Water Research Laboratory",
		orgName)
	assert.Equal(t, "Utah State University Utah Water Researc", orgCode)

	var first, last string
	err = db.QueryRow(`SELECT PersonFirstName, PersonLastName
    FROM People`).Scan(&first, &last)
	require.NoError(t, err)
	assert.Equal(t, "Amber", first)
	assert.Equal(t, "Jones", last)

	var interval, intervalUnits string
	err = db.QueryRow(`SELECT TimeAggregationInterval,
    TimeAggregationIntervalUnitsID FROM TimeSeriesResultValues
    LIMIT 1`).Scan(&interval, &intervalUnits)
	require.NoError(t, err)
	assert.Equal(t, "30", interval)
	assert.Equal(t, "102", intervalUnits)
}

func TestMapSeriesErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported return type", func(t *testing.T) {
		m, _ := newMapper(t, config.ODM2Config{})
		defer m.Close()
		err := m.MapSeries(ctx, input(t, 0, "wml10.xml", "WaterML 2.0", "A"))
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.UnsupportedSchemaVersionError, gnErr.Code)
	})

	t.Run("missing required field", func(t *testing.T) {
		m, path := newMapper(t, config.ODM2Config{})
		doc, err := waterml.ParseBytes([]byte(`<timeSeriesResponse>
<timeSeries><sourceInfo><siteCode>S1</siteCode></sourceInfo>
</timeSeries></timeSeriesResponse>`))
		require.NoError(t, err)
		in := input(t, 0, "wml10.xml", waterml.WaterML10, "A")
		in.Doc = doc
		err = m.MapSeries(ctx, in)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.MissingRequiredFieldError, gnErr.Code)
		require.NoError(t, m.Close())

		db := reopen(t, path)
		assert.Equal(t, 0, count(t, db, "Datasets"))
	})

	t.Run("closed database", func(t *testing.T) {
		m, _ := newMapper(t, config.ODM2Config{})
		require.NoError(t, m.Close())
		err := m.MapSeries(ctx, input(t, 0, "wml10.xml", waterml.WaterML10, "A"))
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.ODM2NotOpenError, gnErr.Code)
	})
}
