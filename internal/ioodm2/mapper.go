package ioodm2

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnuuid"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/gnames/hsrc/pkg/schema"
	"github.com/gnames/hsrc/pkg/waterml"
)

const (
	// timeSpacingUnitsID is the ODM2 id of "minute".
	timeSpacingUnitsID = 102

	// intendedTimeSpacing is written to every time series result.
	intendedTimeSpacing = 30

	// defaultDatasetID is the dataset linked to results unless
	// LinkInsertedDataset is set.
	defaultDatasetID = 1

	orgCodeLen = 40

	dateLayout = "2006-01-02 15:04:05"
)

// MapSeries writes all rows of one series. Rows are written in one
// transaction that is rolled back on any error.
func (o *odm2) MapSeries(ctx context.Context, in resource.SeriesInput) error {
	if o.db == nil {
		return ODM2NotOpenError(o.path)
	}

	desc, err := waterml.Lookup(in.Ref.RequestInfo.ReturnType)
	if err != nil {
		return err
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return MappingFailureError(in.Index, err)
	}
	defer tx.Rollback()

	if err = o.mapSeries(ctx, tx, desc, in); err != nil {
		var gnErr *gn.Error
		if errors.As(err, &gnErr) {
			return err
		}
		return MappingFailureError(in.Index, err)
	}

	if err = tx.Commit(); err != nil {
		return MappingFailureError(in.Index, err)
	}
	return nil
}

func (o *odm2) mapSeries(
	ctx context.Context,
	tx *sql.Tx,
	desc waterml.Descriptor,
	in resource.SeriesInput,
) error {
	dsCode := in.Ref.Variable.VariableCode
	dsID, err := o.insertDataset(ctx, tx, dsCode, in)
	if err != nil {
		return err
	}

	s, err := waterml.Extract(in.Doc, desc, in.Index)
	if err != nil {
		return err
	}

	sfID, err := o.samplingFeature(ctx, tx, s)
	if err != nil {
		return err
	}

	methodID, _, err := resolveOrCreate(ctx, tx,
		[]string{"MethodName"}, []any{s.MethodName},
		func() schema.Method {
			return schema.Method{
				MethodTypeCV:      "Observation",
				MethodCode:        s.MethodCode,
				MethodName:        s.MethodName,
				MethodDescription: s.MethodName,
				MethodLink:        s.MethodLink,
			}
		})
	if err != nil {
		return err
	}

	variableID, _, err := resolveOrCreate(ctx, tx,
		[]string{"VariableCode"}, []any{s.VariableCode},
		func() schema.Variable {
			return schema.Variable{
				VariableTypeCV:     s.VariableType,
				VariableCode:       s.VariableCode,
				VariableNameCV:     s.VariableName,
				VariableDefinition: "None",
				SpeciationCV:       s.Speciation,
				NoDataValue:        s.NoDataValue,
			}
		})
	if err != nil {
		return err
	}

	unitsID, _, err := resolveOrCreate(ctx, tx,
		[]string{"UnitsName"}, []any{s.UnitsName},
		func() schema.Units {
			return schema.Units{
				UnitsID:           unitsCodeID(s.UnitsCode),
				UnitsTypeCV:       s.UnitsType,
				UnitsAbbreviation: s.UnitsAbbreviation,
				UnitsName:         s.UnitsName,
				UnitsLink:         "Unknown",
			}
		})
	if err != nil {
		return err
	}

	levelID, _, err := resolveOrCreate(ctx, tx,
		[]string{"ProcessingLevelCode"}, []any{s.ProcessingLevelCode},
		func() schema.ProcessingLevel {
			return schema.ProcessingLevel{
				ProcessingLevelCode: s.ProcessingLevelCode,
				Definition:          s.ProcessingLevelDefinition,
				Explanation:         s.ProcessingLevelExplanation,
			}
		})
	if err != nil {
		return err
	}

	affID, err := o.affiliation(ctx, tx, s)
	if err != nil {
		return err
	}

	first, last := s.First(), s.Last()
	actionID, err := insert(ctx, tx, schema.Action{
		ActionTypeCV:           "Observation",
		MethodID:               methodID,
		BeginDateTime:          first.DateTime,
		BeginDateTimeUTCOffset: first.TimeOffset,
		EndDateTime:            last.DateTime,
		EndDateTimeUTCOffset:   last.TimeOffset,
		ActionDescription: "An observation action that generated " +
			"a time series result.",
	})
	if err != nil {
		return err
	}

	_, err = insert(ctx, tx, schema.ActionBy{
		ActionID:        actionID,
		AffiliationID:   affID,
		IsActionLead:    true,
		RoleDescription: "Responsible party",
	})
	if err != nil {
		return err
	}

	faID, err := insert(ctx, tx, schema.FeatureAction{
		SamplingFeatureID: sfID,
		ActionID:          actionID,
	})
	if err != nil {
		return err
	}

	now := o.clock.Now()
	_, offset := now.Zone()
	resultID, err := insert(ctx, tx, schema.Result{
		ResultUUID:              o.uuid(),
		FeatureActionID:         faID,
		ResultTypeCV:            "Time series coverage",
		VariableID:              variableID,
		UnitsID:                 unitsID,
		ProcessingLevelID:       levelID,
		ResultDateTime:          now.Format(dateLayout),
		ResultDateTimeUTCOffset: offset / 3600,
		StatusCV:                "Unknown",
		SampledMediumCV:         s.SampledMedium,
		ValueCount:              len(s.Values),
	})
	if err != nil {
		return err
	}

	spacingUnitsID := o.timeSpacingUnits(ctx, tx)

	_, err = insert(ctx, tx, schema.TimeSeriesResult{
		ResultID:                   resultID,
		IntendedTimeSpacing:        intendedTimeSpacing,
		IntendedTimeSpacingUnitsID: spacingUnitsID,
		AggregationStatisticCV:     s.AggregationStatistic,
	})
	if err != nil {
		return err
	}

	count, err := o.insertValues(ctx, tx, resultID, s)
	if err != nil {
		return err
	}

	linkID := int64(defaultDatasetID)
	if o.cfg.LinkInsertedDataset {
		linkID = dsID
	}
	_, err = insert(ctx, tx, schema.DataSetsResult{
		DataSetID: linkID,
		ResultID:  resultID,
	})
	if err != nil {
		return err
	}

	slog.Info("Mapped series",
		"index", in.Index,
		"site", s.SiteCode,
		"variable", s.VariableCode,
		"values", count,
	)
	return nil
}

// insertDataset fails if the dataset code is already taken.
func (o *odm2) insertDataset(
	ctx context.Context,
	tx *sql.Tx,
	code string,
	in resource.SeriesInput,
) (int64, error) {
	id, created, err := resolveOrCreate(ctx, tx,
		[]string{"DataSetCode"}, []any{code},
		func() schema.Dataset {
			return schema.Dataset{
				DataSetUUID:     o.uuid(),
				DataSetTypeCV:   "Multi-time series",
				DataSetCode:     code,
				DataSetTitle:    in.Title,
				DataSetAbstract: in.Abstract,
			}
		})
	if err != nil {
		return 0, err
	}
	if !created {
		return 0, DuplicateDatasetError(code, id)
	}
	return id, nil
}

// samplingFeature also creates the spatial reference and site of a new
// sampling feature.
func (o *odm2) samplingFeature(
	ctx context.Context,
	tx *sql.Tx,
	s *waterml.Series,
) (int64, error) {
	sfID, created, err := resolveOrCreate(ctx, tx,
		[]string{"SamplingFeatureCode"}, []any{s.SiteCode},
		func() schema.SamplingFeature {
			return schema.SamplingFeature{
				SamplingFeatureUUID:        gnuuid.New(s.SiteCode).String(),
				SamplingFeatureTypeCV:      "Site",
				SamplingFeatureCode:        s.SiteCode,
				SamplingFeatureName:        s.SiteName,
				SamplingFeatureDescription: "None",
				SamplingFeatureGeotypeCV:   "Point",
				FeatureGeometry:            "Unknown",
				FeatureGeometryWKT: fmt.Sprintf("POINT (%s %s)",
					s.Longitude, s.Latitude),
				ElevationM:       s.Elevation,
				ElevationDatumCV: s.VerticalDatum,
			}
		})
	if err != nil || !created {
		return sfID, err
	}

	srID, err := insert(ctx, tx, schema.SpatialReference{
		SRSCode:        "None",
		SRSName:        "Unknown",
		SRSDescription: "The spatial reference is unknown",
		SRSLink:        "None",
	})
	if err != nil {
		return 0, err
	}

	_, err = insert(ctx, tx, schema.Site{
		SamplingFeatureID:  sfID,
		SiteTypeCV:         s.SiteType,
		Latitude:           s.Latitude,
		Longitude:          s.Longitude,
		SpatialReferenceID: srID,
	})
	if err != nil {
		return 0, err
	}
	return sfID, nil
}

// affiliation resolves the contact person, the organization and the
// affiliation between them.
func (o *odm2) affiliation(
	ctx context.Context,
	tx *sql.Tx,
	s *waterml.Series,
) (int64, error) {
	first, last := splitName(s.ContactName)
	personID, _, err := resolveOrCreate(ctx, tx,
		[]string{"PersonFirstName", "PersonLastName"}, []any{first, last},
		func() schema.Person {
			return schema.Person{
				PersonFirstName: first,
				PersonLastName:  last,
			}
		})
	if err != nil {
		return 0, err
	}

	orgID, _, err := resolveOrCreate(ctx, tx,
		[]string{"OrganizationName"}, []any{s.OrganizationName},
		func() schema.Organization {
			return schema.Organization{
				OrganizationTypeCV:      "Unknown",
				OrganizationCode:        truncate(s.OrganizationName, orgCodeLen),
				OrganizationName:        s.OrganizationName,
				OrganizationDescription: s.OrganizationDescription,
				OrganizationLink:        s.OrganizationLink,
			}
		})
	if err != nil {
		return 0, err
	}

	affID, _, err := resolveOrCreate(ctx, tx,
		[]string{"PersonID", "OrganizationID"}, []any{personID, orgID},
		func() schema.Affiliation {
			return schema.Affiliation{
				PersonID:                     personID,
				OrganizationID:               orgID,
				IsPrimaryOrganizationContact: true,
				AffiliationStartDate:         o.clock.Now().Format(dateLayout),
				PrimaryPhone:                 s.Phone,
				PrimaryEmail:                 s.Email,
			}
		})
	return affID, err
}

// timeSpacingUnits tries to add the "minute" unit and falls back to its
// well-known id when the insert fails.
func (o *odm2) timeSpacingUnits(ctx context.Context, tx *sql.Tx) int64 {
	id, err := insert(ctx, tx, schema.Units{
		UnitsID:           timeSpacingUnitsID,
		UnitsTypeCV:       "Time",
		UnitsAbbreviation: "min",
		UnitsName:         "minute",
		UnitsLink:         "Unknown",
	})
	if err != nil {
		slog.Debug("Time spacing units exist", "id", timeSpacingUnitsID)
		return timeSpacingUnitsID
	}
	return id
}

// insertValues writes value rows of a series. Without KeepLastValue the
// last entry is not written.
func (o *odm2) insertValues(
	ctx context.Context,
	tx *sql.Tx,
	resultID int64,
	s *waterml.Series,
) (int, error) {
	vals := s.Values
	if !o.cfg.KeepLastValue && len(vals) > 0 {
		vals = vals[:len(vals)-1]
	}
	if len(vals) == 0 {
		return 0, nil
	}

	q, _ := schema.InsertSQL(schema.TimeSeriesResultValue{})
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, v := range vals {
		_, args := schema.InsertSQL(schema.TimeSeriesResultValue{
			ResultID:                       resultID,
			DataValue:                      v.Data,
			ValueDateTime:                  v.DateTime,
			ValueDateTimeUTCOffset:         0,
			CensorCodeCV:                   v.CensorCode,
			QualityCodeCV:                  "Unknown",
			TimeAggregationInterval:        s.TimeAggregationInterval,
			TimeAggregationIntervalUnitsID: s.TimeAggregationUnitsID,
		})
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return 0, err
		}
	}
	return len(vals), nil
}

// resolveOrCreate returns the id of the row matching the natural key, or
// inserts the row made by build. The boolean is true for a new row.
func resolveOrCreate[T schema.DDLGenerator](
	ctx context.Context,
	tx *sql.Tx,
	keyCols []string,
	keyVals []any,
	build func() T,
) (int64, bool, error) {
	var model T
	q := schema.SelectIDSQL(model, keyCols...)

	var id int64
	err := tx.QueryRowContext(ctx, q, keyVals...).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("lookup in %s: %w", model.TableName(), err)
	}

	id, err = insert(ctx, tx, build())
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func insert(ctx context.Context, tx *sql.Tx, row schema.DDLGenerator) (int64, error) {
	q, args := schema.InsertSQL(row)
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", row.TableName(), err)
	}
	return res.LastInsertId()
}

// unitsCodeID returns an integer unit code, or 0 to let SQLite assign
// the id.
func unitsCodeID(code string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(code), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// splitName takes the first and the last word of a contact name.
// A one-word name is used for both.
func splitName(name string) (string, string) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "Unknown", "Unknown"
	}
	return words[0], words[len(words)-1]
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
