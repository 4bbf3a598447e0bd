package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	t := modelType(model)

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// index creates a CREATE INDEX statement named after the table and
// columns.
func index(table string, cols ...string) string {
	name := "idx_" + strings.ToLower(table) + "_" +
		strings.ToLower(strings.Join(cols, "_"))
	return fmt.Sprintf("CREATE INDEX %s ON %s(%s);",
		name, table, strings.Join(cols, ", "))
}

func modelType(model any) reflect.Type {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Dataset DDL methods
func (d Dataset) TableDDL() string {
	return generateDDL(d, d.TableName())
}

func (d Dataset) IndexDDL() []string {
	return []string{index(d.TableName(), "DataSetCode")}
}

func (d Dataset) TableName() string {
	return "Datasets"
}

// SamplingFeature DDL methods
func (sf SamplingFeature) TableDDL() string {
	return generateDDL(sf, sf.TableName())
}

func (sf SamplingFeature) IndexDDL() []string {
	return []string{index(sf.TableName(), "SamplingFeatureCode")}
}

func (sf SamplingFeature) TableName() string {
	return "SamplingFeatures"
}

// SpatialReference DDL methods
func (sr SpatialReference) TableDDL() string {
	return generateDDL(sr, sr.TableName())
}

func (sr SpatialReference) IndexDDL() []string {
	return []string{}
}

func (sr SpatialReference) TableName() string {
	return "SpatialReferences"
}

// Site DDL methods
func (s Site) TableDDL() string {
	return generateDDL(s, s.TableName())
}

func (s Site) IndexDDL() []string {
	return []string{}
}

func (s Site) TableName() string {
	return "Sites"
}

// Method DDL methods
func (m Method) TableDDL() string {
	return generateDDL(m, m.TableName())
}

func (m Method) IndexDDL() []string {
	return []string{index(m.TableName(), "MethodName")}
}

func (m Method) TableName() string {
	return "Methods"
}

// Variable DDL methods
func (v Variable) TableDDL() string {
	return generateDDL(v, v.TableName())
}

func (v Variable) IndexDDL() []string {
	return []string{index(v.TableName(), "VariableCode")}
}

func (v Variable) TableName() string {
	return "Variables"
}

// Units DDL methods
func (u Units) TableDDL() string {
	return generateDDL(u, u.TableName())
}

func (u Units) IndexDDL() []string {
	return []string{index(u.TableName(), "UnitsName")}
}

func (u Units) TableName() string {
	return "Units"
}

// ProcessingLevel DDL methods
func (pl ProcessingLevel) TableDDL() string {
	return generateDDL(pl, pl.TableName())
}

func (pl ProcessingLevel) IndexDDL() []string {
	return []string{index(pl.TableName(), "ProcessingLevelCode")}
}

func (pl ProcessingLevel) TableName() string {
	return "ProcessingLevels"
}

// Person DDL methods
func (p Person) TableDDL() string {
	return generateDDL(p, p.TableName())
}

func (p Person) IndexDDL() []string {
	return []string{
		index(p.TableName(), "PersonFirstName", "PersonLastName"),
	}
}

func (p Person) TableName() string {
	return "People"
}

// Organization DDL methods
func (o Organization) TableDDL() string {
	return generateDDL(o, o.TableName())
}

func (o Organization) IndexDDL() []string {
	return []string{index(o.TableName(), "OrganizationName")}
}

func (o Organization) TableName() string {
	return "Organizations"
}

// Affiliation DDL methods
func (a Affiliation) TableDDL() string {
	return generateDDL(a, a.TableName())
}

func (a Affiliation) IndexDDL() []string {
	return []string{index(a.TableName(), "PersonID", "OrganizationID")}
}

func (a Affiliation) TableName() string {
	return "Affiliations"
}

// Action DDL methods
func (a Action) TableDDL() string {
	return generateDDL(a, a.TableName())
}

func (a Action) IndexDDL() []string {
	return []string{}
}

func (a Action) TableName() string {
	return "Actions"
}

// ActionBy DDL methods
func (ab ActionBy) TableDDL() string {
	return generateDDL(ab, ab.TableName())
}

func (ab ActionBy) IndexDDL() []string {
	return []string{}
}

func (ab ActionBy) TableName() string {
	return "ActionBy"
}

// FeatureAction DDL methods
func (fa FeatureAction) TableDDL() string {
	return generateDDL(fa, fa.TableName())
}

func (fa FeatureAction) IndexDDL() []string {
	return []string{}
}

func (fa FeatureAction) TableName() string {
	return "FeatureActions"
}

// Result DDL methods
func (r Result) TableDDL() string {
	return generateDDL(r, r.TableName())
}

func (r Result) IndexDDL() []string {
	return []string{}
}

func (r Result) TableName() string {
	return "Results"
}

// TimeSeriesResult DDL methods
func (tr TimeSeriesResult) TableDDL() string {
	return generateDDL(tr, tr.TableName())
}

func (tr TimeSeriesResult) IndexDDL() []string {
	return []string{}
}

func (tr TimeSeriesResult) TableName() string {
	return "TimeSeriesResults"
}

// TimeSeriesResultValue DDL methods
func (rv TimeSeriesResultValue) TableDDL() string {
	return generateDDL(rv, rv.TableName())
}

func (rv TimeSeriesResultValue) IndexDDL() []string {
	return []string{index(rv.TableName(), "ResultID")}
}

func (rv TimeSeriesResultValue) TableName() string {
	return "TimeSeriesResultValues"
}

// DataSetsResult DDL methods
func (dr DataSetsResult) TableDDL() string {
	return generateDDL(dr, dr.TableName())
}

func (dr DataSetsResult) IndexDDL() []string {
	return []string{}
}

func (dr DataSetsResult) TableName() string {
	return "DataSetsResults"
}
