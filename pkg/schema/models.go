// Package schema provides ODM2 models for the SQLite resource file.
// Models cover the subset of ODM2 that a time series resource needs.
// Column names follow ODM2 naming, so the file opens in ODM2 tools.
//
// Numeric ODM2 columns are declared with numeric affinity but the models
// keep them as strings. WaterML values arrive as text and placeholders
// such as "Unknown" are stored where the source has no number.
package schema

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the ODM2 table name for this model.
	TableName() string
}

// Dataset groups results of a resource.
type Dataset struct {
	DataSetID       int64  `db:"DataSetID" ddl:"INTEGER PRIMARY KEY"`
	DataSetUUID     string `db:"DataSetUUID" ddl:"VARCHAR(36) NOT NULL"`
	DataSetTypeCV   string `db:"DataSetTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	DataSetCode     string `db:"DataSetCode" ddl:"VARCHAR(50) NOT NULL"`
	DataSetTitle    string `db:"DataSetTitle" ddl:"VARCHAR(255) NOT NULL"`
	DataSetAbstract string `db:"DataSetAbstract" ddl:"VARCHAR(5000) NOT NULL"`
}

// SamplingFeature is a place where observations were made.
type SamplingFeature struct {
	SamplingFeatureID          int64  `db:"SamplingFeatureID" ddl:"INTEGER PRIMARY KEY"`
	SamplingFeatureUUID        string `db:"SamplingFeatureUUID" ddl:"VARCHAR(36) NOT NULL"`
	SamplingFeatureTypeCV      string `db:"SamplingFeatureTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	SamplingFeatureCode        string `db:"SamplingFeatureCode" ddl:"VARCHAR(50) NOT NULL"`
	SamplingFeatureName        string `db:"SamplingFeatureName" ddl:"VARCHAR(255)"`
	SamplingFeatureDescription string `db:"SamplingFeatureDescription" ddl:"VARCHAR(5000)"`
	SamplingFeatureGeotypeCV   string `db:"SamplingFeatureGeotypeCV" ddl:"VARCHAR(255)"`
	FeatureGeometry            string `db:"FeatureGeometry" ddl:"GEOMETRY"`
	FeatureGeometryWKT         string `db:"FeatureGeometryWKT" ddl:"VARCHAR(8000)"`
	ElevationM                 string `db:"Elevation_m" ddl:"DOUBLE"`
	ElevationDatumCV           string `db:"ElevationDatumCV" ddl:"VARCHAR(255)"`
}

// SpatialReference describes a coordinate reference system.
type SpatialReference struct {
	SpatialReferenceID int64  `db:"SpatialReferenceID" ddl:"INTEGER PRIMARY KEY"`
	SRSCode            string `db:"SRSCode" ddl:"VARCHAR(50)"`
	SRSName            string `db:"SRSName" ddl:"VARCHAR(255) NOT NULL"`
	SRSDescription     string `db:"SRSDescription" ddl:"VARCHAR(5000)"`
	SRSLink            string `db:"SRSLink" ddl:"VARCHAR(255)"`
}

// Site extends a sampling feature with its location.
type Site struct {
	SamplingFeatureID  int64  `db:"SamplingFeatureID" ddl:"INTEGER PRIMARY KEY REFERENCES SamplingFeatures (SamplingFeatureID)"`
	SiteTypeCV         string `db:"SiteTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	Latitude           string `db:"Latitude" ddl:"DOUBLE NOT NULL"`
	Longitude          string `db:"Longitude" ddl:"DOUBLE NOT NULL"`
	SpatialReferenceID int64  `db:"SpatialReferenceID" ddl:"INTEGER NOT NULL REFERENCES SpatialReferences (SpatialReferenceID)"`
}

// Method describes how observations were made.
type Method struct {
	MethodID          int64  `db:"MethodID" ddl:"INTEGER PRIMARY KEY"`
	MethodTypeCV      string `db:"MethodTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	MethodCode        string `db:"MethodCode" ddl:"VARCHAR(50) NOT NULL"`
	MethodName        string `db:"MethodName" ddl:"VARCHAR(255) NOT NULL"`
	MethodDescription string `db:"MethodDescription" ddl:"VARCHAR(5000)"`
	MethodLink        string `db:"MethodLink" ddl:"VARCHAR(255)"`
}

// Variable is an observed property.
type Variable struct {
	VariableID         int64  `db:"VariableID" ddl:"INTEGER PRIMARY KEY"`
	VariableTypeCV     string `db:"VariableTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	VariableCode       string `db:"VariableCode" ddl:"VARCHAR(50) NOT NULL"`
	VariableNameCV     string `db:"VariableNameCV" ddl:"VARCHAR(255) NOT NULL"`
	VariableDefinition string `db:"VariableDefinition" ddl:"VARCHAR(5000)"`
	SpeciationCV       string `db:"SpeciationCV" ddl:"VARCHAR(255)"`
	NoDataValue        string `db:"NoDataValue" ddl:"DOUBLE NOT NULL"`
}

// Units is a unit of measure. UnitsID keeps the provider's unit code
// when it is an integer.
type Units struct {
	UnitsID           int64  `db:"UnitsID" ddl:"INTEGER PRIMARY KEY"`
	UnitsTypeCV       string `db:"UnitsTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	UnitsAbbreviation string `db:"UnitsAbbreviation" ddl:"VARCHAR(255) NOT NULL"`
	UnitsName         string `db:"UnitsName" ddl:"VARCHAR(255) NOT NULL"`
	UnitsLink         string `db:"UnitsLink" ddl:"VARCHAR(255)"`
}

// ProcessingLevel is the quality control level of values.
type ProcessingLevel struct {
	ProcessingLevelID   int64  `db:"ProcessingLevelID" ddl:"INTEGER PRIMARY KEY"`
	ProcessingLevelCode string `db:"ProcessingLevelCode" ddl:"VARCHAR(50) NOT NULL"`
	Definition          string `db:"Definition" ddl:"VARCHAR(5000)"`
	Explanation         string `db:"Explanation" ddl:"VARCHAR(5000)"`
}

// Person is a contact of a data provider.
type Person struct {
	PersonID        int64  `db:"PersonID" ddl:"INTEGER PRIMARY KEY"`
	PersonFirstName string `db:"PersonFirstName" ddl:"VARCHAR(255) NOT NULL"`
	PersonLastName  string `db:"PersonLastName" ddl:"VARCHAR(255) NOT NULL"`
}

// Organization is a data provider.
type Organization struct {
	OrganizationID          int64  `db:"OrganizationID" ddl:"INTEGER PRIMARY KEY"`
	OrganizationTypeCV      string `db:"OrganizationTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	OrganizationCode        string `db:"OrganizationCode" ddl:"VARCHAR(50) NOT NULL"`
	OrganizationName        string `db:"OrganizationName" ddl:"VARCHAR(255) NOT NULL"`
	OrganizationDescription string `db:"OrganizationDescription" ddl:"VARCHAR(5000)"`
	OrganizationLink        string `db:"OrganizationLink" ddl:"VARCHAR(255)"`
}

// Affiliation links a person to an organization.
type Affiliation struct {
	AffiliationID                int64  `db:"AffiliationID" ddl:"INTEGER PRIMARY KEY"`
	PersonID                     int64  `db:"PersonID" ddl:"INTEGER NOT NULL REFERENCES People (PersonID)"`
	OrganizationID               int64  `db:"OrganizationID" ddl:"INTEGER REFERENCES Organizations (OrganizationID)"`
	IsPrimaryOrganizationContact bool   `db:"IsPrimaryOrganizationContact" ddl:"BIT"`
	AffiliationStartDate         string `db:"AffiliationStartDate" ddl:"DATE NOT NULL"`
	PrimaryPhone                 string `db:"PrimaryPhone" ddl:"VARCHAR(50)"`
	PrimaryEmail                 string `db:"PrimaryEmail" ddl:"VARCHAR(255) NOT NULL"`
}

// Action is the observation that produced a result.
type Action struct {
	ActionID               int64  `db:"ActionID" ddl:"INTEGER PRIMARY KEY"`
	ActionTypeCV           string `db:"ActionTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	MethodID               int64  `db:"MethodID" ddl:"INTEGER NOT NULL REFERENCES Methods (MethodID)"`
	BeginDateTime          string `db:"BeginDateTime" ddl:"DATETIME NOT NULL"`
	BeginDateTimeUTCOffset string `db:"BeginDateTimeUTCOffset" ddl:"INTEGER NOT NULL"`
	EndDateTime            string `db:"EndDateTime" ddl:"DATETIME"`
	EndDateTimeUTCOffset   string `db:"EndDateTimeUTCOffset" ddl:"INTEGER"`
	ActionDescription      string `db:"ActionDescription" ddl:"VARCHAR(5000)"`
}

// ActionBy links an action to the affiliation responsible for it.
type ActionBy struct {
	BridgeID        int64  `db:"BridgeID" ddl:"INTEGER PRIMARY KEY"`
	ActionID        int64  `db:"ActionID" ddl:"INTEGER NOT NULL REFERENCES Actions (ActionID)"`
	AffiliationID   int64  `db:"AffiliationID" ddl:"INTEGER NOT NULL REFERENCES Affiliations (AffiliationID)"`
	IsActionLead    bool   `db:"IsActionLead" ddl:"BIT NOT NULL"`
	RoleDescription string `db:"RoleDescription" ddl:"VARCHAR(5000)"`
}

// FeatureAction links a sampling feature to an action.
type FeatureAction struct {
	FeatureActionID   int64 `db:"FeatureActionID" ddl:"INTEGER PRIMARY KEY"`
	SamplingFeatureID int64 `db:"SamplingFeatureID" ddl:"INTEGER NOT NULL REFERENCES SamplingFeatures (SamplingFeatureID)"`
	ActionID          int64 `db:"ActionID" ddl:"INTEGER NOT NULL REFERENCES Actions (ActionID)"`
}

// Result is one time series.
type Result struct {
	ResultID                int64  `db:"ResultID" ddl:"INTEGER PRIMARY KEY"`
	ResultUUID              string `db:"ResultUUID" ddl:"VARCHAR(36) NOT NULL"`
	FeatureActionID         int64  `db:"FeatureActionID" ddl:"INTEGER NOT NULL REFERENCES FeatureActions (FeatureActionID)"`
	ResultTypeCV            string `db:"ResultTypeCV" ddl:"VARCHAR(255) NOT NULL"`
	VariableID              int64  `db:"VariableID" ddl:"INTEGER NOT NULL REFERENCES Variables (VariableID)"`
	UnitsID                 int64  `db:"UnitsID" ddl:"INTEGER NOT NULL REFERENCES Units (UnitsID)"`
	ProcessingLevelID       int64  `db:"ProcessingLevelID" ddl:"INTEGER NOT NULL REFERENCES ProcessingLevels (ProcessingLevelID)"`
	ResultDateTime          string `db:"ResultDateTime" ddl:"DATETIME"`
	ResultDateTimeUTCOffset int    `db:"ResultDateTimeUTCOffset" ddl:"INTEGER"`
	StatusCV                string `db:"StatusCV" ddl:"VARCHAR(255)"`
	SampledMediumCV         string `db:"SampledMediumCV" ddl:"VARCHAR(255) NOT NULL"`
	ValueCount              int    `db:"ValueCount" ddl:"INTEGER NOT NULL"`
}

// TimeSeriesResult extends a result with time spacing.
type TimeSeriesResult struct {
	ResultID                   int64  `db:"ResultID" ddl:"INTEGER PRIMARY KEY REFERENCES Results (ResultID)"`
	IntendedTimeSpacing        int    `db:"IntendedTimeSpacing" ddl:"DOUBLE"`
	IntendedTimeSpacingUnitsID int64  `db:"IntendedTimeSpacingUnitsID" ddl:"INTEGER REFERENCES Units (UnitsID)"`
	AggregationStatisticCV     string `db:"AggregationStatisticCV" ddl:"VARCHAR(255) NOT NULL"`
}

// TimeSeriesResultValue is one observation of a time series.
type TimeSeriesResultValue struct {
	ValueID                        int64  `db:"ValueID" ddl:"INTEGER PRIMARY KEY"`
	ResultID                       int64  `db:"ResultID" ddl:"INTEGER NOT NULL REFERENCES TimeSeriesResults (ResultID)"`
	DataValue                      string `db:"DataValue" ddl:"FLOAT NOT NULL"`
	ValueDateTime                  string `db:"ValueDateTime" ddl:"DATETIME NOT NULL"`
	ValueDateTimeUTCOffset         int    `db:"ValueDateTimeUTCOffset" ddl:"INTEGER NOT NULL"`
	CensorCodeCV                   string `db:"CensorCodeCV" ddl:"VARCHAR(255) NOT NULL"`
	QualityCodeCV                  string `db:"QualityCodeCV" ddl:"VARCHAR(255) NOT NULL"`
	TimeAggregationInterval        string `db:"TimeAggregationInterval" ddl:"DOUBLE NOT NULL"`
	TimeAggregationIntervalUnitsID string `db:"TimeAggregationIntervalUnitsID" ddl:"INTEGER NOT NULL"`
}

// DataSetsResult links a dataset to a result.
type DataSetsResult struct {
	BridgeID  int64 `db:"BridgeID" ddl:"INTEGER PRIMARY KEY"`
	DataSetID int64 `db:"DataSetID" ddl:"INTEGER NOT NULL REFERENCES Datasets (DataSetID)"`
	ResultID  int64 `db:"ResultID" ddl:"INTEGER NOT NULL REFERENCES Results (ResultID)"`
}

// AllModels returns models in the order their tables are created.
func AllModels() []DDLGenerator {
	return []DDLGenerator{
		Dataset{},
		SamplingFeature{},
		SpatialReference{},
		Site{},
		Method{},
		Variable{},
		Units{},
		ProcessingLevel{},
		Person{},
		Organization{},
		Affiliation{},
		Action{},
		ActionBy{},
		FeatureAction{},
		Result{},
		TimeSeriesResult{},
		TimeSeriesResultValue{},
		DataSetsResult{},
	}
}
