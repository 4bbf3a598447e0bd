package waterml

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
	"github.com/gnames/hsrc/pkg/keypath"
)

const (
	// WaterML10 is the return type tag of WaterML 1.0 documents.
	WaterML10 = "WaterML 1.0"

	// WaterML11 is the return type tag of WaterML 1.1 documents.
	WaterML11 = "WaterML 1.1"
)

// Field tells where an attribute lives in a document.
type Field struct {
	// Paths are tried in order, the first one that resolves wins.
	Paths []keypath.Path

	// Default is returned when no path resolves.
	Default string

	// Required fields return MissingRequiredFieldError instead of
	// the default.
	Required bool
}

// Descriptor collects key-paths of one WaterML version.
// All paths start at the timeSeriesResponse node.
type Descriptor struct {
	ReturnType string

	SiteCode      Field
	SiteName      Field
	Latitude      Field
	Longitude     Field
	Elevation     Field
	VerticalDatum Field
	SiteType      Field

	MethodName Field
	MethodCode Field
	MethodLink Field

	VariableCode Field
	VariableType Field
	VariableName Field
	Speciation   Field
	NoDataValue  Field

	UnitsName         Field
	UnitsCode         Field
	UnitsType         Field
	UnitsAbbreviation Field

	ProcessingLevelCode        Field
	ProcessingLevelDefinition  Field
	ProcessingLevelExplanation Field

	ContactName             Field
	OrganizationName        Field
	OrganizationDescription Field
	OrganizationLink        Field
	Phone                   Field
	Email                   Field

	SampledMedium           Field
	AggregationStatistic    Field
	TimeAggregationInterval Field
	TimeAggregationUnitsID  Field

	// Values points to the value entries of the series.
	Values keypath.Path

	// CensorCode is the series-wide censor code, used when a value entry
	// does not carry its own.
	CensorCode Field
}

// Descriptors maps return type tags to their descriptors.
var Descriptors = map[string]Descriptor{
	WaterML10: waterML10(),
	WaterML11: waterML11(),
}

// Lookup returns the descriptor for a return type.
func Lookup(returnType string) (Descriptor, error) {
	res, ok := Descriptors[returnType]
	if !ok {
		return res, UnsupportedSchemaVersionError(returnType)
	}
	return res, nil
}

// ts builds a path that starts at the timeSeries node.
func ts(steps ...any) keypath.Path {
	return append(keypath.Path{"timeSeries"}, steps...)
}

func paths(ps ...keypath.Path) []keypath.Path {
	return ps
}

func waterML10() Descriptor {
	res := common()
	res.ReturnType = WaterML10
	res.SiteType = Field{
		Paths:   paths(ts("sourceInfo", "siteProperty", "#text")),
		Default: "Unknown",
	}
	res.MethodName = Field{
		Paths:   paths(ts("method", "MethodDescription")),
		Default: "Unknown",
	}
	res.NoDataValue = Field{
		Paths:   paths(ts("variable", "NoDataValue")),
		Default: "None",
	}
	res.UnitsName = Field{
		Paths: paths(
			ts("variable", "timeSupport", "unit", "UnitName"),
			ts("variable", "units", "#text"),
		),
		Required: true,
	}
	res.UnitsCode = Field{
		Paths: paths(
			ts("variable", "timeSupport", "unit", "UnitCode"),
			ts("variable", "units", "@unitsCode"),
		),
	}
	res.UnitsType = Field{
		Paths:   paths(ts("variable", "timeSupport", "unit", "UnitType")),
		Default: "Unknown",
	}
	res.UnitsAbbreviation = Field{
		Paths: paths(
			ts("variable", "timeSupport", "unit", "UnitAbbreviation"),
			ts("variable", "units", "@unitsAbbreviation"),
		),
		Default: "Unknown",
	}
	res.ContactName = Field{
		Paths:   paths(ts("source", "ContactInformation", "ContactName")),
		Default: "Unknown Unknown",
	}
	res.OrganizationName = Field{
		Paths:    paths(ts("source", "Organization")),
		Required: true,
	}
	res.OrganizationDescription = Field{
		Paths:   paths(ts("source", "sourceDescription")),
		Default: "Unknown",
	}
	res.OrganizationLink = Field{
		Paths:   paths(ts("source", "sourceLink")),
		Default: "Unknown",
	}
	res.Phone = Field{
		Paths:   paths(ts("source", "ContactInformation", "Phone")),
		Default: "Unknown",
	}
	res.Email = Field{
		Paths:   paths(ts("source", "ContactInformation", "Email")),
		Default: "Unknown",
	}
	res.TimeAggregationUnitsID = Field{
		Paths:   paths(ts("variable", "timeSupport", "unit", "unitCode")),
		Default: "Unknown",
	}
	return res
}

func waterML11() Descriptor {
	res := common()
	res.ReturnType = WaterML11
	res.SiteType = Field{
		Paths:   paths(ts("sourceInfo", "siteProperty", 4, "#text")),
		Default: "Unknown",
	}
	res.MethodName = Field{
		Paths:   paths(ts("method", "methodDescription")),
		Default: "Unknown",
	}
	res.NoDataValue = Field{
		Paths:   paths(ts("variable", "noDataValue")),
		Default: "None",
	}
	res.UnitsName = Field{
		Paths: paths(
			ts("variable", "timeScale", "unit", "unitName"),
			ts("variable", "unit", "unitName"),
		),
		Required: true,
	}
	res.UnitsCode = Field{
		Paths: paths(
			ts("variable", "timeScale", "unit", "unitCode"),
			ts("variable", "unit", "unitCode"),
		),
	}
	res.UnitsType = Field{
		Paths: paths(
			ts("variable", "timeScale", "unit", "unitType"),
			ts("variable", "unit", "unitType"),
		),
		Default: "Unknown",
	}
	res.UnitsAbbreviation = Field{
		Paths: paths(
			ts("variable", "timeScale", "unit", "unitAbbreviation"),
			ts("variable", "unit", "unitAbbreviation"),
		),
		Default: "Unknown",
	}
	res.ContactName = Field{
		Paths:   paths(ts("source", "contactInformation", "contactName")),
		Default: "Unknown Unknown",
	}
	res.OrganizationName = Field{
		Paths:    paths(ts("values", "source", "organization")),
		Required: true,
	}
	res.OrganizationDescription = Field{
		Paths:   paths(ts("values", "source", "sourceDescription")),
		Default: "Unknown",
	}
	res.OrganizationLink = Field{
		Paths:   paths(ts("values", "source", "sourceLink")),
		Default: "Unknown",
	}
	res.Phone = Field{
		Paths:   paths(ts("values", "source", "contactInformation", "phone")),
		Default: "Unknown",
	}
	res.Email = Field{
		Paths:   paths(ts("values", "source", "contactInformation", "email")),
		Default: "Unknown",
	}
	res.TimeAggregationUnitsID = Field{
		Paths: paths(
			ts("variable", "timeSupport", "unit", "unitCode"),
			ts("variable", "timeScale", "unit", "unitCode"),
		),
		Default: "Unknown",
	}
	return res
}

// common returns fields that live at the same place in both versions.
func common() Descriptor {
	return Descriptor{
		SiteCode: Field{
			Paths: paths(
				ts("sourceInfo", "siteCode", "#text"),
				ts("sourceInfo", "siteCode"),
			),
			Required: true,
		},
		SiteName: Field{
			Paths:   paths(ts("sourceInfo", "siteName")),
			Default: "Unknown",
		},
		Latitude: Field{
			Paths:   paths(ts("sourceInfo", "geoLocation", "geogLocation", "latitude")),
			Default: "Unknown",
		},
		Longitude: Field{
			Paths:   paths(ts("sourceInfo", "geoLocation", "geogLocation", "longitude")),
			Default: "Unknown",
		},
		Elevation: Field{
			Paths: paths(
				ts("sourceInfo", "elevation_m", "#text"),
				ts("sourceInfo", "elevation_m"),
			),
			Default: "None",
		},
		VerticalDatum: Field{
			Paths: paths(
				ts("sourceInfo", "verticalDatum", "#text"),
				ts("sourceInfo", "verticalDatum"),
			),
			Default: "None",
		},
		MethodCode: Field{
			Paths: paths(ts("method", "methodCode")),
		},
		MethodLink: Field{
			Paths:   paths(ts("method", "methodLink")),
			Default: "Unknown",
		},
		VariableCode: Field{
			Paths: paths(
				ts("variable", "variableCode", "#text"),
				ts("variable", "variableCode"),
			),
			Required: true,
		},
		VariableType: Field{
			Paths:   paths(ts("variable", "generalCategory")),
			Default: "Variable",
		},
		VariableName: Field{
			Paths:   paths(ts("variable", "variableName")),
			Default: "Unknown",
		},
		Speciation: Field{
			Paths:   paths(ts("variable", "speciation")),
			Default: "None",
		},
		ProcessingLevelCode: Field{
			Paths: paths(
				ts("values", "qualityControlLevel", "qualityControlLevelCode"),
				ts("values", "qualityControlLevel", "qualityControlLevelCode", "#text"),
				ts("values", "value", 0, "@qualityControlLevel"),
			),
			Required: true,
		},
		ProcessingLevelDefinition: Field{
			Paths:   paths(ts("values", "qualityControlLevel", "definition")),
			Default: "None",
		},
		ProcessingLevelExplanation: Field{
			Paths:   paths(ts("values", "qualityControlLevel", "explanation")),
			Default: "None",
		},
		SampledMedium: Field{
			Paths:   paths(ts("variable", "sampledMedium")),
			Default: "Unknown",
		},
		AggregationStatistic: Field{
			Paths:   paths(ts("variable", "dataType")),
			Default: "Unknown",
		},
		TimeAggregationInterval: Field{
			Paths: paths(
				ts("variable", "timeScale", "timeSupport"),
				ts("variable", "timeScale"),
			),
			Default: "Unknown",
		},
		Values: ts("values", "value"),
		CensorCode: Field{
			Paths:   paths(ts("values", "censorCode", "censorCode")),
			Default: "Unknown",
		},
	}
}

// UnsupportedSchemaVersionError is returned for return types without
// a descriptor.
func UnsupportedSchemaVersionError(returnType string) error {
	supported := slices.Sorted(maps.Keys(Descriptors))
	msg := "Return type <em>%s</em> is not supported, use one of: %s"
	vars := []any{returnType, strings.Join(supported, ", ")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnsupportedSchemaVersionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unsupported return type %q",
			fn.Name(), returnType),
	}
}
