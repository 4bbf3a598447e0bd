package waterml

import (
	"strconv"

	"github.com/gnames/gnlib"
	"github.com/gnames/hsrc/pkg/keypath"
)

// Value is one timestamped observation.
type Value struct {
	Data       string
	DateTime   string
	TimeOffset string
	CensorCode string
}

// Series is a flat record of everything the ODM2 mapper needs from
// a WaterML document.
type Series struct {
	ReturnType string

	SiteCode      string
	SiteName      string
	Latitude      string
	Longitude     string
	Elevation     string
	VerticalDatum string
	SiteType      string

	MethodName string
	MethodCode string
	MethodLink string

	VariableCode string
	VariableType string
	VariableName string
	Speciation   string
	NoDataValue  string

	UnitsName         string
	UnitsCode         string
	UnitsType         string
	UnitsAbbreviation string

	ProcessingLevelCode        string
	ProcessingLevelDefinition  string
	ProcessingLevelExplanation string

	ContactName             string
	OrganizationName        string
	OrganizationDescription string
	OrganizationLink        string
	Phone                   string
	Email                   string

	SampledMedium           string
	AggregationStatistic    string
	TimeAggregationInterval string
	TimeAggregationUnitsID  string

	Values []Value
}

// First returns the first value entry, or a zero Value with "Unknown"
// fields if there are no values.
func (s *Series) First() Value {
	if len(s.Values) == 0 {
		return unknownValue()
	}
	return s.Values[0]
}

// Last returns the last value entry, or a zero Value with "Unknown"
// fields if there are no values.
func (s *Series) Last() Value {
	if len(s.Values) == 0 {
		return unknownValue()
	}
	return s.Values[len(s.Values)-1]
}

func unknownValue() Value {
	return Value{
		DateTime:   "Unknown",
		TimeOffset: "Unknown",
		CensorCode: "Unknown",
	}
}

// Extract reads a Series out of a document. The index is the position of
// the series in its request and becomes the method code when the document
// has none.
func Extract(doc *Document, desc Descriptor, index int) (*Series, error) {
	x := extractor{root: doc.Root}
	res := Series{ReturnType: desc.ReturnType}

	res.SiteCode = x.get(desc.SiteCode, "SiteCode")
	res.SiteName = x.get(desc.SiteName, "SiteName")
	res.Latitude = x.get(desc.Latitude, "Latitude")
	res.Longitude = x.get(desc.Longitude, "Longitude")
	res.Elevation = x.get(desc.Elevation, "Elevation")
	res.VerticalDatum = x.get(desc.VerticalDatum, "VerticalDatum")
	res.SiteType = x.get(desc.SiteType, "SiteType")

	methodCode := desc.MethodCode
	methodCode.Default = strconv.Itoa(index + 1)
	res.MethodName = x.get(desc.MethodName, "MethodName")
	res.MethodCode = x.get(methodCode, "MethodCode")
	res.MethodLink = x.get(desc.MethodLink, "MethodLink")

	res.VariableCode = x.get(desc.VariableCode, "VariableCode")
	res.VariableType = x.get(desc.VariableType, "VariableType")
	res.VariableName = x.get(desc.VariableName, "VariableName")
	res.Speciation = x.get(desc.Speciation, "Speciation")
	res.NoDataValue = x.get(desc.NoDataValue, "NoDataValue")

	res.UnitsName = x.get(desc.UnitsName, "UnitsName")
	res.UnitsCode = x.get(desc.UnitsCode, "UnitsCode")
	res.UnitsType = x.get(desc.UnitsType, "UnitsType")
	res.UnitsAbbreviation = x.get(desc.UnitsAbbreviation, "UnitsAbbreviation")

	res.ProcessingLevelCode = x.get(desc.ProcessingLevelCode, "ProcessingLevelCode")
	res.ProcessingLevelDefinition = x.get(desc.ProcessingLevelDefinition,
		"ProcessingLevelDefinition")
	res.ProcessingLevelExplanation = x.get(desc.ProcessingLevelExplanation,
		"ProcessingLevelExplanation")

	res.ContactName = x.get(desc.ContactName, "ContactName")
	res.OrganizationName = x.get(desc.OrganizationName, "OrganizationName")
	res.OrganizationDescription = x.get(desc.OrganizationDescription,
		"OrganizationDescription")
	res.OrganizationLink = x.get(desc.OrganizationLink, "OrganizationLink")
	res.Phone = x.get(desc.Phone, "Phone")
	res.Email = x.get(desc.Email, "Email")

	res.SampledMedium = x.get(desc.SampledMedium, "SampledMedium")
	res.AggregationStatistic = x.get(desc.AggregationStatistic,
		"AggregationStatistic")
	res.TimeAggregationInterval = x.get(desc.TimeAggregationInterval,
		"TimeAggregationInterval")
	res.TimeAggregationUnitsID = x.get(desc.TimeAggregationUnitsID,
		"TimeAggregationUnitsID")

	if x.err != nil {
		return nil, x.err
	}

	censor := x.get(desc.CensorCode, "CensorCode")
	res.Values = values(doc.Root, desc.Values, censor)
	return &res, nil
}

// extractor keeps the first error, so that a run of lookups can be
// checked once.
type extractor struct {
	root map[string]any
	err  error
}

func (x *extractor) get(f Field, name string) string {
	if x.err != nil {
		return ""
	}
	if f.Required {
		res, err := keypath.Require(x.root, name, f.Paths...)
		if err != nil {
			x.err = err
			return ""
		}
		return gnlib.FixUtf8(res)
	}
	return gnlib.FixUtf8(keypath.String(x.root, f.Default, f.Paths...))
}

// values normalizes value entries. A single entry is not wrapped in
// a list by the XML converter, and an entry without attributes is
// a bare string.
func values(root map[string]any, path keypath.Path, censor string) []Value {
	node, ok := keypath.Walk(root, path)
	if !ok {
		return nil
	}

	var entries []any
	switch v := node.(type) {
	case []any:
		entries = v
	case nil:
		return nil
	default:
		entries = []any{v}
	}

	res := make([]Value, 0, len(entries))
	for _, e := range entries {
		val := Value{
			DateTime:   "Unknown",
			TimeOffset: "Unknown",
			CensorCode: censor,
		}
		switch v := e.(type) {
		case map[string]any:
			val.Data = keypath.String(v, "", keypath.P("#text"))
			val.DateTime = keypath.String(v, val.DateTime, keypath.P("@dateTime"))
			val.TimeOffset = keypath.String(v, val.TimeOffset, keypath.P("@timeOffset"))
			val.CensorCode = keypath.String(v, val.CensorCode, keypath.P("@censorCode"))
		default:
			val.Data = keypath.Stringify(v)
		}
		res = append(res, val)
	}
	return res
}
