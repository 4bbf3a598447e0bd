// Package refts describes reference time series files exported by
// HydroClient. A reference file lists time series by the web service that
// serves them, without the values.
package refts

// Document is the top level of a reference file.
type Document struct {
	File File `json:"timeSeriesReferenceFile"`
}

// File is the content of a reference file. Numeric fields keep whatever
// JSON type the exporter used.
type File struct {
	FileVersion          any      `json:"fileVersion"`
	Title                string   `json:"title"`
	Symbol               string   `json:"symbol"`
	Abstract             string   `json:"abstract"`
	KeyWords             any      `json:"keyWords"`
	ReferencedTimeSeries []Series `json:"referencedTimeSeries"`
}

// Series references one time series.
type Series struct {
	RequestInfo  RequestInfo `json:"requestInfo"`
	SampleMedium any         `json:"sampleMedium"`
	ValueCount   any         `json:"valueCount"`
	BeginDate    string      `json:"beginDate"`
	EndDate      string      `json:"endDate"`
	Site         Site        `json:"site"`
	Variable     Variable    `json:"variable"`
	Method       Method      `json:"method"`

	// WofParams is set by HydroClient for series with a cached response.
	WofParams *WofParams `json:"wofParams,omitempty"`
}

// RequestInfo tells how to get the values of a series.
type RequestInfo struct {
	ServiceType string `json:"serviceType"`
	RefType     string `json:"refType"`
	ReturnType  string `json:"returnType"`
	NetworkName string `json:"networkName"`
	URL         string `json:"url"`
}

// Site is the place of observations.
type Site struct {
	SiteCode  string `json:"siteCode"`
	SiteName  string `json:"siteName"`
	Latitude  any    `json:"latitude"`
	Longitude any    `json:"longitude"`
}

// Variable is the observed property.
type Variable struct {
	VariableCode string `json:"variableCode"`
	VariableName string `json:"variableName"`
}

// Method is the observation method.
type Method struct {
	MethodDescription string `json:"methodDescription"`
	MethodLink        string `json:"methodLink"`
}

// WofParams keeps HydroClient-specific request parameters.
type WofParams struct {
	WofURI string `json:"WofUri"`
}

// NA replaces empty values of displayed fields.
const NA = "N/A"

// Trim keeps only the selected series, in source order. Indices refer to
// positions in the source file, indices out of range are ignored.
// Returned series carry only the fields of the reduced schema.
func Trim(f File, selected []int) Document {
	sel := make(map[int]struct{}, len(selected))
	for _, v := range selected {
		sel[v] = struct{}{}
	}

	res := File{
		FileVersion:          f.FileVersion,
		Title:                f.Title,
		Symbol:               f.Symbol,
		Abstract:             f.Abstract,
		KeyWords:             f.KeyWords,
		ReferencedTimeSeries: []Series{},
	}
	for i, v := range f.ReferencedTimeSeries {
		if _, ok := sel[i]; !ok {
			continue
		}
		v.WofParams = nil
		res.ReferencedTimeSeries = append(res.ReferencedTimeSeries, v)
	}
	return Document{File: res}
}

// Select returns series at the given indices, in source order. An empty
// selection returns all series. Indices out of range are ignored.
func Select(f File, selected []int) []Series {
	if len(selected) == 0 {
		return f.ReferencedTimeSeries
	}
	sel := make(map[int]struct{}, len(selected))
	for _, v := range selected {
		sel[v] = struct{}{}
	}
	var res []Series
	for i, v := range f.ReferencedTimeSeries {
		if _, ok := sel[i]; ok {
			res = append(res, v)
		}
	}
	return res
}

// FillMissing replaces empty site, variable, request and method fields
// with "N/A".
func FillMissing(f *File) {
	for i := range f.ReferencedTimeSeries {
		s := &f.ReferencedTimeSeries[i]
		fillString(&s.Site.SiteName)
		fillString(&s.Site.SiteCode)
		fillString(&s.Variable.VariableName)
		fillString(&s.Variable.VariableCode)
		fillString(&s.RequestInfo.NetworkName)
		fillString(&s.RequestInfo.RefType)
		fillString(&s.RequestInfo.ServiceType)
		fillString(&s.RequestInfo.URL)
		fillString(&s.RequestInfo.ReturnType)
		fillAny(&s.Site.Latitude)
		fillAny(&s.Site.Longitude)
		fillString(&s.Method.MethodDescription)
		fillString(&s.Method.MethodLink)
	}
}

func fillString(s *string) {
	if *s == "" {
		*s = NA
	}
}

func fillAny(v *any) {
	switch t := (*v).(type) {
	case nil:
		*v = NA
	case string:
		if t == "" {
			*v = NA
		}
	}
}
