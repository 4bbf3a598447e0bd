package keypath_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
	"github.com/gnames/hsrc/pkg/keypath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc() map[string]any {
	return map[string]any{
		"timeSeries": map[string]any{
			"sourceInfo": map[string]any{
				"siteCode": map[string]any{
					"#text":    "10109000",
					"@network": "NWIS",
				},
				"siteName":     "",
				"elevation_m":  "1340",
				"siteProperty": []any{"a", "b", map[string]any{"#text": "Stream"}},
			},
			"values": map[string]any{
				"value": []any{
					map[string]any{"#text": "1.5", "@dateTime": "2020-01-01T00:00:00"},
					map[string]any{"#text": "2.5", "@dateTime": "2020-01-01T00:30:00"},
					map[string]any{"#text": "3.5", "@dateTime": "2020-01-01T01:00:00"},
				},
			},
			"count":   float64(3),
			"flag":    true,
			"nothing": nil,
		},
	}
}

func TestWalk(t *testing.T) {
	d := doc()
	tests := []struct {
		msg  string
		path keypath.Path
		ok   bool
		res  any
	}{
		{"map keys", keypath.P("timeSeries", "sourceInfo", "elevation_m"), true, "1340"},
		{"list index", keypath.P("timeSeries", "values", "value", 1, "#text"), true, "2.5"},
		{"negative index", keypath.P("timeSeries", "values", "value", -1, "@dateTime"),
			true, "2020-01-01T01:00:00"},
		{"index out of range", keypath.P("timeSeries", "values", "value", 3), false, nil},
		{"negative out of range", keypath.P("timeSeries", "values", "value", -4), false, nil},
		{"missing key", keypath.P("timeSeries", "method"), false, nil},
		{"key on list", keypath.P("timeSeries", "values", "value", "#text"), false, nil},
		{"index on map", keypath.P("timeSeries", 0), false, nil},
		{"step past leaf", keypath.P("timeSeries", "count", "x"), false, nil},
	}

	for _, v := range tests {
		res, ok := keypath.Walk(d, v.path)
		assert.Equal(t, v.ok, ok, v.msg)
		if v.ok {
			assert.Equal(t, v.res, res, v.msg)
		}
	}
}

func TestFirst(t *testing.T) {
	d := doc()

	t.Run("first match wins", func(t *testing.T) {
		res, ok := keypath.First(d,
			keypath.P("timeSeries", "sourceInfo", "siteCode", "#text"),
			keypath.P("timeSeries", "sourceInfo", "elevation_m"),
		)
		require.True(t, ok)
		assert.Equal(t, "10109000", res)
	})

	t.Run("maps and lists do not resolve", func(t *testing.T) {
		res, ok := keypath.First(d,
			keypath.P("timeSeries", "sourceInfo", "siteCode"),
			keypath.P("timeSeries", "values", "value"),
			keypath.P("timeSeries", "sourceInfo", "elevation_m"),
		)
		require.True(t, ok)
		assert.Equal(t, "1340", res)
	})

	t.Run("empty and nil do not resolve", func(t *testing.T) {
		_, ok := keypath.First(d,
			keypath.P("timeSeries", "sourceInfo", "siteName"),
			keypath.P("timeSeries", "nothing"),
		)
		assert.False(t, ok)
	})

	t.Run("no paths", func(t *testing.T) {
		_, ok := keypath.First(d)
		assert.False(t, ok)
	})
}

func TestString(t *testing.T) {
	d := doc()
	tests := []struct {
		msg   string
		def   string
		paths []keypath.Path
		res   string
	}{
		{
			msg:   "resolved",
			def:   "Unknown",
			paths: []keypath.Path{keypath.P("timeSeries", "sourceInfo", "siteProperty", 2, "#text")},
			res:   "Stream",
		},
		{
			msg:   "empty string falls to default",
			def:   "Unknown",
			paths: []keypath.Path{keypath.P("timeSeries", "sourceInfo", "siteName")},
			res:   "Unknown",
		},
		{
			msg: "value equal to default is skipped",
			def: "1340",
			paths: []keypath.Path{
				keypath.P("timeSeries", "sourceInfo", "elevation_m"),
				keypath.P("timeSeries", "values", "value", 0, "#text"),
			},
			res: "1.5",
		},
		{
			msg:   "float is stringified",
			def:   "None",
			paths: []keypath.Path{keypath.P("timeSeries", "count")},
			res:   "3",
		},
		{
			msg:   "bool is stringified",
			def:   "None",
			paths: []keypath.Path{keypath.P("timeSeries", "flag")},
			res:   "true",
		},
	}

	for _, v := range tests {
		res := keypath.String(d, v.def, v.paths...)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestRequire(t *testing.T) {
	d := doc()

	res, err := keypath.Require(d, "SiteCode",
		keypath.P("timeSeries", "sourceInfo", "siteCode", "#text"),
		keypath.P("timeSeries", "sourceInfo", "siteCode"),
	)
	require.NoError(t, err)
	assert.Equal(t, "10109000", res)

	_, err = keypath.Require(d, "OrganizationName",
		keypath.P("timeSeries", "source", "Organization"),
	)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.MissingRequiredFieldError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "OrganizationName")
	assert.Equal(t, []any{"OrganizationName"}, gnErr.Vars)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in  any
		res string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(41.25), "41.25"},
		{float64(-111), "-111"},
		{12, "12"},
		{int64(7), "7"},
		{false, "false"},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, keypath.Stringify(v.in))
	}
}

func TestPathString(t *testing.T) {
	p := keypath.P("timeSeries", "values", "value", -1, "@dateTime")
	assert.Equal(t, "timeSeries.values.value.-1.@dateTime", p.String())
}
