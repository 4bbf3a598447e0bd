package iorefts_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/internal/iorefts"
	"github.com/gnames/hsrc/pkg/errcode"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	f, err := iorefts.Load(filepath.Join("testdata", "logan.json"))
	require.NoError(t, err)

	assert.Equal(t, "Logan River", f.Title)
	assert.Equal(t, float64(1), f.FileVersion)
	require.Len(t, f.ReferencedTimeSeries, 3)

	s := f.ReferencedTimeSeries[0]
	assert.Equal(t, "WaterML 1.0", s.RequestInfo.ReturnType)
	assert.Equal(t, "NWISDV:00060", s.Variable.VariableCode)
	assert.Equal(t, 41.7435422, s.Site.Latitude)
	require.NotNil(t, s.WofParams)
	assert.Equal(t, "nwisdv-10109000-00060", s.WofParams.WofURI)
	assert.Nil(t, f.ReferencedTimeSeries[1].WofParams)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := iorefts.Load(filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
}

func TestParse(t *testing.T) {
	tests := []struct {
		msg   string
		input string
		title string
		count int
		code  gn.ErrorCode
	}{
		{
			msg:   "object",
			input: `{"timeSeriesReferenceFile": {"title": "A", "referencedTimeSeries": [{}]}}`,
			title: "A",
			count: 1,
		},
		{
			msg:   "single quotes",
			input: `{'timeSeriesReferenceFile': {'title': 'B', 'referencedTimeSeries': []}}`,
			title: "B",
			count: 0,
		},
		{
			msg:   "string payload",
			input: `{"timeSeriesReferenceFile": "{\"title\": \"C\", \"referencedTimeSeries\": [{}, {}]}"}`,
			title: "C",
			count: 2,
		},
		{
			msg:   "not json",
			input: `timeSeriesReferenceFile`,
			code:  errcode.ReftsParseError,
		},
		{
			msg:   "no file key",
			input: `{"title": "D"}`,
			code:  errcode.ReftsParseError,
		},
		{
			msg:   "string without json",
			input: `{"timeSeriesReferenceFile": "abc"}`,
			code:  errcode.ReftsParseError,
		},
		{
			msg:   "no series",
			input: `{"timeSeriesReferenceFile": {"title": "E"}}`,
			code:  errcode.ReftsNoSeriesError,
		},
		{
			msg:   "series is not a list",
			input: `{"timeSeriesReferenceFile": {"referencedTimeSeries": {}}}`,
			code:  errcode.ReftsNoSeriesError,
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			f, err := iorefts.Parse([]byte(v.input))
			if v.code != errcode.UnknownError {
				require.Error(t, err)
				gnErr, ok := err.(*gn.Error)
				require.True(t, ok)
				assert.Equal(t, v.code, gnErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, v.title, f.Title)
			assert.Len(t, f.ReferencedTimeSeries, v.count)
		})
	}
}

func TestWrite(t *testing.T) {
	f, err := iorefts.Load(filepath.Join("testdata", "logan.json"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "logan"+".refts.json")
	require.NoError(t, iorefts.Write(path, refts.Trim(*f, []int{0, 2})))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "wofParams")

	var doc refts.Document
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Len(t, doc.File.ReferencedTimeSeries, 2)
	assert.Equal(t, "NWISDV:00010",
		doc.File.ReferencedTimeSeries[1].Variable.VariableCode)

	// written file loads back
	back, err := iorefts.Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.Title, back.Title)
}
