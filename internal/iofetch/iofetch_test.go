package iofetch_test

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/internal/iofetch"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/errcode"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/gnames/hsrc/pkg/waterml"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wsdlTmpl = `<?xml version="1.0" encoding="utf-8"?>
<wsdl:definitions xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
  xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
  targetNamespace="http://www.cuahsi.org/his/1.1/ws/">
  <wsdl:binding name="WaterOneFlow" type="tns:WaterOneFlow">
    <soap:binding transport="http://schemas.xmlsoap.org/soap/http"/>
    <wsdl:operation name="GetValuesObject">
      <soap:operation soapAction="http://www.cuahsi.org/his/1.1/ws/GetValuesObject" style="document"/>
    </wsdl:operation>
    <wsdl:operation name="GetValues">
      <soap:operation soapAction="http://www.cuahsi.org/his/1.1/ws/GetValues" style="document"/>
    </wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="WaterOneFlow">
    <wsdl:port name="WaterOneFlow" binding="tns:WaterOneFlow">
      <soap:address location="ADDRESS"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`

const faultBody = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>Variable not found</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(
		filepath.Join("..", "..", "pkg", "waterml", "testdata", name),
	)
	require.NoError(t, err)
	return b
}

func zipped(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func valuesResponse(t *testing.T, wml []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soap:Body><GetValuesResponse xmlns="http://www.cuahsi.org/his/1.1/ws/">` +
		`<GetValuesResult>`)
	require.NoError(t, xml.EscapeText(&buf, wml))
	buf.WriteString(`</GetValuesResult></GetValuesResponse></soap:Body></soap:Envelope>`)
	return buf.Bytes()
}

type counters struct {
	wsdl, values, raw, archive atomic.Int32
}

func newServer(t *testing.T) (*httptest.Server, *counters) {
	t.Helper()
	var cnt counters
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/archive/abc/zip", func(w http.ResponseWriter, r *http.Request) {
		cnt.archive.Add(1)
		w.Write(zipped(t, "abc.xml", fixture(t, "wml10.xml")))
	})

	mux.HandleFunc("/archive/broken/zip", func(w http.ResponseWriter, r *http.Request) {
		cnt.archive.Add(1)
		w.Write([]byte("not a zip"))
	})

	mux.HandleFunc("/nasa/cuahsi", func(w http.ResponseWriter, r *http.Request) {
		cnt.raw.Add(1)
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost ||
			!bytes.Contains(body, []byte("<GetValuesObject")) ||
			!bytes.Contains(body, []byte("<location>NASA:X&amp;Y</location>")) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Write(fixture(t, "wml11_soap.xml"))
	})

	mux.HandleFunc("/wof/cuahsi_1_1.asmx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			cnt.wsdl.Add(1)
			wsdl := strings.Replace(wsdlTmpl, "ADDRESS",
				srvURL(r)+"/wof/cuahsi_1_1.asmx", 1)
			w.Write([]byte(wsdl))
			return
		}
		cnt.values.Add(1)
		action := r.Header.Get("SOAPAction")
		if action != `"http://www.cuahsi.org/his/1.1/ws/GetValues"` {
			http.Error(w, "bad action "+action, http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if bytes.Contains(body, []byte("<variable>BAD</variable>")) {
			w.Write([]byte(faultBody))
			return
		}
		w.Write(valuesResponse(t, fixture(t, "wml10.xml")))
	})

	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Service is running"))
	})

	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>WaterOneFlow</p></body></html>"))
	})

	return srv, &cnt
}

func srvURL(r *http.Request) string {
	return "http://" + r.Host
}

func series(u string) refts.Series {
	return refts.Series{
		RequestInfo: refts.RequestInfo{ReturnType: "WaterML 1.0", URL: u},
		BeginDate:   "2015-01-01T00:00:00",
		EndDate:     "2015-01-03T00:00:00",
		Site:        refts.Site{SiteCode: "NWISDV:10109000"},
		Variable:    refts.Variable{VariableCode: "NWISDV:00060"},
	}
}

func newFetcher(srv *httptest.Server) resource.Fetcher {
	cfg := config.FetchConfig{
		ArchiveURL:       srv.URL + "/archive",
		RawSOAPProviders: []string{"nasa"},
		MaxRetries:       1,
		Timeout:          5,
	}
	return iofetch.New(cfg)
}

func siteCode(t *testing.T, doc *waterml.Document) string {
	t.Helper()
	desc, err := waterml.Lookup(waterml.WaterML10)
	require.NoError(t, err)
	s, err := waterml.Extract(doc, desc, 0)
	require.NoError(t, err)
	return s.SiteCode
}

func TestFetchArchive(t *testing.T) {
	srv, cnt := newServer(t)
	f := newFetcher(srv)

	s := series(srv.URL + "/wof/cuahsi_1_1.asmx?WSDL")
	s.WofParams = &refts.WofParams{WofURI: "abc"}

	doc, err := f.Fetch(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "10109000", siteCode(t, doc))
	assert.Equal(t, int32(1), cnt.archive.Load())
	assert.Equal(t, int32(0), cnt.wsdl.Load())
}

func TestFetchArchiveFallback(t *testing.T) {
	srv, cnt := newServer(t)
	f := newFetcher(srv)

	for _, v := range []string{"missing", "broken"} {
		s := series(srv.URL + "/wof/cuahsi_1_1.asmx?WSDL")
		s.WofParams = &refts.WofParams{WofURI: v}
		doc, err := f.Fetch(context.Background(), s)
		require.NoError(t, err, v)
		assert.Equal(t, "10109000", siteCode(t, doc), v)
	}
	assert.Equal(t, int32(2), cnt.values.Load())
}

func TestFetchRawSOAP(t *testing.T) {
	srv, cnt := newServer(t)
	f := newFetcher(srv)

	s := series(srv.URL + "/nasa/cuahsi")
	s.Site.SiteCode = "NASA:X&Y"
	doc, err := f.Fetch(context.Background(), s)
	require.NoError(t, err)
	_, ok := doc.Root["timeSeries"]
	assert.True(t, ok)
	assert.Equal(t, int32(1), cnt.raw.Load())
	assert.Equal(t, int32(0), cnt.wsdl.Load())
}

func TestFetchWSDL(t *testing.T) {
	srv, cnt := newServer(t)
	f := newFetcher(srv)
	s := series(srv.URL + "/wof/cuahsi_1_1.asmx?WSDL")

	for range 3 {
		doc, err := f.Fetch(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, "10109000", siteCode(t, doc))
	}
	// WSDL is downloaded once per URL
	assert.Equal(t, int32(1), cnt.wsdl.Load())
	assert.Equal(t, int32(3), cnt.values.Load())
}

func TestFetchErrors(t *testing.T) {
	srv, _ := newServer(t)
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		msg      string
		url      string
		variable string
		cause    error
	}{
		{"not http", "ftp://example.org/cuahsi_1_1.asmx?WSDL", "",
			iofetch.ErrInvalidURL},
		{"no scheme", "hydroportal.cuahsi.org/nwisdv", "",
			iofetch.ErrInvalidURL},
		{"empty", "", "", iofetch.ErrInvalidURL},
		{"404", srv.URL + "/none?WSDL", "", iofetch.ErrURLNotFound},
		{"refused", closedURL + "/cuahsi_1_1.asmx?WSDL", "",
			iofetch.ErrURLNotFound},
		{"plain text", srv.URL + "/text", "", iofetch.ErrWrongWSDLSuffix},
		{"html", srv.URL + "/html", "", iofetch.ErrWrongWSDLSuffix},
		{"soap fault", srv.URL + "/wof/cuahsi_1_1.asmx?WSDL", "BAD",
			iofetch.ErrUnexpected},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			f := newFetcher(srv)
			s := series(v.url)
			if v.variable != "" {
				s.Variable.VariableCode = v.variable
			}
			_, err := f.Fetch(context.Background(), s)
			require.Error(t, err)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, errcode.RemoteFetchError, gnErr.Code)
			assert.True(t, errors.Is(gnErr.Err, v.cause), gnErr.Err.Error())
			assert.Equal(t, v.url, gnErr.Vars[0])
			assert.Equal(t, v.cause.Error(), gnErr.Vars[1])
		})
	}
}

func TestFetchCanceled(t *testing.T) {
	srv, _ := newServer(t)
	f := newFetcher(srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, series(srv.URL+"/wof/cuahsi_1_1.asmx?WSDL"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.ErrorIs(t, gnErr.Err, context.Canceled)
}
