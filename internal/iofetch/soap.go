package iofetch

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
	"github.com/gnames/hsrc/pkg/waterml"
)

// valuesObjectNS is the namespace of GetValuesObject requests sent to
// raw SOAP providers.
const valuesObjectNS = "http://www.cuahsi.org/his/1.0/ws/"

// query holds parameters of GetValues and GetValuesObject calls.
type query struct {
	Location  string
	Variable  string
	StartDate string
	EndDate   string
	AuthToken string
}

// envelope builds a SOAP 1.1 request. Parameters keep the order the
// service schema expects.
func (q query) envelope(method, ns string) []byte {
	params := [][2]string{
		{"location", q.Location},
		{"variable", q.Variable},
		{"startDate", q.StartDate},
		{"endDate", q.EndDate},
		{"authToken", q.AuthToken},
	}

	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<soap:Envelope ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ` +
		`xmlns:xsd="http://www.w3.org/2001/XMLSchema" ` +
		`xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">`)
	b.WriteString("<soap:Body>")
	fmt.Fprintf(&b, `<%s xmlns="`, method)
	xml.EscapeText(&b, []byte(ns))
	b.WriteString(`">`)
	for _, p := range params {
		fmt.Fprintf(&b, "<%s>", p[0])
		xml.EscapeText(&b, []byte(p[1]))
		fmt.Fprintf(&b, "</%s>", p[0])
	}
	fmt.Fprintf(&b, "</%s>", method)
	b.WriteString("</soap:Body></soap:Envelope>")
	return b.Bytes()
}

// fetchValuesObject posts a GetValuesObject envelope directly to the
// service URL. The response carries WaterML as XML elements.
func (f *fetcher) fetchValuesObject(
	ctx context.Context,
	srvURL string,
	q query,
) (*waterml.Document, error) {
	action := valuesObjectNS + "GetValuesObject"
	body, err := f.post(ctx, srvURL, action,
		q.envelope("GetValuesObject", valuesObjectNS))
	if err != nil {
		return nil, err
	}
	return parseResponse(body)
}

// fetchValues calls GetValues of the service described by the WSDL at
// wsdlURL. The response carries WaterML as an escaped string.
func (f *fetcher) fetchValues(
	ctx context.Context,
	wsdlURL string,
	q query,
) (*waterml.Document, error) {
	srv, err := f.service(ctx, wsdlURL)
	if err != nil {
		return nil, err
	}

	body, err := f.post(ctx, srv.Address, srv.Action,
		q.envelope("GetValues", srv.Namespace))
	if err != nil {
		return nil, err
	}

	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if err = soapFault(m); err != nil {
		return nil, err
	}

	vals, err := m.ValuesForKey("GetValuesResult")
	if err == nil && len(vals) > 0 {
		if s, ok := vals[0].(string); ok {
			return parseResponse([]byte(s))
		}
	}
	// some services return WaterML elements instead of a string
	return parseResponse(body)
}

// parseResponse finds WaterML in a response body.
func parseResponse(body []byte) (*waterml.Document, error) {
	doc, err := waterml.ParseBytes(body)
	if err == nil {
		return doc, nil
	}
	if m, mErr := mxj.NewMapXml(body); mErr == nil {
		if fErr := soapFault(m); fErr != nil {
			return nil, fErr
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
}

// soapFault returns an error if the response is a SOAP fault.
func soapFault(m mxj.Map) error {
	vals, err := m.ValuesForKey("Fault")
	if err != nil || len(vals) == 0 {
		return nil
	}
	msg := "SOAP fault"
	if fm, ok := vals[0].(map[string]any); ok {
		if s, ok := fm["faultstring"].(string); ok && s != "" {
			msg = s
		}
	}
	return fmt.Errorf("%w: %s", ErrUnexpected, msg)
}

// service is the part of a WSDL description needed for GetValues.
type service struct {
	Address   string
	Action    string
	Namespace string
}

// service returns the parsed WSDL of a URL. WSDL documents are cached
// for the life of the fetcher.
func (f *fetcher) service(ctx context.Context, wsdlURL string) (*service, error) {
	f.mu.Lock()
	srv, ok := f.services[wsdlURL]
	f.mu.Unlock()
	if ok {
		return srv, nil
	}

	body, err := f.get(ctx, wsdlURL)
	if err != nil {
		return nil, err
	}

	srv, err = parseWSDL(body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.services[wsdlURL] = srv
	f.mu.Unlock()
	return srv, nil
}

// parseWSDL reads the SOAP address, the GetValues action and the target
// namespace of a WaterOneFlow service.
func parseWSDL(body []byte) (*service, error) {
	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrongWSDLSuffix, err)
	}
	def, ok := m["definitions"].(map[string]any)
	if !ok {
		return nil, ErrWrongWSDLSuffix
	}

	var res service
	res.Namespace, _ = def["@targetNamespace"].(string)

	res.Address = firstAttr(m, "address", "@location", "")
	if res.Address == "" {
		return nil, fmt.Errorf("%w: WSDL has no SOAP address", ErrUnexpected)
	}

	res.Action = firstAttr(m, "operation", "@soapAction", "/GetValues")
	if res.Action == "" && res.Namespace != "" {
		res.Action = strings.TrimRight(res.Namespace, "/") + "/GetValues"
	}
	return &res, nil
}

// firstAttr returns the first attribute value of elements with the
// given local name. A non-empty suffix filters values.
func firstAttr(m mxj.Map, key, attr, suffix string) string {
	vals, err := m.ValuesForKey(key)
	if err != nil {
		return ""
	}
	for _, v := range vals {
		node, ok := v.(map[string]any)
		if !ok {
			continue
		}
		s, _ := node[attr].(string)
		if s != "" && strings.HasSuffix(s, suffix) {
			return s
		}
	}
	return ""
}
