package iofetch

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
)

var (
	// ErrURLNotFound means the service could not be reached or
	// returned 404.
	ErrURLNotFound = errors.New("URL not found")

	// ErrInvalidURL means the service URL is not an http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrWrongWSDLSuffix means the service URL did not return a WSDL
	// document.
	ErrWrongWSDLSuffix = errors.New(
		"wrong WSDL suffix, the correct URL format ends in '.asmx?WSDL'",
	)

	// ErrUnexpected covers SOAP faults and responses without WaterML.
	ErrUnexpected = errors.New("unexpected error")
)

// cause returns the sentinel that err wraps.
func cause(err error) error {
	for _, v := range []error{
		ErrInvalidURL, ErrWrongWSDLSuffix, ErrURLNotFound, ErrUnexpected,
	} {
		if errors.Is(err, v) {
			return v
		}
	}
	return ErrUnexpected
}

func RemoteFetchError(url string, err error) error {
	msg := "Cannot get values from <em>%s</em>: %s"
	c := cause(err)
	vars := []any{url, c.Error()}
	if !errors.Is(err, c) {
		err = fmt.Errorf("%w: %w", c, err)
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
