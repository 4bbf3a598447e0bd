package iorefts

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
)

func ReftsParseError(err error) error {
	msg := "Cannot parse reference file"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReftsParseError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func ReftsNoSeriesError() error {
	msg := "Reference file has no <em>%s</em> list"
	vars := []any{seriesKey}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReftsNoSeriesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s is missing", fn.Name(), seriesKey),
	}
}
