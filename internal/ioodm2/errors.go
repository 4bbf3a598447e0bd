package ioodm2

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
)

func ODM2CreateError(path string, err error) error {
	msg := "Cannot create ODM2 database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ODM2CreateError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create %s: %w",
			fn.Name(), path, err),
	}
}

func ODM2NotOpenError(path string) error {
	msg := "ODM2 database <em>%s</em> is closed"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ODM2NotOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: database %s is not open", fn.Name(), path),
	}
}

func DuplicateDatasetError(code string, id int64) error {
	msg := "Resource already contains dataset <em>%s</em>"
	vars := []any{code}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DuplicateDatasetError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: dataset code %s is taken by DataSetID %d",
			fn.Name(), code, id),
	}
}

func MappingFailureError(idx int, err error) error {
	msg := "Cannot map series <em>%d</em>"
	vars := []any{idx}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MappingFailureError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: series %d: %w", fn.Name(), idx, err),
	}
}
