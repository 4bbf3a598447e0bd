package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Reference file errors
	ReftsParseError
	ReftsNoSeriesError

	// WaterML errors
	WaterMLParseError
	MissingRequiredFieldError
	UnsupportedSchemaVersionError

	// Remote fetch errors
	RemoteFetchError

	// ODM2 errors
	ODM2CreateError
	ODM2NotOpenError
	DuplicateDatasetError
	MappingFailureError
)
