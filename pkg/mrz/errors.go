package mrz

import "errors"

// Structural and validation errors. They are returned as plain sentinel
// errors, not wrapped into pkg/emrtderr; callers compare them with
// errors.Is.
var (
	ErrInvalidLength         = errors.New("mrz: invalid length")
	ErrInvalidChecksum       = errors.New("mrz: checksum validation failed")
	ErrInvalidDocumentCode   = errors.New("mrz: document code invalid for format")
	ErrInvalidDocumentNumber = errors.New("mrz: long document number layout invalid")
	ErrInvalidDate           = errors.New("mrz: date does not parse under YYMMDD")
)
