package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNoPrice         = errors.New("no usable price")
	ErrNoSources       = errors.New("no source responded")
	ErrMalformedRecord = errors.New("malformed market record")
	ErrScanFailed      = errors.New("scan failed")
	ErrScanInProgress  = errors.New("scan already in progress")
)
