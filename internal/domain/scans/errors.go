package scans

import "errors"

var (
	ErrNotFound         = errors.New("scan not found")
	ErrScanFailed       = errors.New("scan failed")
	ErrScanNotCompleted = errors.New("scan not completed yet")
	ErrInvalidURL       = errors.New("please enter a valid URL")
	ErrInvalidFilter    = errors.New("invalid severity filter")
	ErrArchiveDisabled  = errors.New("report archive is not configured")
)
