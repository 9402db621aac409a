package service

import "errors"

var (
	ErrValidation       = errors.New("invalid submission")
	ErrStoreUnavailable = errors.New("report store is not configured")
	ErrStoreWrite       = errors.New("failed to save submission")
	ErrReportNotFound   = errors.New("report not found")
	ErrReportRead       = errors.New("failed to read report")
	ErrInvalidReference = errors.New("invalid report reference")
)
