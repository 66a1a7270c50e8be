package types

import "errors"

var (
	ErrNoProfilesFound      = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrNoValidProfilesFound = errors.New("none of the specified profiles were found in AWS configuration")
	ErrNoTrendData          = errors.New("no trend data could be retrieved for the selected profiles")
	ErrUnknownDataset       = errors.New("unknown dataset kind")
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrInvalidConfig        = errors.New("invalid configuration")
)
