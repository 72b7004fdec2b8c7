package contract

import "errors"

var (
	ErrClassification = errors.New("intent classification failed")
	ErrSource         = errors.New("data source request failed")
	ErrValidation     = errors.New("validation failed")
	ErrNoMatch        = errors.New("no matching data")
)
