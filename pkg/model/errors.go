package model

import "errors"

// ErrUnknownField is returned when a field name is not part of the catalog.
var ErrUnknownField = errors.New("model: unknown field")

// ErrInvalidAnswer is returned for yes/no values that cannot be parsed.
var ErrInvalidAnswer = errors.New("model: invalid answer")
