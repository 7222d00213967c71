package domain

import "github.com/pkg/errors"

// ErrValidation marks request bodies that fail required-field or type checks.
var ErrValidation = errors.New("validation failed")
