package customer

import "errors"

var ErrProfileNotFound = errors.New("customer profile not found")
