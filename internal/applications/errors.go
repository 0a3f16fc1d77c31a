package applications

import "errors"

// ErrNotFound indicates the application does not exist.
var ErrNotFound = errors.New("application not found")
