package render

import "errors"

// ErrNotFound is returned when a fragment's subject is not in the view
var ErrNotFound = errors.New("render: not found")
