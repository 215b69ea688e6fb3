package device

import "errors"

// ErrUnavailable is returned when the binary was built without audio
// support.
var ErrUnavailable = errors.New("audio not available in nocgo build")
