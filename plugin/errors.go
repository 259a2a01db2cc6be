package plugin

import "errors"

// Errors returned by plugin configuration and interleaved processing.
var (
	ErrInvalidChannelCount = errors.New("plugin: channel count out of range")
	ErrChannelMismatch     = errors.New("plugin: input and output channel counts differ")
	ErrNilBuffer           = errors.New("plugin: buffer or format is nil")
	ErrPartialFrame        = errors.New("plugin: buffer length is not a whole number of frames")
)
