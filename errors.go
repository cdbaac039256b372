package rotaug

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("decode failed")
	ErrEmptyImage        = errors.New("empty image")
	ErrInvalidAngleRange = errors.New("invalid angle range")
	ErrMalformedLog      = errors.New("malformed angle log")
	ErrInvalidOptions    = errors.New("invalid options")
)
