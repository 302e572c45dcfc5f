package client

import "errors"

var (
	ErrUnavailable = errors.New("gateway unavailable")
	ErrRejected    = errors.New("gateway rejected request")
)
