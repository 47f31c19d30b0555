package event

import "errors"

var (
	ErrChannelClosed = errors.New("event channel closed")
	ErrChannelFull   = errors.New("event channel full")
)
