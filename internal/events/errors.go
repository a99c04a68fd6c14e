package events

import "errors"

var (
	// ErrDispatcherClosed возвращается при публикации после Close
	ErrDispatcherClosed = errors.New("events: dispatcher closed")
)
