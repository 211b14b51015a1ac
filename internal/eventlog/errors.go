package eventlog

import "errors"

var (
	// ErrMissingEvents indicates the event file has no "events" field.
	ErrMissingEvents = errors.New("event file has no events array")

	// ErrEventsNotArray indicates "events" is present but is not an array.
	ErrEventsNotArray = errors.New("event file events field is not an array")

	// ErrMissingInstances indicates the catalog has no "instances" array.
	ErrMissingInstances = errors.New("catalog has no instances array")
)
