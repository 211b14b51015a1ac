package service

import "errors"

var (
	ErrUnknownTask     = errors.New("unknown task")
	ErrUnknownInstance = errors.New("unknown instance")
	ErrNoGame          = errors.New("no game started for this log")
)
