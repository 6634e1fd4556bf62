package stream

import "errors"

var (
	// ErrUnknownCommand is returned for an op the controller does not know.
	ErrUnknownCommand = errors.New("stream: unknown command")

	// ErrInvalidCommand is returned for malformed commands or missing arguments.
	ErrInvalidCommand = errors.New("stream: invalid command")

	// ErrRejected is returned when the studio refused a well-formed command,
	// e.g. an edit while playing.
	ErrRejected = errors.New("stream: command rejected")

	// ErrFrameTooLarge is returned when a frame holds more values than its
	// header can count.
	ErrFrameTooLarge = errors.New("stream: frame too large")

	// ErrQueueFull is returned when commands arrive faster than frames run.
	ErrQueueFull = errors.New("stream: command queue full")
)
