package pubsubtrie

import "errors"

var (
	// ErrInvalidTopic is wrapped by every problem reported by ValidateFilter
	// and ValidateTopic.
	ErrInvalidTopic = errors.New("pubsubtrie: invalid topic")

	// ErrNoReply is returned by Request when no reply arrives before the
	// context is done.
	ErrNoReply = errors.New("pubsubtrie: no reply received")
)
