package pubsubtrie

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Topic syntax.
const (
	// Separator splits a topic into segments.
	Separator = "/"

	// SingleLevelWildcard matches exactly one segment.
	SingleLevelWildcard = "+"

	// MultiLevelWildcard matches one or more trailing segments, and the bare
	// prefix it is attached to.
	MultiLevelWildcard = "#"
)

// SplitTopic splits a topic on Separator. No normalization is applied: an empty
// topic yields one empty segment and a leading separator yields an empty first
// segment.
func SplitTopic(topic string) []string {
	return strings.Split(topic, Separator)
}

// isWildcard reports whether a whole segment is a reserved wildcard.
func isWildcard(segment string) bool {
	return segment == SingleLevelWildcard || segment == MultiLevelWildcard
}

// ValidateFilter checks a subscription filter against the strict MQTT-style
// rules. The broker itself accepts any filter; callers that want to reject
// odd patterns before subscribing can use this. Every problem found is
// reported, each wrapping ErrInvalidTopic.
func ValidateFilter(filter string) error {
	if filter == "" {
		return fmt.Errorf("%w: empty filter", ErrInvalidTopic)
	}

	var err error
	segments := SplitTopic(filter)
	for i, seg := range segments {
		if seg == MultiLevelWildcard && i != len(segments)-1 {
			err = multierr.Append(err, fmt.Errorf("%w: %q must be the last segment of %q", ErrInvalidTopic, MultiLevelWildcard, filter))
		}
		if !isWildcard(seg) && strings.ContainsAny(seg, SingleLevelWildcard+MultiLevelWildcard) {
			err = multierr.Append(err, fmt.Errorf("%w: segment %d (%q) of %q mixes a wildcard with literal text", ErrInvalidTopic, i, seg, filter))
		}
	}
	return err
}

// ValidateTopic checks a publish topic. Publish topics must be non-empty and
// must not use wildcard segments.
func ValidateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidTopic)
	}

	var err error
	for i, seg := range SplitTopic(topic) {
		if isWildcard(seg) {
			err = multierr.Append(err, fmt.Errorf("%w: segment %d of publish topic %q is a wildcard", ErrInvalidTopic, i, topic))
		}
	}
	return err
}
