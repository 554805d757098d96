// Package topic defines hierarchical event topics using dot notation.
//
// Examples: "keyboard.willShow", "touch.start", "scroll.momentum.end".
package topic

import "strings"

// Topic represents a hierarchical event type.
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more trailing segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// IsValid returns true if the topic is non-empty and has no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the topic with its last segment removed, or "" at the root.
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Child returns a child topic by appending a segment.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// Base returns the last segment of the topic.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// Matches reports whether the topic matches the given pattern. Patterns use
// "*" for exactly one segment and a trailing "**" for zero or more segments.
// A pattern without wildcards matches only itself.
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}

	segs := t.Segments()
	pats := pattern.Segments()

	for i, p := range pats {
		if p == WildcardMulti {
			// Trailing multi-wildcard swallows the rest.
			return i == len(pats)-1
		}
		if i >= len(segs) {
			return false
		}
		if p != WildcardSingle && p != segs[i] {
			return false
		}
	}

	return len(segs) == len(pats)
}
