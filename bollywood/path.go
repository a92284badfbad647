package bollywood

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned when a path string is neither the root
// "/user" nor of the form /user(/segment)+.
var ErrInvalidPath = errors.New("bollywood: invalid actor path")

// rootSegment is the reserved root for all top-level actors.
const rootSegment = "user"

// Path is a non-empty, ordered sequence of segments rooted at /user.
// Paths are immutable; equality is structural.
type Path struct {
	segments []string
}

// RootPath returns the reserved top-level path "/user".
func RootPath() Path {
	return Path{segments: []string{rootSegment}}
}

// ParsePath parses a string of the form "/user/a/b" into a Path.
func ParsePath(raw string) (Path, error) {
	if !strings.HasPrefix(raw, "/"+rootSegment) {
		return Path{}, ErrInvalidPath
	}
	trimmed := strings.TrimPrefix(raw, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] != rootSegment {
		return Path{}, ErrInvalidPath
	}
	for _, p := range parts {
		if p == "" || strings.Contains(p, "/") {
			return Path{}, ErrInvalidPath
		}
	}
	segments := make([]string, len(parts))
	copy(segments, parts)
	return Path{segments: segments}, nil
}

// MustParsePath is ParsePath but panics on error; intended for literal
// paths known at compile time.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Child derives a new path by appending name. Pure, O(depth).
func (p Path) Child(name string) Path {
	segments := make([]string, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = name
	return Path{segments: segments}
}

// Parent returns the parent path. The root path has no parent.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) <= 1 {
		return Path{}, false
	}
	segments := make([]string, len(p.segments)-1)
	copy(segments, p.segments[:len(p.segments)-1])
	return Path{segments: segments}, true
}

// String renders the path as "/user/a/b".
func (p Path) String() string {
	return "/" + strings.Join(p.segments, "/")
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether p is equal to or nested under prefix.
func (p Path) IsDescendantOf(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i := range prefix.segments {
		if prefix.segments[i] != p.segments[i] {
			return false
		}
	}
	return true
}
