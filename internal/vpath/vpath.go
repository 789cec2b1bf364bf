// Package vpath turns untrusted client path strings into validated
// structural form. It is pure string handling with no I/O; the remote
// store never sees a raw path.
package vpath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tlesnik44-code/origocode/internal/domain"
)

// projectNamePattern restricts project names so they can be used as
// literals in remote query filters without escaping concerns.
var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Path is the validated structural form of a client-supplied path,
// relative to the project root.
type Path struct {
	// Folders is the chain of folder names, outermost first
	Folders []string

	// Leaf is the file name; empty when the path denotes a folder
	Leaf string

	// IsFolder reports folder intent (trailing separator or empty path)
	IsFolder bool
}

// Resolve normalizes and validates a raw path string.
//
// Backslashes are accepted as separators, surrounding whitespace and a
// single leading separator are dropped, and repeated separators collapse.
// A trailing separator marks folder intent. The empty result denotes the
// project root. Segments equal to "." or ".." are rejected with
// domain.ErrInvalidPath.
func Resolve(raw string) (Path, error) {
	s := strings.ReplaceAll(raw, "\\", "/")
	s = strings.TrimSpace(s)

	s = strings.TrimPrefix(s, "/")

	isFolder := false
	if strings.HasSuffix(s, "/") {
		isFolder = true
		s = strings.TrimRight(s, "/")
	}

	if s == "" {
		// Project root, the only valid zero-segment path.
		return Path{IsFolder: true}, nil
	}

	var segments []string
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			continue
		}
		if seg == "." || seg == ".." {
			return Path{}, fmt.Errorf("%w: segment %q not allowed", domain.ErrInvalidPath, seg)
		}
		if strings.ContainsAny(seg, "/\\") {
			return Path{}, fmt.Errorf("%w: segment %q contains separator", domain.ErrInvalidPath, seg)
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return Path{IsFolder: true}, nil
	}

	if isFolder {
		return Path{Folders: segments, IsFolder: true}, nil
	}
	return Path{
		Folders: segments[:len(segments)-1],
		Leaf:    segments[len(segments)-1],
	}, nil
}

// ValidateProjectName checks a project identifier:
// 1-64 characters from [A-Za-z0-9_-].
func ValidateProjectName(name string) error {
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidProjectName, name)
	}
	return nil
}

// ValidateLeafName checks a plain name (e.g. a rename target): non-empty
// and free of path separators.
func ValidateLeafName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: invalid name %q", domain.ErrInvalidPath, name)
	}
	return nil
}

// IsRoot reports whether p denotes the project root itself.
func (p Path) IsRoot() bool {
	return len(p.Folders) == 0 && p.Leaf == ""
}

// AllSegments returns the folder chain including the leaf, if any.
// Folder-only operations (list, mkdir) treat every segment as a folder.
func (p Path) AllSegments() []string {
	if p.Leaf == "" {
		return p.Folders
	}
	segs := make([]string, 0, len(p.Folders)+1)
	segs = append(segs, p.Folders...)
	return append(segs, p.Leaf)
}

// String renders the canonical round-trip form: "a/b/c" for files,
// "a/b/c/" for folders, "" for the project root.
func (p Path) String() string {
	if p.IsRoot() {
		return ""
	}
	if p.IsFolder {
		return strings.Join(p.Folders, "/") + "/"
	}
	return strings.Join(append(append([]string{}, p.Folders...), p.Leaf), "/")
}
