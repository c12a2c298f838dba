package location

import (
	"path"
	"strings"

	snaperrors "github.com/mjansson/snaplink/internal/errors"
)

type selectorKind int

const (
	entireTree selectorKind = iota
	fileSelector
	directorySelector
)

// Selector restricts a transfer to a single file or subdirectory of a
// location's root. The zero value selects the entire tree.
//
// Selector paths are always relative to the location root. A file
// selector never ends with a separator; a directory selector always
// does. Leading separators are stripped at construction.
type Selector struct {
	kind selectorKind
	rel  string
}

// EntireTree returns the selector covering a location's whole tree.
func EntireTree() Selector {
	return Selector{}
}

// SelectFile returns a selector for a single file at the given path
// relative to the location root. The path must not end with a separator.
func SelectFile(rel string) (Selector, error) {
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return Selector{}, snaperrors.Wrap(snaperrors.ErrInvalidSelector, "file path is empty")
	}
	if strings.HasSuffix(rel, "/") {
		return Selector{}, snaperrors.Wrapf(snaperrors.ErrInvalidSelector,
			"file path %q must not end with a separator", rel)
	}
	return Selector{kind: fileSelector, rel: rel}, nil
}

// SelectDirectory returns a selector for a subdirectory at the given
// path relative to the location root. The path must end with a separator.
func SelectDirectory(rel string) (Selector, error) {
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return Selector{}, snaperrors.Wrap(snaperrors.ErrInvalidSelector, "directory path is empty")
	}
	if !strings.HasSuffix(rel, "/") {
		return Selector{}, snaperrors.Wrapf(snaperrors.ErrInvalidSelector,
			"directory path %q must end with a separator", rel)
	}
	return Selector{kind: directorySelector, rel: rel}, nil
}

// ParseSelector interprets a user-supplied path as a selector. An empty
// string selects the entire tree; a trailing separator selects a
// directory; anything else selects a file.
func ParseSelector(s string) (Selector, error) {
	switch {
	case strings.TrimLeft(s, "/") == "":
		return EntireTree(), nil
	case strings.HasSuffix(s, "/"):
		return SelectDirectory(s)
	default:
		return SelectFile(s)
	}
}

// IsEntireTree reports whether the selector covers the whole tree.
func (s Selector) IsEntireTree() bool { return s.kind == entireTree }

// IsFile reports whether the selector names a single file.
func (s Selector) IsFile() bool { return s.kind == fileSelector }

// IsDirectory reports whether the selector names a subdirectory.
func (s Selector) IsDirectory() bool { return s.kind == directorySelector }

// Rel returns the selector path relative to the location root. It is
// empty for the whole tree, and keeps the trailing separator for
// directory selectors.
func (s Selector) Rel() string { return s.rel }

// Parent returns the directory selector for a file selector's parent
// directory. A file at the root of the location parents to the entire
// tree. Parent of any other selector is the selector itself.
//
// The destination side of a single-file transfer is addressed by the
// file's parent directory: the transfer tool drops a single source file
// inside whatever directory the destination names, so naming the parent
// keeps the file at its position relative to the backup root.
func (s Selector) Parent() Selector {
	if s.kind != fileSelector {
		return s
	}
	dir := path.Dir(s.rel)
	if dir == "." || dir == "/" {
		return EntireTree()
	}
	return Selector{kind: directorySelector, rel: dir + "/"}
}

// String implements fmt.Stringer for diagnostics.
func (s Selector) String() string {
	if s.kind == entireTree {
		return "."
	}
	return s.rel
}
