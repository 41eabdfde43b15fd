// Package pathutil maps filesystem names onto absolute volume paths.
package pathutil

import (
	"path"
	"strings"
)

// Normalize cleans a name relative to the filesystem root.
// It applies: Clean → Trim slashes
// Returns "." for empty paths and the root.
func Normalize(name string) string {
	if name == "" {
		return "."
	}

	name = strings.Trim(path.Clean("/"+name), "/")
	if name == "" {
		return "."
	}

	return name
}

// NormalizePrefix normalizes a root prefix:
// - Resolves "." and ".." without escaping the volume root
// - Removes leading and trailing slashes
// - Returns empty string if prefix is "." or empty.
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}

	return strings.Trim(path.Clean("/"+prefix), "/")
}

// JoinPath joins a prefix with a name to create an absolute volume path.
// Names cannot climb above the prefix.
func JoinPath(prefix, name string) string {
	name = Normalize(name)

	if name == "." {
		return "/" + prefix
	}

	if prefix == "" {
		return "/" + name
	}

	return "/" + prefix + "/" + name
}

// BuildEntryPath constructs the name of a directory entry given its parent.
func BuildEntryPath(parent, entry string) string {
	if parent == "" || parent == "." {
		return entry
	}
	return parent + "/" + entry
}
