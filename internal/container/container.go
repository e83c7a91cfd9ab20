// Package container exposes compound files as trees of named directories and
// streams. Readers only ever see the Directory interface, so schedules can be
// decoded from a real compound file (FromReaderAt, Open) or from an in-memory
// tree assembled by tests (Memory).
package container

import (
	"slices"
	"strings"
)

// Directory is a named storage holding nested directories and streams.
type Directory interface {
	// Name returns the directory's own name.
	Name() string

	// Directory returns the direct child directory with the provided name.
	Directory(name string) (Directory, bool)

	// Stream returns the contents of the direct child stream with the
	// provided name. The returned slice is shared with the container and must
	// not be modified.
	Stream(name string) ([]byte, bool)

	// Entries returns the names of every direct child, directories and
	// streams alike, sorted.
	Entries() []string
}

// Container is the root Directory of a compound file.
type Container interface {
	Directory
	Close() error
}

type node struct {
	name    string
	dirs    map[string]*node
	streams map[string][]byte
}

func newNode(name string) *node {
	return &node{
		name:    name,
		dirs:    map[string]*node{},
		streams: map[string][]byte{},
	}
}

func (n *node) Name() string { return n.name }

func (n *node) Directory(name string) (Directory, bool) {
	d, ok := n.dirs[name]
	if !ok {
		return nil, false
	}
	return d, true
}

func (n *node) Stream(name string) ([]byte, bool) {
	s, ok := n.streams[name]
	return s, ok
}

func (n *node) Entries() []string {
	out := make([]string, 0, len(n.dirs)+len(n.streams))
	for k := range n.dirs {
		out = append(out, k)
	}
	for k := range n.streams {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// mkdirAll walks path from n, creating any missing directory.
func (n *node) mkdirAll(path []string) *node {
	cur := n
	for _, p := range path {
		next, ok := cur.dirs[p]
		if !ok {
			next = newNode(p)
			cur.dirs[p] = next
		}
		cur = next
	}
	return cur
}

// Walk returns the directory at the slash-separated path relative to d.
// An empty path returns d itself.
func Walk(d Directory, path string) (Directory, bool) {
	if path == "" {
		return d, true
	}
	cur := d
	for _, p := range strings.Split(path, "/") {
		next, ok := cur.Directory(p)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
