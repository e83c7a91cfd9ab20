package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heyvito/gommap"
	"github.com/richardlehane/mscfb"

	mpperrors "github.com/heyvito/mpp/errors"
	"github.com/heyvito/mpp/internal/flock"
)

const rootEntryName = "Root Entry"

type compound struct {
	*node
	closer func() error
}

func (c *compound) Close() error {
	if c.closer == nil {
		return nil
	}
	fn := c.closer
	c.closer = nil
	return fn()
}

// FromReaderAt reads every entry of the compound file provided by r,
// buffering stream contents.
func FromReaderAt(r io.ReaderAt) (Container, error) {
	root, err := load(r)
	if err != nil {
		return nil, err
	}
	return &compound{node: root}, nil
}

func load(r io.ReaderAt) (*node, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, mpperrors.ReadFailure{Path: rootEntryName, Err: err}
	}

	root := newNode(rootEntryName)
	var entry *mscfb.File
	for entry, err = doc.Next(); err == nil; entry, err = doc.Next() {
		path := entry.Path
		if len(path) > 0 && path[0] == rootEntryName {
			path = path[1:]
		}
		parent := root.mkdirAll(path)

		if entry.FileInfo().IsDir() {
			parent.mkdirAll([]string{entry.Name})
			continue
		}

		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, mpperrors.ReadFailure{Path: strings.Join(append(path, entry.Name), "/"), Err: err}
		}
		parent.streams[entry.Name] = buf
	}
	if !errors.Is(err, io.EOF) {
		return nil, mpperrors.ReadFailure{Path: rootEntryName, Err: err}
	}
	return root, nil
}

// Open maps the compound file at path into memory and decodes its directory
// tree. A shared advisory lock is held on the file until Close is called.
func Open(path string) (Container, error) {
	lock, err := flock.New(path, flock.Shared)
	if err != nil {
		return nil, mpperrors.ReadFailure{Path: path, Err: err}
	}
	if err = lock.Lock(); err != nil {
		_ = lock.Close()
		return nil, mpperrors.ReadFailure{Path: path, Err: err}
	}

	stat, err := lock.File().Stat()
	switch {
	case err != nil:
		_ = lock.Close()
		return nil, mpperrors.ReadFailure{Path: path, Err: err}
	case stat.IsDir():
		_ = lock.Close()
		return nil, mpperrors.ReadFailure{Path: path, Err: fmt.Errorf("%s: is a directory", path)}
	case stat.Size() == 0:
		_ = lock.Close()
		return nil, mpperrors.ReadFailure{Path: path, Err: io.ErrUnexpectedEOF}
	}

	mapped, err := gommap.Map(lock.File().Fd(), gommap.PROT_READ, gommap.MAP_SHARED)
	if err != nil {
		_ = lock.Close()
		return nil, mpperrors.ReadFailure{Path: path, Err: err}
	}

	root, err := load(bytes.NewReader(mapped))
	if err != nil {
		_ = mapped.UnsafeUnmap()
		_ = lock.Close()
		return nil, err
	}

	return &compound{
		node: root,
		closer: func() error {
			return errors.Join(mapped.UnsafeUnmap(), lock.Close())
		},
	}, nil
}
