// Package mpp decodes Microsoft Project binary schedule files (MPP8 through
// MPP14) into a schedule.Project.
package mpp

import (
	"errors"
	"fmt"
	"io"

	"github.com/heyvito/mpp/internal/container"
	"github.com/heyvito/mpp/internal/reader"
	"github.com/heyvito/mpp/schedule"
)

// ReadFile decodes the schedule file at path. The file is mapped into memory
// and held under a shared lock for the duration of the read.
func ReadFile(path string, config Config) (*schedule.Project, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := container.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}

	p, err := read(c, config)
	if closeErr := c.Close(); closeErr != nil {
		config.GetLogger().Error(closeErr, "Failed releasing file", "path", path)
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return p, nil
}

// ReadFrom decodes the compound file provided by r. r is only used during
// the call.
func ReadFrom(r io.ReaderAt, config Config) (*schedule.Project, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c, err := container.FromReaderAt(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open compound file: %w", err)
	}
	defer func() { _ = c.Close() }()

	p, err := read(c, config)
	if err != nil {
		return nil, fmt.Errorf("cannot decode compound file: %w", err)
	}
	return p, nil
}

func read(root container.Directory, config Config) (*schedule.Project, error) {
	return reader.Read(root, config)
}
