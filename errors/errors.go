package errors

import "fmt"

// PasswordProtected indicates that the file requires a password to be opened,
// and either none was provided through the reader configuration, or the
// provided one does not match the one stored in the file.
type PasswordProtected struct {
	Format string
}

func (p PasswordProtected) Error() string {
	if p.Format == "" {
		return "file is password protected"
	}
	return fmt.Sprintf("%s file is password protected", p.Format)
}

// MissingRegion indicates that a storage region required by the file's schema
// generation is not present in the container. Path holds the slash-separated
// location of the missing directory or stream.
type MissingRegion struct {
	Path string
}

func (m MissingRegion) Error() string {
	return fmt.Sprintf("required region %q not found", m.Path)
}

// UnsupportedFormat indicates that the container holds a schedule written by a
// version of the application this package cannot decode, or something that is
// not a schedule at all.
type UnsupportedFormat struct {
	Format string
}

func (u UnsupportedFormat) Error() string {
	if u.Format == "" {
		return "unsupported file format"
	}
	return fmt.Sprintf("unsupported file format %q", u.Format)
}

// CorruptFormat indicates that a required region is present, but its contents
// cannot be interpreted (bad magic numbers, truncated headers).
type CorruptFormat struct {
	Region string
	Reason string
}

func (c CorruptFormat) Error() string {
	return fmt.Sprintf("%s: corrupt data: %s", c.Region, c.Reason)
}

// ReadFailure wraps an I/O error raised while reading the underlying container
// or file at Path.
type ReadFailure struct {
	Path string
	Err  error
}

func (r ReadFailure) Error() string {
	return fmt.Sprintf("failed reading %s: %s", r.Path, r.Err)
}

func (r ReadFailure) Unwrap() error {
	return r.Err
}
