package splendir

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind enumerates the failures a scan can report to its caller.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindPathNotFound
	KindNotADirectory
	KindPermissionDenied
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindPathNotFound:
		return "path not found"
	case KindNotADirectory:
		return "not a directory"
	case KindPermissionDenied:
		return "permission denied"
	case KindCancelled:
		return "scan cancelled"
	default:
		return "I/O error"
	}
}

// Sentinels for errors.Is matching against a *ScanError.
var (
	ErrIO               = &ScanError{Kind: KindIO}
	ErrPathNotFound     = &ScanError{Kind: KindPathNotFound}
	ErrNotADirectory    = &ScanError{Kind: KindNotADirectory}
	ErrPermissionDenied = &ScanError{Kind: KindPermissionDenied}
	ErrCancelled        = &ScanError{Kind: KindCancelled}
)

// ScanError is the error type returned by every scan operation.
type ScanError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *ScanError) Unwrap() error { return e.Err }

// Is reports a match on Kind so that errors.Is(err, ErrCancelled) works for
// any cancelled scan regardless of path or cause.
func (e *ScanError) Is(target error) bool {
	t, ok := target.(*ScanError)
	return ok && t.Kind == e.Kind
}

func newScanError(kind ErrorKind, path string, err error) *ScanError {
	return &ScanError{Kind: kind, Path: path, Err: err}
}

func cancelledError(path string) error {
	return newScanError(KindCancelled, path, nil)
}

// classifyError maps an OS error onto the scan error surface.
func classifyError(path string, err error) error {
	if err == nil {
		return nil
	}
	var se *ScanError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newScanError(KindPathNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return newScanError(KindPermissionDenied, path, err)
	default:
		return newScanError(KindIO, path, err)
	}
}
