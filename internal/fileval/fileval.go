// Package fileval checks input files before they are validated: oversized
// files and files that are not UTF-8 text are rejected with typed errors.
package fileval

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"
)

// utf8BOM is stripped from the start of every source.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"%s: file too large (%d > %d bytes); increase [file-validation] max-file-size in .reval.toml to override",
		e.Path, e.Size, e.MaxSize,
	)
}

// NotUTF8Error is returned when a file is not valid UTF-8 text.
type NotUTF8Error struct {
	Path string
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *NotUTF8Error) Error() string {
	return fmt.Sprintf("%s: not valid UTF-8 text (invalid byte at offset %d)", e.Path, e.Offset)
}

// CheckSize fails with *FileTooLargeError when the file at path is larger
// than maxSize. A maxSize of 0 or less disables the check.
func CheckSize(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}
	return nil
}

// Decode checks that data is UTF-8 text and returns it without a leading
// byte order mark.
func Decode(path string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if off := invalidUTF8(data); off >= 0 {
		return "", &NotUTF8Error{Path: path, Offset: off}
	}
	return string(data), nil
}

// invalidUTF8 returns the offset of the first invalid sequence, or -1.
// A NUL byte counts as invalid since text sources never contain one.
func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		if data[i] == 0 {
			return i
		}
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// ReadFile runs the size check, reads the file and decodes it.
func ReadFile(path string, maxSize int64) (string, error) {
	if err := CheckSize(path, maxSize); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(path, data)
}
