package storage

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"
)

// ErrInvalidUTF8 marks a file whose contents are not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// ReadError is the single I/O failure class for reading an input file.
// Open, read and decoding failures all collapse into it.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading file %s: %s", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	err := os.WriteFile(filePath, content, 0644)
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}

	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: err}
	}
	return data, nil
}

// ReadText reads the whole file and checks it decodes as UTF-8.
func (s *Storage) ReadText(filePath string) (string, error) {
	data, err := s.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &ReadError{Path: filePath, Err: ErrInvalidUTF8}
	}
	return string(data), nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
