package vo

import (
	"errors"
	"fmt"
)

// FileSize represents a byte count reported for downloaded issues.
type FileSize struct {
	bytes int64
}

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

var (
	ErrNegativeSize = errors.New("file size cannot be negative")
)

// NewFileSize creates a new FileSize value object.
func NewFileSize(bytes int64) (FileSize, error) {
	if bytes < 0 {
		return FileSize{}, ErrNegativeSize
	}
	return FileSize{bytes: bytes}, nil
}

// Bytes returns the size in bytes.
func (fs FileSize) Bytes() int64 {
	return fs.bytes
}

// MB returns the size in megabytes.
func (fs FileSize) MB() float64 {
	return float64(fs.bytes) / float64(MB)
}

// IsZero returns true if the size is zero.
func (fs FileSize) IsZero() bool {
	return fs.bytes == 0
}

// String formats the size the way the download log reports it, in MB
// below a gigabyte and GB above.
func (fs FileSize) String() string {
	if fs.bytes < GB {
		return fmt.Sprintf("%.2f MB", fs.MB())
	}
	return fmt.Sprintf("%.2f GB", float64(fs.bytes)/float64(GB))
}
