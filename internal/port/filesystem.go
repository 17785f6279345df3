package port

import "io"

// IssueStorage defines where downloaded issues are written
type IssueStorage interface {
	// Folder returns the output directory
	Folder() string

	// Create ensures the output directory exists and creates or truncates
	// the file for fileName.
	// Returns: writer, local path, error
	Create(fileName string) (io.WriteCloser, string, error)
}
