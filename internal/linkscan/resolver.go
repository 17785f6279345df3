package linkscan

import (
	"io"
	"strings"
)

// Resolver finds the download link for an issue file on a metadata page
type Resolver struct {
	scanner *Scanner
}

// NewResolver creates a Resolver backed by scanner.
// A nil scanner gets a fresh one.
func NewResolver(scanner *Scanner) *Resolver {
	if scanner == nil {
		scanner = NewScanner()
	}
	return &Resolver{scanner: scanner}
}

// Resolve returns the first link in doc whose target contains fragment.
// The boolean is false when no link matches; that is not an error.
func (r *Resolver) Resolve(doc, fragment string) (string, bool) {
	return r.ResolveReader(strings.NewReader(doc), fragment)
}

// ResolveReader is Resolve for a streamed document
func (r *Resolver) ResolveReader(doc io.Reader, fragment string) (string, bool) {
	for _, link := range r.scanner.Scan(doc) {
		if strings.Contains(link, fragment) {
			return link, true
		}
	}
	return "", false
}
