// Package linkscan extracts hyperlink targets from HTML documents and picks
// the one that points at an issue file.
package linkscan

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Scanner collects anchor targets from HTML.
// It keeps no state between calls and is safe to reuse.
type Scanner struct{}

// NewScanner creates a new Scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan tokenizes r and returns the href of every anchor in document order.
// Malformed markup never fails the scan; whatever was collected before the
// tokenizer gave up is returned.
func (s *Scanner) Scan(r io.Reader) []string {
	links := []string{}
	z := html.NewTokenizer(r)

	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr || string(name) != "a" {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					links = append(links, string(val))
				}
				if !more {
					break
				}
			}
		}
	}
}

// ScanString is Scan for an in-memory document
func (s *Scanner) ScanString(doc string) []string {
	return s.Scan(strings.NewReader(doc))
}
