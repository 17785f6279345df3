package port

import (
	"context"
	"io"
)

// PageClient performs the two GET requests made for every issue
type PageClient interface {
	// FetchPage retrieves a whole document, typically the issue metadata page
	FetchPage(ctx context.Context, url string) ([]byte, error)

	// OpenStream starts a streamed download; the caller must close the body
	OpenStream(ctx context.Context, url string) (io.ReadCloser, error)
}
