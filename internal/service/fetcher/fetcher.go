package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
	"github.com/vertextoedge/magpi-downloader/internal/linkscan"
	"github.com/vertextoedge/magpi-downloader/internal/port"
	"github.com/vertextoedge/magpi-downloader/internal/util/ratelimiter"
	"go.uber.org/zap"
)

// DefaultChunkSize is the size of one streamed read
const DefaultChunkSize = 1024 * 1024

// Config holds fetcher configuration
type Config struct {
	// ChunkSize is the size of one body read (default: 1 MiB)
	ChunkSize int

	// ExactByteCount adds the real length of each chunk instead of ChunkSize
	ExactByteCount bool

	// ProgressInterval throttles debug progress lines
	ProgressInterval time.Duration
}

// Fetcher downloads one issue: metadata page, link lookup, streamed file
type Fetcher struct {
	config   *Config
	catalog  domain.Catalog
	client   port.PageClient
	storage  port.IssueStorage
	resolver *linkscan.Resolver
	logger   *zap.Logger
}

// Ensure Fetcher implements port.IssueFetcher
var _ port.IssueFetcher = (*Fetcher)(nil)

// New creates a new Fetcher
func New(
	cfg *Config,
	catalog domain.Catalog,
	client port.PageClient,
	storage port.IssueStorage,
	resolver *linkscan.Resolver,
	logger *zap.Logger,
) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if resolver == nil {
		resolver = linkscan.NewResolver(nil)
	}
	return &Fetcher{
		config:   cfg,
		catalog:  catalog,
		client:   client,
		storage:  storage,
		resolver: resolver,
		logger:   logger,
	}
}

// FetchIssue downloads the issue at the 0-based index.
// Every failure is returned as a failure outcome; nothing here aborts a batch.
func (f *Fetcher) FetchIssue(ctx context.Context, index int) domain.DownloadOutcome {
	started := time.Now()
	issue := f.catalog.Describe(index)
	log := f.logger.With(zap.String("issue", issue.Number))

	outcome := f.fetch(ctx, issue, log)
	outcome.Duration = time.Since(started)
	return outcome
}

func (f *Fetcher) fetch(ctx context.Context, issue domain.IssueDescriptor, log *zap.Logger) domain.DownloadOutcome {
	log.Info("downloading metadata", zap.String("url", issue.MetadataURL))
	page, err := f.client.FetchPage(ctx, issue.MetadataURL)
	if err != nil {
		return domain.Failed(issue, "", domain.NewMetadataFetchError(err))
	}

	log.Debug("extracting download link", zap.Int("page_bytes", len(page)))
	href, ok := f.resolver.Resolve(string(page), issue.FileName)
	if !ok {
		return domain.Failed(issue, "", domain.NewLinkNotFoundError(issue.FileName))
	}

	downloadURL, err := resolveReference(issue.MetadataURL, href)
	if err != nil {
		return domain.Failed(issue, "", domain.NewDownloadError(err))
	}

	log.Info("downloading file",
		zap.String("file", issue.FileName),
		zap.String("url", downloadURL))

	body, err := f.client.OpenStream(ctx, downloadURL)
	if err != nil {
		return domain.Failed(issue, "", domain.NewDownloadError(err))
	}
	defer body.Close()

	out, path, err := f.storage.Create(issue.FileName)
	if err != nil {
		return domain.Failed(issue, "", domain.NewWriteError(err))
	}

	progress := ratelimiter.New(f.config.ProgressInterval)
	written, copyErr := copyChunks(out, body, f.config.ChunkSize, f.config.ExactByteCount, func(total int64) {
		if progress.Allow() {
			log.Debug("download progress", zap.Int64("bytes", total))
		}
	})
	closeErr := out.Close()

	if copyErr != nil {
		log.Warn("partial file left on disk", zap.String("path", path))
		return domain.Failed(issue, path, copyErr)
	}
	if closeErr != nil {
		return domain.Failed(issue, path, domain.NewWriteError(closeErr))
	}

	return domain.Succeeded(issue, path, written)
}

// resolveReference makes href absolute relative to the metadata page
func resolveReference(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid metadata URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid download link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
