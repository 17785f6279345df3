package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vertextoedge/magpi-downloader/internal/adapter/filesystem"
	"github.com/vertextoedge/magpi-downloader/internal/adapter/web"
	"github.com/vertextoedge/magpi-downloader/internal/domain"
)

const mib = 1024 * 1024

// magazineSite serves metadata pages under /issues/{nr}/pdf and files under /files/
type magazineSite struct {
	pages map[string]string
	files map[string][]byte
}

func (s *magazineSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if page, ok := s.pages[r.URL.Path]; ok {
		io.WriteString(w, page)
		return
	}
	if file, ok := s.files[r.URL.Path]; ok {
		w.Write(file)
		return
	}
	http.NotFound(w, r)
}

func newFetcher(t *testing.T, siteURL, folder string, cfg *Config) *Fetcher {
	t.Helper()
	catalog := domain.Catalog{
		MetadataURLTemplate: siteURL + "/issues/%s/pdf",
		FileNameTemplate:    "MagPi%s.pdf",
		Count:               92,
	}
	return New(cfg, catalog, web.NewClient(nil), filesystem.NewManager(folder), nil, zaptest.NewLogger(t))
}

func TestFetcher_FetchIssue(t *testing.T) {
	t.Run("relative link success", func(t *testing.T) {
		content := bytes.Repeat([]byte("p"), 2*mib)
		site := &magazineSite{
			pages: map[string]string{"/issues/01/pdf": `<html><a href="/">home</a><a href="/files/MagPi01.pdf">Download</a></html>`},
			files: map[string][]byte{"/files/MagPi01.pdf": content},
		}
		srv := httptest.NewServer(site)
		defer srv.Close()

		folder := filepath.Join(t.TempDir(), "MagPi")
		outcome := newFetcher(t, srv.URL, folder, nil).FetchIssue(context.Background(), 0)

		require.True(t, outcome.IsSuccess(), outcome.Reason)
		assert.Equal(t, int64(2*mib), outcome.BytesWritten)
		assert.Equal(t, "MagPi01.pdf", outcome.Issue.FileName)
		assert.Equal(t, filepath.Join(folder, "MagPi01.pdf"), outcome.Path)

		data, err := os.ReadFile(outcome.Path)
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("absolute link to another host", func(t *testing.T) {
		cdn := httptest.NewServer(&magazineSite{files: map[string][]byte{"/cdn/MagPi12.pdf": []byte("pdf")}})
		defer cdn.Close()

		site := &magazineSite{pages: map[string]string{
			"/issues/12/pdf": fmt.Sprintf(`<a href="%s/cdn/MagPi12.pdf">pdf</a>`, cdn.URL),
		}}
		srv := httptest.NewServer(site)
		defer srv.Close()

		outcome := newFetcher(t, srv.URL, t.TempDir(), nil).FetchIssue(context.Background(), 11)

		require.True(t, outcome.IsSuccess(), outcome.Reason)
		assert.Equal(t, "12", outcome.Issue.Number)
		assert.Equal(t, int64(DefaultChunkSize), outcome.BytesWritten)
	})

	t.Run("byte count approximation", func(t *testing.T) {
		site := &magazineSite{
			pages: map[string]string{"/issues/03/pdf": `<a href="/files/MagPi03.pdf">pdf</a>`},
			files: map[string][]byte{"/files/MagPi03.pdf": bytes.Repeat([]byte("x"), 2*mib+mib/2)},
		}
		srv := httptest.NewServer(site)
		defer srv.Close()

		approx := newFetcher(t, srv.URL, t.TempDir(), nil).FetchIssue(context.Background(), 2)
		exact := newFetcher(t, srv.URL, t.TempDir(), &Config{ExactByteCount: true}).FetchIssue(context.Background(), 2)

		require.True(t, approx.IsSuccess(), approx.Reason)
		require.True(t, exact.IsSuccess(), exact.Reason)
		assert.Equal(t, int64(3*mib), approx.BytesWritten)
		assert.Equal(t, int64(2*mib+mib/2), exact.BytesWritten)
	})

	t.Run("no anchors on metadata page", func(t *testing.T) {
		site := &magazineSite{pages: map[string]string{"/issues/02/pdf": `<html><body>Coming soon</body></html>`}}
		srv := httptest.NewServer(site)
		defer srv.Close()

		folder := filepath.Join(t.TempDir(), "MagPi")
		outcome := newFetcher(t, srv.URL, folder, nil).FetchIssue(context.Background(), 1)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, domain.StageResolve, domain.StageOf(outcome.Err))
		assert.ErrorIs(t, outcome.Err, domain.ErrLinkNotFound)
		assert.Equal(t, "MagPi02.pdf", outcome.Issue.FileName)
		assert.Empty(t, outcome.Path)

		_, err := os.Stat(folder)
		assert.True(t, os.IsNotExist(err), "folder must not be created when nothing is downloaded")
	})

	t.Run("metadata page not found", func(t *testing.T) {
		srv := httptest.NewServer(&magazineSite{})
		defer srv.Close()

		outcome := newFetcher(t, srv.URL, t.TempDir(), nil).FetchIssue(context.Background(), 4)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, domain.StageMetadata, domain.StageOf(outcome.Err))
		assert.ErrorIs(t, outcome.Err, domain.ErrUnexpectedStatus)
		assert.NotEmpty(t, outcome.Reason)
	})

	t.Run("download link returns error status", func(t *testing.T) {
		site := &magazineSite{pages: map[string]string{"/issues/05/pdf": `<a href="/files/MagPi05.pdf">pdf</a>`}}
		srv := httptest.NewServer(site)
		defer srv.Close()

		outcome := newFetcher(t, srv.URL, t.TempDir(), nil).FetchIssue(context.Background(), 4)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, domain.StageDownload, domain.StageOf(outcome.Err))
	})

	t.Run("truncated body leaves partial file", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/issues/06/pdf", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `<a href="/files/MagPi06.pdf">pdf</a>`)
		})
		mux.HandleFunc("/files/MagPi06.pdf", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "1000")
			w.Write([]byte("only part"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		folder := t.TempDir()
		outcome := newFetcher(t, srv.URL, folder, nil).FetchIssue(context.Background(), 5)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, domain.StageDownload, domain.StageOf(outcome.Err))
		assert.Equal(t, filepath.Join(folder, "MagPi06.pdf"), outcome.Path)

		data, err := os.ReadFile(outcome.Path)
		require.NoError(t, err)
		assert.Equal(t, "only part", string(data))
	})
}

// stubClient lets tests fail individual requests
type stubClient struct {
	page    string
	pageErr error
	body    string
	openErr error
	opened  []string
}

func (c *stubClient) FetchPage(ctx context.Context, url string) ([]byte, error) {
	if c.pageErr != nil {
		return nil, c.pageErr
	}
	return []byte(c.page), nil
}

func (c *stubClient) OpenStream(ctx context.Context, url string) (io.ReadCloser, error) {
	c.opened = append(c.opened, url)
	if c.openErr != nil {
		return nil, c.openErr
	}
	return io.NopCloser(bytes.NewBufferString(c.body)), nil
}

func TestFetcher_StubbedClient(t *testing.T) {
	catalog := domain.Catalog{
		MetadataURLTemplate: "https://magpi.example.org/issues/%s/pdf",
		FileNameTemplate:    "MagPi%s.pdf",
		Count:               92,
	}

	t.Run("transport failure", func(t *testing.T) {
		client := &stubClient{pageErr: errors.New("dial tcp: connection refused")}
		f := New(nil, catalog, client, filesystem.NewManager(t.TempDir()), nil, zaptest.NewLogger(t))

		outcome := f.FetchIssue(context.Background(), 0)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, "metadata: dial tcp: connection refused", outcome.Reason)
		assert.Empty(t, client.opened)
	})

	t.Run("relative link resolved against metadata page", func(t *testing.T) {
		client := &stubClient{page: `<a href="../../files/MagPi09.pdf">pdf</a>`, body: "pdf"}
		f := New(&Config{ChunkSize: 2}, catalog, client, filesystem.NewManager(t.TempDir()), nil, zaptest.NewLogger(t))

		outcome := f.FetchIssue(context.Background(), 8)

		require.True(t, outcome.IsSuccess(), outcome.Reason)
		assert.Equal(t, []string{"https://magpi.example.org/files/MagPi09.pdf"}, client.opened)
		assert.Equal(t, int64(4), outcome.BytesWritten)
	})

	t.Run("storage failure", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "MagPi")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		client := &stubClient{page: `<a href="/f/MagPi01.pdf">pdf</a>`, body: "pdf"}
		f := New(nil, catalog, client, filesystem.NewManager(blocker), nil, zaptest.NewLogger(t))

		outcome := f.FetchIssue(context.Background(), 0)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, domain.StageWrite, domain.StageOf(outcome.Err))
	})

	t.Run("file create failure reports no path", func(t *testing.T) {
		folder := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(folder, "MagPi01.pdf"), 0755))

		client := &stubClient{page: `<a href="/f/MagPi01.pdf">pdf</a>`, body: "pdf"}
		f := New(nil, catalog, client, filesystem.NewManager(folder), nil, zaptest.NewLogger(t))

		outcome := f.FetchIssue(context.Background(), 0)

		assert.False(t, outcome.IsSuccess())
		assert.Equal(t, domain.StageWrite, domain.StageOf(outcome.Err))
		assert.Empty(t, outcome.Path)
	})
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		page string
		href string
		want string
	}{
		{"https://magpi.raspberrypi.org/issues/01/pdf", "/downloads/MagPi01.pdf", "https://magpi.raspberrypi.org/downloads/MagPi01.pdf"},
		{"https://magpi.raspberrypi.org/issues/01/pdf", "https://cdn.example.com/MagPi01.pdf", "https://cdn.example.com/MagPi01.pdf"},
		{"https://magpi.raspberrypi.org/issues/01/pdf", "//cdn.example.com/MagPi01.pdf", "https://cdn.example.com/MagPi01.pdf"},
		{"https://magpi.raspberrypi.org/issues/01/pdf", "MagPi01.pdf", "https://magpi.raspberrypi.org/issues/01/MagPi01.pdf"},
	}

	for _, tt := range tests {
		got, err := resolveReference(tt.page, tt.href)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "href %q", tt.href)
	}
}
