package fetcher

import (
	"io"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
)

// copyChunks streams src into dst chunkSize bytes at a time.
//
// Unless exact is set, every chunk counts as a full chunkSize, so the final
// short chunk is over-counted. onChunk receives the running count.
func copyChunks(dst io.Writer, src io.Reader, chunkSize int, exact bool, onChunk func(total int64)) (int64, error) {
	buf := make([]byte, chunkSize)
	var counted int64

	for {
		n, err := readChunk(src, buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return counted, domain.NewWriteError(werr)
			}
			if exact {
				counted += int64(n)
			} else {
				counted += int64(chunkSize)
			}
			if onChunk != nil {
				onChunk(counted)
			}
		}

		if err == io.EOF {
			return counted, nil
		}
		if err != nil {
			return counted, domain.NewDownloadError(err)
		}
	}
}

// readChunk fills buf unless the stream ends or fails first.
// Unlike io.ReadFull it passes a truncated body's io.ErrUnexpectedEOF through.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
