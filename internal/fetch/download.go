package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"
)

type HTTPDownloader struct {
	URL    string
	Client *http.Client
}

func NewHTTPDownloader(url string) *HTTPDownloader {
	return &HTTPDownloader{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Download fetches a gzip-compressed resource and writes it decompressed.
func (d *HTTPDownloader) Download(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", d.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", d.URL, resp.Status)
	}

	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	if _, err := io.Copy(w, zr); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	return nil
}
