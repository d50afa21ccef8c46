package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	downloadChunkSize = 8192
	downloadTimeout   = 5 * time.Minute
)

// RemoteFile is a lazy reference to a remote media file: the source
// URL plus the local filename derived from its trailing path segment.
type RemoteFile struct {
	Source string
	Name   string
}

// NewRemoteFile derives a file reference from a source URL. An empty
// source yields the zero reference.
func NewRemoteFile(source string) RemoteFile {
	if source == "" {
		return RemoteFile{}
	}
	name := source
	if i := strings.LastIndex(source, "/"); i >= 0 {
		name = source[i+1:]
	}
	return RemoteFile{Source: source, Name: name}
}

// IsZero reports whether the reference carries no source URL.
func (f RemoteFile) IsZero() bool {
	return f.Source == ""
}

// Fetcher downloads remote media files to local scratch storage.
type Fetcher struct {
	scratchDir string
	httpClient *http.Client
}

// NewFetcher creates a fetcher writing downloads under scratchDir.
func NewFetcher(scratchDir string) *Fetcher {
	return &Fetcher{
		scratchDir: scratchDir,
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
	}
}

// Fetch streams the remote file to the scratch directory in fixed-size
// chunks and returns the local path. Progress is logged against the
// declared content length; it is advisory only. A URL the client
// cannot issue as-is gets one retry after encoding normalization. An
// HTTP error status raises a *FetchError, which the caller must not
// treat as fatal to the post being synced.
func (f *Fetcher) Fetch(ctx context.Context, file RemoteFile) (string, error) {
	if file.IsZero() {
		return "", fmt.Errorf("remote file has no source URL")
	}

	resp, err := f.get(ctx, file.Source)
	if err != nil {
		encoded := encodeURL(file.Source)
		if encoded == file.Source {
			return "", err
		}
		resp, err = f.get(ctx, encoded)
		if err != nil {
			return "", err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: file.Source, StatusCode: resp.StatusCode}
	}

	localPath := filepath.Join(f.scratchDir, file.Name)
	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	total := resp.ContentLength
	log.Printf("Downloading %s (%d bytes)", file.Name, total)

	var written int64
	lastPercent := -1
	buf := make([]byte, downloadChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				os.Remove(localPath)
				return "", fmt.Errorf("write %s: %w", file.Name, writeErr)
			}
			written += int64(n)
			lastPercent = logProgress(file.Name, written, total, lastPercent)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			os.Remove(localPath)
			return "", fmt.Errorf("download %s: %w", file.Name, readErr)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	return localPath, nil
}

// logProgress reports cumulative bytes and percent complete, at most
// once per 10% step.
func logProgress(name string, written, total int64, lastPercent int) int {
	if total <= 0 {
		return lastPercent
	}
	percent := int(written * 100 / total)
	if percent/10 > lastPercent/10 || lastPercent < 0 {
		log.Printf("  %s: %d bytes [%d%%]", name, written, percent)
	}
	return percent
}

// encodeURL re-encodes a URL whose raw form is not request-safe
// (spaces, unescaped non-ASCII). Returns the input unchanged when it
// cannot be parsed at all.
func encodeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.RawQuery = u.Query().Encode()
	return u.String()
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
