package syncer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// HTTPTransferer is the production Transferer: it streams an authenticated
// GET into the destination file. Content is written to a temporary .partial
// file and renamed into place so a failed transfer never clobbers an
// existing local copy.
type HTTPTransferer struct {
	httpClient *http.Client
}

func NewHTTPTransferer() *HTTPTransferer {
	return &HTTPTransferer{httpClient: &http.Client{}}
}

func (t *HTTPTransferer) Transfer(ctx context.Context, sourceURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build transfer request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Status only: the source URL carries the SAS token.
		return fmt.Errorf("transfer failed: %s", resp.Status)
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create destination directory: %w", err)
		}
	}

	partial := destPath + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(partial)
		return fmt.Errorf("failed to write destination file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	if err := os.Rename(partial, destPath); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to finalize destination file: %w", err)
	}
	return nil
}
