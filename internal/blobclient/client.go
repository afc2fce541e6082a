package blobclient

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blobsync/internal/models"
	"blobsync/pkg/utils"
)

var (
	ErrBlobNotFound  = errors.New("no blob matches the given url")
	ErrMultipleBlobs = errors.New("cannot fetch content for multiple blobs")
)

// enumerationResults is the XML body returned by the container listing API
// (restype=container&comp=list). Older service versions include a Url element
// per blob; when absent the blob URL is derived from the container URL.
type enumerationResults struct {
	XMLName    xml.Name         `xml:"EnumerationResults"`
	Blobs      []enumeratedBlob `xml:"Blobs>Blob"`
	NextMarker string           `xml:"NextMarker"`
}

type enumeratedBlob struct {
	Name       string         `xml:"Name"`
	URL        string         `xml:"Url"`
	Properties blobProperties `xml:"Properties"`
}

type blobProperties struct {
	ContentLength int64 `xml:"Content-Length"`
}

type Client struct {
	httpClient *http.Client
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// NormalizeToken strips a single leading '?' from a SAS token so that
// "?sig=abc" and "sig=abc" sign URLs identically.
func NormalizeToken(token string) string {
	return strings.TrimPrefix(token, "?")
}

// SignURL appends the SAS token to a URL as its query string.
func SignURL(rawURL, token string) string {
	token = NormalizeToken(token)
	if token == "" {
		return rawURL
	}
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + token
}

// splitContainerURL separates a container or blob URL into the container base
// URL and the blob-name prefix under it. A bare container URL yields an empty
// prefix; a deeper path narrows the listing to blobs under that prefix.
func splitContainerURL(rawURL string) (containerURL, prefix string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid storage url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", "", fmt.Errorf("invalid storage url %q: missing scheme or host", rawURL)
	}

	segments := strings.SplitN(strings.TrimPrefix(parsed.Path, "/"), "/", 2)
	if segments[0] == "" {
		return "", "", fmt.Errorf("invalid storage url %q: missing container name", rawURL)
	}

	containerURL = parsed.Scheme + "://" + parsed.Host + "/" + segments[0]
	if len(segments) == 2 {
		prefix = segments[1]
	}
	return containerURL, prefix, nil
}

// List enumerates all blobs reachable from the given container or blob URL,
// following NextMarker pagination until the listing is exhausted. The SAS
// token is sent on the wire but never echoed in returned values or errors.
func (c *Client) List(ctx context.Context, rawURL, sasToken string) ([]models.RemoteBlob, error) {
	containerURL, prefix, err := splitContainerURL(rawURL)
	if err != nil {
		return nil, err
	}
	token := NormalizeToken(sasToken)

	var blobs []models.RemoteBlob
	marker := ""
	for {
		page, err := c.listPage(ctx, containerURL, prefix, marker, token)
		if err != nil {
			return nil, err
		}

		for _, blob := range page.Blobs {
			blobURL := blob.URL
			if blobURL == "" {
				blobURL = containerURL + "/" + blob.Name
			}
			blobs = append(blobs, models.RemoteBlob{
				Name:      blob.Name,
				SizeKB:    utils.SizeKB(blob.Properties.ContentLength),
				SizeBytes: blob.Properties.ContentLength,
				URL:       blobURL,
			})
		}

		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}
	return blobs, nil
}

func (c *Client) listPage(ctx context.Context, containerURL, prefix, marker, token string) (*enumerationResults, error) {
	query := url.Values{}
	query.Set("restype", "container")
	query.Set("comp", "list")
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	if marker != "" {
		query.Set("marker", marker)
	}

	listURL := containerURL + "?" + query.Encode()
	if token != "" {
		listURL += "&" + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list blobs at %s: %s", containerURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing response: %w", err)
	}

	var page enumerationResults
	if err := xml.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}
	return &page, nil
}

// Get fetches a blob's raw content via an authenticated GET.
func (c *Client) Get(ctx context.Context, rawURL, sasToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SignURL(rawURL, sasToken), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build blob request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch blob at %s: %s", rawURL, resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob content: %w", err)
	}
	return content, nil
}

// Content resolves the URL to exactly one blob and returns its raw content.
// Zero matches fail with ErrBlobNotFound, more than one with ErrMultipleBlobs.
func (c *Client) Content(ctx context.Context, rawURL, sasToken string) ([]byte, error) {
	blobs, err := c.List(ctx, rawURL, sasToken)
	if err != nil {
		return nil, err
	}

	switch len(blobs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, rawURL)
	case 1:
		return c.Get(ctx, blobs[0].URL, sasToken)
	default:
		return nil, fmt.Errorf("%w: %s matches %d blobs", ErrMultipleBlobs, rawURL, len(blobs))
	}
}
