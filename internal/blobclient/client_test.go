package blobclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingXML(nextMarker string, blobs ...string) string {
	body := `<?xml version="1.0" encoding="utf-8"?><EnumerationResults><Blobs>`
	for _, b := range blobs {
		body += b
	}
	body += `</Blobs><NextMarker>` + nextMarker + `</NextMarker></EnumerationResults>`
	return body
}

func blobXML(name string, size int64) string {
	return fmt.Sprintf(
		`<Blob><Name>%s</Name><Properties><Content-Length>%d</Content-Length></Properties></Blob>`,
		name, size,
	)
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc123", NormalizeToken("?abc123"))
	assert.Equal(t, "abc123", NormalizeToken("abc123"))
	assert.Equal(t, "?abc123", NormalizeToken("??abc123"))
	assert.Equal(t, "", NormalizeToken(""))
}

func TestSignURL(t *testing.T) {
	assert.Equal(t, "https://x/c/b?sig=1", SignURL("https://x/c/b", "sig=1"))
	assert.Equal(t, "https://x/c/b?sig=1", SignURL("https://x/c/b", "?sig=1"))
	assert.Equal(t, "https://x/c?comp=list&sig=1", SignURL("https://x/c?comp=list", "sig=1"))
	assert.Equal(t, "https://x/c/b", SignURL("https://x/c/b", ""))
}

func TestSplitContainerURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		container  string
		prefix     string
		shouldFail bool
	}{
		{"container only", "https://acct.blob.example.net/backups", "https://acct.blob.example.net/backups", "", false},
		{"single blob", "https://acct.blob.example.net/backups/db.bak", "https://acct.blob.example.net/backups", "db.bak", false},
		{"nested blob", "https://acct.blob.example.net/backups/2026/db.bak", "https://acct.blob.example.net/backups", "2026/db.bak", false},
		{"missing container", "https://acct.blob.example.net/", "", "", true},
		{"missing host", "backups/db.bak", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, prefix, err := splitContainerURL(tt.url)
			if tt.shouldFail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.container, container)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestListSinglePage(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, listingXML("", blobXML("db.bak", 10240), blobXML("logs.zip", 1500)))
	}))
	defer server.Close()

	client := New()
	blobs, err := client.List(context.Background(), server.URL+"/backups", "?sig=abc")
	require.NoError(t, err)
	require.Len(t, blobs, 2)

	assert.Equal(t, "db.bak", blobs[0].Name)
	assert.Equal(t, 10.00, blobs[0].SizeKB)
	assert.Equal(t, server.URL+"/backups/db.bak", blobs[0].URL)

	assert.Equal(t, "logs.zip", blobs[1].Name)
	assert.Equal(t, 1.46, blobs[1].SizeKB)

	// The leading '?' is stripped before the token joins the query string.
	assert.Contains(t, gotQuery, "restype=container")
	assert.Contains(t, gotQuery, "comp=list")
	assert.Contains(t, gotQuery, "sig=abc")
	assert.NotContains(t, gotQuery, "?sig")
}

func TestListTokenNormalization(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		fmt.Fprint(w, listingXML(""))
	}))
	defer server.Close()

	client := New()
	_, err := client.List(context.Background(), server.URL+"/backups", "abc123")
	require.NoError(t, err)
	_, err = client.List(context.Background(), server.URL+"/backups", "?abc123")
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, queries[0], queries[1])
}

func TestListPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("marker") == "" {
			fmt.Fprint(w, listingXML("page2", blobXML("a.txt", 1024)))
			return
		}
		fmt.Fprint(w, listingXML("", blobXML("b.txt", 2048)))
	}))
	defer server.Close()

	client := New()
	blobs, err := client.List(context.Background(), server.URL+"/backups", "")
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	assert.Equal(t, "a.txt", blobs[0].Name)
	assert.Equal(t, "b.txt", blobs[1].Name)
}

func TestListPrefixFromBlobURL(t *testing.T) {
	var gotPrefix string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefix = r.URL.Query().Get("prefix")
		fmt.Fprint(w, listingXML(""))
	}))
	defer server.Close()

	client := New()
	_, err := client.List(context.Background(), server.URL+"/backups/2026/db.bak", "")
	require.NoError(t, err)
	assert.Equal(t, "2026/db.bak", gotPrefix)
}

func TestListFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth failed", http.StatusForbidden)
	}))
	defer server.Close()

	client := New()
	_, err := client.List(context.Background(), server.URL+"/backups", "sig=bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	// Errors must not leak the SAS token.
	assert.NotContains(t, err.Error(), "sig=bad")
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "sig=abc" {
			http.Error(w, "missing token", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, "blob content")
	}))
	defer server.Close()

	client := New()
	content, err := client.Get(context.Background(), server.URL+"/backups/db.bak", "?sig=abc")
	require.NoError(t, err)
	assert.Equal(t, "blob content", string(content))
}

func TestContentSingleMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("comp") == "list" {
			fmt.Fprint(w, listingXML("", blobXML("db.bak", 12)))
			return
		}
		fmt.Fprint(w, "raw bytes")
	}))
	defer server.Close()

	client := New()
	content, err := client.Content(context.Background(), server.URL+"/backups/db.bak", "sig=abc")
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(content))
}

func TestContentNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingXML(""))
	}))
	defer server.Close()

	client := New()
	_, err := client.Content(context.Background(), server.URL+"/backups/missing.bak", "")
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestContentMultipleMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingXML("", blobXML("db.bak", 1), blobXML("db.bak.old", 1)))
	}))
	defer server.Close()

	client := New()
	_, err := client.Content(context.Background(), server.URL+"/backups/db.bak", "")
	require.ErrorIs(t, err, ErrMultipleBlobs)
}
