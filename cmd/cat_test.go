package cmd

import (
	"net/http/httptest"
	"strings"
	"testing"

	"blobsync/config"
)

func TestCatCommand(t *testing.T) {
	server := httptest.NewServer(storageHandler(map[string]string{
		"manifest.json": `{"version": 3}`,
		"db.bak":        "binary payload",
	}))
	defer server.Close()

	cfg = &config.Config{}

	output := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"cat", server.URL + "/backups/manifest.json", "--sas-token", "sig=test"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("cat command failed: %v", err)
		}
	})

	if output != `{"version": 3}` {
		t.Errorf("cat output = %q, want %q", output, `{"version": 3}`)
	}
}

func TestCatCommandMultipleMatches(t *testing.T) {
	server := httptest.NewServer(storageHandler(map[string]string{
		"db.bak":     "one",
		"db.bak.old": "two",
	}))
	defer server.Close()

	cfg = &config.Config{}

	output := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"cat", server.URL + "/backups/db.bak"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("cat command failed: %v", err)
		}
	})

	if !strings.Contains(output, "cannot fetch content for multiple blobs") {
		t.Errorf("Output doesn't report the ambiguous match: %s", output)
	}
}

func TestCatCommandNoMatch(t *testing.T) {
	server := httptest.NewServer(storageHandler(map[string]string{}))
	defer server.Close()

	cfg = &config.Config{}

	output := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"cat", server.URL + "/backups/missing.bak"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("cat command failed: %v", err)
		}
	})

	if !strings.Contains(output, "no blob matches") {
		t.Errorf("Output doesn't report the missing blob: %s", output)
	}
}
