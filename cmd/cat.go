package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"blobsync/internal/blobclient"
	"blobsync/pkg/utils"
)

var catCmd = &cobra.Command{
	Use:   "cat [url]",
	Short: "Print a single blob's raw content",
	Long: `Fetch one blob's content and write it to standard output.

The URL must resolve to exactly one blob. A URL matching several blobs (a prefix)
is an error; so is a URL matching none.`,
	Example: `  # Print a blob to stdout
  blobsync cat https://acct.blob.core.windows.net/backups/manifest.json

  # Redirect content into a file
  blobsync cat https://acct.blob.core.windows.net/backups/db.bak > db.bak`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCat(cmd, args)
	},
}

func runCat(cmd *cobra.Command, args []string) {
	url := getStorageURL(args)
	if url == "" {
		utils.PrintError(errors.New("blob url is required (argument or STORAGE_URL)"), "cat")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Fetching blob content from: %s\n", url)
	}

	content, err := blobclient.New().Content(ctx, url, getSasToken(cmd))
	if err != nil {
		utils.PrintError(err, "cat")
		return
	}

	if _, err := os.Stdout.Write(content); err != nil {
		utils.PrintError(err, "cat")
		return
	}
}

func init() {
	catCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation")
}
