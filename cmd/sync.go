package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"blobsync/internal/blobclient"
	"blobsync/internal/models"
	"blobsync/internal/syncer"
	"blobsync/pkg/utils"
)

var syncCmd = &cobra.Command{
	Use:   "sync [url]",
	Short: "Synchronize container blobs to a local directory",
	Long: `Synchronize blobs from a storage container (or a single blob URL) to a local directory.

For every remote blob the command compares name and size (KB, two decimals) against
the files already in the destination directory:
- no local copy, or a copy with a different size: the blob is downloaded
- a same-size local copy exists: the blob is skipped
- a same-size local copy exists and --force is set: the blob is overwritten

A failed transfer is reported in that blob's result row; the remaining blobs are
still processed.`,
	Example: `  # Sync a container to a local directory
  blobsync sync https://acct.blob.core.windows.net/backups --path /data/backups

  # Re-download everything, overwriting same-size local copies
  blobsync sync https://acct.blob.core.windows.net/backups --path /data/backups --force

  # Sync only blobs under a prefix
  blobsync sync https://acct.blob.core.windows.net/backups/2026 --path /data/backups

  # YAML result listing with an explicit token
  blobsync sync https://acct.blob.core.windows.net/backups --path /data/backups \
    --sas-token "sv=2022-11-02&sig=..." --output yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSync(cmd, args)
	},
}

func runSync(cmd *cobra.Command, args []string) {
	url := getStorageURL(args)
	if url == "" {
		utils.PrintError(errors.New("storage url is required (argument or STORAGE_URL)"), "sync")
		return
	}

	destination, _ := cmd.Flags().GetString("path")
	if destination == "" {
		destination = cfg.Destination
	}
	if destination == "" {
		utils.PrintError(errors.New("destination path is required (--path or DESTINATION)"), "sync")
		return
	}

	force, _ := cmd.Flags().GetBool("force")
	token := getSasToken(cmd)

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Starting sync operation...\n")
		cmd.Printf("  Source: %s\n", url)
		cmd.Printf("  Destination: %s\n", destination)
		cmd.Printf("  Force: %v\n", force)
	}

	startTime := time.Now()

	client := blobclient.New()
	blobs, err := client.List(ctx, url, token)
	if err != nil {
		utils.PrintError(err, "sync")
		return
	}

	if err := os.MkdirAll(destination, 0o755); err != nil {
		utils.PrintError(fmt.Errorf("failed to create destination directory: %w", err), "sync")
		return
	}

	local := syncer.LoadLocalIndex(destination)
	engine := syncer.New(syncer.NewHTTPTransferer(), token)
	rows := engine.Run(ctx, blobs, local, destination, force)

	result := summarize(url, destination, blobs, rows, startTime)

	if output, _ := cmd.Flags().GetString("output"); output == "yaml" {
		err = utils.PrintYAML(result)
	} else {
		err = utils.PrintJSON(result)
	}
	if err != nil {
		utils.PrintError(err, "sync")
		return
	}

	if isVerbose(cmd) {
		cmd.Println("Sync operation completed successfully")
		cmd.Printf("Processed %d blobs: %d downloaded, %d skipped, %d overwritten, %d errors\n",
			result.TotalBlobs, result.Downloaded, result.Skipped, result.Overwritten, result.Errors)
	}
}

func summarize(url, destination string, blobs []models.RemoteBlob, rows []models.ResultRow, startTime time.Time) *models.SyncResult {
	result := &models.SyncResult{
		ContainerURL:  url,
		Destination:   destination,
		Items:         rows,
		TotalBlobs:    len(rows),
		OperationTime: utils.FormatTime(startTime),
		SyncDuration:  time.Since(startTime).String(),
	}

	for _, blob := range blobs {
		result.TotalSizeBytes += blob.SizeBytes
	}
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)

	for _, row := range rows {
		switch {
		case row.Operation.IsError():
			result.Errors++
		case row.Operation == models.OutcomeOverwritten:
			result.Overwritten++
		case row.Operation == models.OutcomeSkipped:
			result.Skipped++
		default:
			result.Downloaded++
		}
	}
	return result
}

func init() {
	syncCmd.Flags().StringP("path", "p", "", "Local destination directory (default: DESTINATION env)")
	syncCmd.Flags().BoolP("force", "f", false, "Transfer blobs even when a same-size local copy exists")
	syncCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
	syncCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")
}
