package cmd

import (
	"blobsync/config"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "blobsync",
	Short: "Blob storage synchronization tool",
	Long: `blobsync is a command-line tool for mirroring blob storage containers to disk.
It lists the blobs behind a container (or single blob) URL, compares them against
the local directory by name and size, and downloads only what is missing.
Authentication uses a SAS token; defaults are loaded from .env file or environment variables`,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(catCmd)

	rootCmd.PersistentFlags().StringP("sas-token", "t", "", "Override SAS token from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getStorageURL(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.StorageURL
}

func getSasToken(cmd *cobra.Command) string {
	token, _ := cmd.Flags().GetString("sas-token")
	if token != "" {
		return token
	}
	return cfg.SasToken
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}
