package syncer

import (
	"context"
	"path/filepath"

	"blobsync/internal/blobclient"
	"blobsync/internal/models"
	"blobsync/pkg/utils"
)

// Transferer moves one remote object to a local path. Implementations own
// timeout and retry behavior; the engine only consumes the per-call result.
type Transferer interface {
	Transfer(ctx context.Context, sourceURL, destPath string) error
}

// Engine decides, per remote blob, whether to skip, download or overwrite,
// performs the transfer, and records the outcome. Blobs are processed
// sequentially in listing order and each produces exactly one result row.
type Engine struct {
	transfer Transferer
	sasToken string
}

func New(transfer Transferer, sasToken string) *Engine {
	return &Engine{
		transfer: transfer,
		sasToken: blobclient.NormalizeToken(sasToken),
	}
}

// Run applies the sync decision to every remote blob:
//   - a local file with identical name and identical rounded KB size is a
//     duplicate; duplicates are skipped unless force is set
//   - force re-transfers everything, reporting duplicates as overwritten
//   - a transfer failure becomes that row's operation, never a batch failure
func (e *Engine) Run(ctx context.Context, blobs []models.RemoteBlob, local []models.LocalFile, destPath string, force bool) []models.ResultRow {
	index := make(map[string]float64, len(local))
	for _, file := range local {
		index[file.Name] = file.SizeKB
	}

	rows := make([]models.ResultRow, 0, len(blobs))
	for _, blob := range blobs {
		size, present := index[blob.Name]
		sameSize := present && size == blob.SizeKB
		overwrite := force && sameSize

		// Error scope is strictly this item's transfer call.
		var transferErr error
		if !sameSize || force {
			source := blobclient.SignURL(blob.URL, e.sasToken)
			transferErr = e.transfer.Transfer(ctx, source, filepath.Join(destPath, blob.Name))
		}

		var operation models.Outcome
		switch {
		case transferErr != nil:
			operation = models.OutcomeError(transferErr.Error())
		case overwrite:
			operation = models.OutcomeOverwritten
		case sameSize:
			operation = models.OutcomeSkipped
		default:
			operation = models.OutcomeDownloaded
		}

		rows = append(rows, models.ResultRow{
			Name:      blob.Name,
			SizeKB:    utils.FormatSizeKB(blob.SizeKB),
			URL:       blob.URL,
			Path:      destPath,
			Operation: operation,
		})
	}
	return rows
}
